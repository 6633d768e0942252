package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/assert-lsp/pkg/domain"
)

const goTestStream = `{"Action":"start","Package":"example.com/demo"}
{"Action":"run","Package":"example.com/demo","Test":"TestCases"}
{"Action":"output","Package":"example.com/demo","Test":"TestCases","Output":"=== RUN   TestCases\n"}
{"Action":"output","Package":"example.com/demo","Test":"TestCases","Output":"    cases_test.go:31: mismatch\n"}
{"Action":"output","Package":"example.com/demo","Test":"TestCases","Output":"        got 1, want 2\n"}
{"Action":"output","Package":"example.com/demo","Test":"TestCases","Output":"--- FAIL: TestCases (0.00s)\n"}
{"Action":"fail","Package":"example.com/demo","Test":"TestCases","Elapsed":0}
{"Action":"run","Package":"example.com/demo","Test":"TestOK"}
{"Action":"output","Package":"example.com/demo","Test":"TestOK","Output":"=== RUN   TestOK\n"}
{"Action":"pass","Package":"example.com/demo","Test":"TestOK","Elapsed":0}
{"Action":"fail","Package":"example.com/demo","Elapsed":0.01}
`

func TestGoTestJSON(t *testing.T) {
	out, err := GoTestJSON(Input{
		Output:        []byte(goTestStream),
		WorkspaceRoot: "/ws",
		Targets:       []string{"/ws/cases_test.go"},
	})
	require.NoError(t, err)

	require.Len(t, out.Files, 1)
	diags := out.Diagnostics("/ws/cases_test.go")
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, 30, d.Range.Start.Line)
	assert.Equal(t, 1, d.Range.Start.Character)
	assert.Equal(t, domain.MaxCharLength, d.Range.End.Character)
	assert.Contains(t, d.Message, "mismatch")
	assert.Contains(t, d.Message, "got 1, want 2")
	assert.Equal(t, SourceGoTest, d.Source)
	assert.Equal(t, "go-test-failed", d.Code)
}

func TestGoTestJSON_SingleOutputLine(t *testing.T) {
	line := `{"Action":"output","Test":"TestCases","Output":"    cases_test.go:31: mismatch\n"}`

	out, err := GoTestJSON(Input{Output: []byte(line), WorkspaceRoot: "/ws", Targets: []string{"/ws/cases_test.go"}})
	require.NoError(t, err)

	diags := out.Diagnostics("/ws/cases_test.go")
	require.Len(t, diags, 1)
	assert.Equal(t, 30, diags[0].Range.Start.Line)
	assert.Equal(t, "mismatch", diags[0].Message)
}

func TestGoTestJSON_NestedPackageFile(t *testing.T) {
	stream := `{"Action":"run","Test":"TestDiv"}
{"Action":"output","Test":"TestDiv","Output":"    calc_test.go:12: division by zero\n"}
{"Action":"fail","Test":"TestDiv"}
`
	out, err := GoTestJSON(Input{
		Output:        []byte(stream),
		WorkspaceRoot: "/ws",
		Targets:       []string{"/ws/internal/calc/calc_test.go", "/ws/cases_test.go"},
	})
	require.NoError(t, err)

	diags := out.Diagnostics("/ws/internal/calc/calc_test.go")
	require.Len(t, diags, 1)
	assert.Equal(t, 11, diags[0].Range.Start.Line)
}

func TestGoTestJSON_Tolerance(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		targets []string
	}{
		{name: "all pass", output: `{"Action":"pass","Test":"TestA"}`, targets: []string{"/ws/a_test.go"}},
		{name: "malformed lines", output: "not json\n{\"Action\":\n", targets: []string{"/ws/a_test.go"}},
		{name: "site outside targets", output: goTestStream, targets: []string{"/ws/other_test.go"}},
		{name: "empty", output: "", targets: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := GoTestJSON(Input{Output: []byte(tt.output), WorkspaceRoot: "/ws", Targets: tt.targets})
			require.NoError(t, err)
			assert.Empty(t, out.Files)
		})
	}
}
