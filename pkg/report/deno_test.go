package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/assert-lsp/pkg/domain"
)

const denoOutput = "running 2 tests from ./main_test.ts\n" +
	"adds ... \x1b[0m\x1b[32mok\x1b[0m (2ms)\n" +
	"fails ... \x1b[0m\x1b[31mFAILED\x1b[0m (3ms)\n" +
	"\n" +
	" \x1b[0m\x1b[1m\x1b[37m\x1b[41m ERRORS \x1b[0m\n" +
	"\n" +
	"fails => ./main_test.ts:7:6\n" +
	"\x1b[0m\x1b[1m\x1b[31merror\x1b[0m: AssertionError: Values are not equal.\n" +
	"\n" +
	"    at assertEquals (https://deno.land/std/assert/mod.ts:1:1)\n" +
	"    at file:///ws/main_test.ts:8:3\n" +
	"\n" +
	"other => ./lib/other_test.ts:3:6\n" +
	"error: not a target\n" +
	"\n" +
	" \x1b[0m\x1b[1m\x1b[37m\x1b[41m FAILURES \x1b[0m\n" +
	"\n" +
	"fails => ./main_test.ts:7:6\n" +
	"\n" +
	"\x1b[0m\x1b[1m\x1b[31mFAILED\x1b[0m | 1 passed | 1 failed (20ms)\n"

func TestDenoText(t *testing.T) {
	out, err := DenoText(Input{
		Output:        []byte(denoOutput),
		WorkspaceRoot: "/ws",
		Targets:       []string{"/ws/main_test.ts"},
	})
	require.NoError(t, err)

	require.Len(t, out.Files, 1)
	diags := out.Diagnostics("/ws/main_test.ts")
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, domain.LineRange(6, 1), d.Range)
	assert.Equal(t, SourceDeno, d.Source)
	assert.Contains(t, d.Message, "error: AssertionError: Values are not equal.")
	assert.Contains(t, d.Message, "at file:///ws/main_test.ts:8:3")
	assert.NotContains(t, d.Message, "not a target")
}

func TestDenoText_NoErrorsSection(t *testing.T) {
	out, err := DenoText(Input{
		Output:        []byte("running 1 test from ./main_test.ts\nadds => ./main_test.ts:1:1\nok | 1 passed\n"),
		WorkspaceRoot: "/ws",
		Targets:       []string{"/ws/main_test.ts"},
	})
	require.NoError(t, err)
	assert.Empty(t, out.Files)
}

func TestDenoText_ResolvesParentPaths(t *testing.T) {
	output := " ERRORS \n\nfails => ../shared/util_test.ts:2:1\nerror: boom\n"

	out, err := DenoText(Input{
		Output:        []byte(output),
		WorkspaceRoot: "/ws/app",
		Targets:       []string{"/ws/shared/util_test.ts"},
	})
	require.NoError(t, err)

	diags := out.Diagnostics("/ws/shared/util_test.ts")
	require.Len(t, diags, 1)
	assert.Equal(t, "error: boom", diags[0].Message)
}
