package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"rocks::dependency::tests::parse_dependency", "parse_dependency"},
		{"adds", "adds"},
		{"suite::", ""},
		{"", ""},
		{"a:b", "a:b"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ShortName(tt.id))
			assert.Equal(t, tt.want, TestItem{ID: tt.id}.ShortName())
		})
	}
}

func TestLanguageForPath(t *testing.T) {
	tests := []struct {
		path string
		want Language
		ok   bool
	}{
		{"src/lib.rs", LanguageRust, true},
		{"pkg/a_test.go", LanguageGo, true},
		{"a.test.MJS", LanguageJavaScript, true},
		{"a.spec.cts", LanguageTypeScript, true},
		{"App.test.tsx", LanguageTSX, true},
		{"tests/FooTest.php", LanguagePHP, true},
		{"README.md", "", false},
		{"Makefile", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := LanguageForPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLineRange(t *testing.T) {
	r := LineRange(4, 8)
	assert.Equal(t, Position{Line: 4, Character: 8}, r.Start)
	assert.Equal(t, Position{Line: 4, Character: MaxCharLength}, r.End)
}

func TestOutcomeBuilder(t *testing.T) {
	b := NewOutcomeBuilder()
	d := Diagnostic{Range: LineRange(1, 0), Severity: SeverityError, Message: "boom"}

	b.Add("/ws/b.rs", d)
	b.AddUnique("/ws/a.rs", d)
	b.AddUnique("/ws/a.rs", d)
	b.AddUnique("/ws/a.rs", Diagnostic{Range: LineRange(2, 0), Message: "boom"})
	b.Message(MessageWarning, "truncated")

	out := b.Build()

	require.Len(t, out.Files, 2)
	assert.Equal(t, "/ws/a.rs", out.Files[0].Path)
	assert.Equal(t, "/ws/b.rs", out.Files[1].Path)
	assert.Len(t, out.Diagnostics("/ws/a.rs"), 2)
	assert.Nil(t, out.Diagnostics("/ws/missing.rs"))
	assert.Equal(t, 3, out.CountDiagnostics())
	assert.Equal(t, []Message{{Type: MessageWarning, Text: "truncated"}}, out.Messages)
}

func TestOutcomeBuilder_Empty(t *testing.T) {
	out := NewOutcomeBuilder().Build()
	assert.NotNil(t, out.Files)
	assert.Empty(t, out.Files)
	assert.Zero(t, out.CountDiagnostics())
}

func TestWorkspaceMap_Attach(t *testing.T) {
	m := WorkspaceMap{}

	assert.True(t, m.Attach("/ws", "/ws/a.rs"))
	assert.False(t, m.Attach("/ws", "/ws/a.rs"))
	assert.True(t, m.Attach("/ws", "/ws/b.rs"))
	assert.True(t, m.Attach("/other", "/ws/a.rs"))

	assert.Equal(t, []string{"/ws/a.rs", "/ws/b.rs"}, m["/ws"])
	assert.Equal(t, []string{"/other", "/ws"}, m.Roots())
}

func TestURIRoundTrip(t *testing.T) {
	tests := []struct {
		path string
		uri  string
	}{
		{"/home/example/projects/src/lib.rs", "file:///home/example/projects/src/lib.rs"},
		{"/tmp/with space/a.ts", "file:///tmp/with%20space/a.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.uri, PathToURI(tt.path))
			assert.Equal(t, tt.path, URIToPath(tt.uri))
		})
	}

	assert.Empty(t, PathToURI(""))
	assert.Empty(t, URIToPath("https://example.com/a.rs"))
	assert.Equal(t, "/plain/path.go", URIToPath("/plain/path.go"))
}
