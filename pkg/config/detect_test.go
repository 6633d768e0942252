package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/assert-lsp/pkg/runner"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  []runner.Kind
	}{
		{
			name:  "cargo",
			files: map[string]string{"Cargo.toml": "[package]"},
			want:  []runner.Kind{runner.KindCargoTest},
		},
		{
			name:  "vitest preferred over jest",
			files: map[string]string{"package.json": `{"devDependencies": {"jest": "^29", "vitest": "^1"}}`},
			want:  []runner.Kind{runner.KindVitest},
		},
		{
			name:  "jest",
			files: map[string]string{"package.json": `{"devDependencies": {"jest": "^29"}}`},
			want:  []runner.Kind{runner.KindJest},
		},
		{
			name:  "node test runner script",
			files: map[string]string{"package.json": `{"scripts": {"test": "node --test test/"}}`},
			want:  []runner.Kind{runner.KindNodeTest},
		},
		{
			name:  "package.json without a framework",
			files: map[string]string{"package.json": `{"name": "x"}`},
		},
		{
			name:  "deno",
			files: map[string]string{"deno.jsonc": "{}"},
			want:  []runner.Kind{runner.KindDeno},
		},
		{
			name:  "phpunit dependency",
			files: map[string]string{"composer.json": `{"require-dev": {"phpunit/phpunit": "^10"}}`},
			want:  []runner.Kind{runner.KindPHPUnit},
		},
		{
			name:  "composer without phpunit",
			files: map[string]string{"composer.json": `{"require": {}}`},
		},
		{
			name: "polyglot",
			files: map[string]string{
				"Cargo.toml": "",
				"go.mod":     "module x",
			},
			want: []runner.Kind{runner.KindCargoTest, runner.KindGoTest},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, filepath.Join(dir, name), content)
			}

			var got []runner.Kind
			for _, p := range Detect(dir) {
				assert.Equal(t, dir, p.Root)
				got = append(got, p.Kind)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromDetected(t *testing.T) {
	cfg := FromDetected([]DetectedProject{{Kind: runner.KindPHPUnit, Root: "/srv/app"}})

	require.Contains(t, cfg.Adapters, "phpunit")
	a := cfg.Adapters["phpunit"]
	assert.Equal(t, "phpunit", a.TestKind)
	assert.Equal(t, []string{"**/*Test.php"}, a.Include)
	assert.Equal(t, []string{"**/vendor/**"}, a.Exclude)
	assert.Equal(t, "/srv/app", a.WorkspaceDir)
	assert.Empty(t, a.Validate("phpunit"))
}
