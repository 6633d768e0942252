package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/assert-lsp/pkg/runner"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const sampleTOML = `
cache_dir = "/tmp/assert-cache"

[adapter_command.rust]
test_kind = "cargo-nextest"
extra_arg = ["--workspace"]
include = ["**/*.rs"]
exclude = ["**/target/**"]

[adapter_command.rust.env]
RUST_BACKTRACE = "1"

[adapter_command.web]
test_kind = "vitest"
include = ["src/**/*.test.ts"]
workspace_dir = "frontend"
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), sampleTOML)

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/assert-cache", cfg.CacheDir)
	assert.Equal(t, []string{"rust", "web"}, cfg.AdapterIDs())

	rust := cfg.Adapters["rust"]
	assert.Equal(t, "cargo-nextest", rust.TestKind)
	assert.Equal(t, []string{"--workspace"}, rust.ExtraArgs)
	assert.Equal(t, map[string]string{"RUST_BACKTRACE": "1"}, rust.Env)
	assert.Equal(t, []string{"**/target/**"}, rust.Exclude)

	web := cfg.Adapters["web"]
	assert.Equal(t, "frontend", web.WorkspaceDir)
	assert.Empty(t, web.ExtraArgs)
	assert.Empty(t, cfg.Warnings())
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFromDir(dir)
	assert.ErrorIs(t, err, ErrConfigNotFound)

	writeFile(t, filepath.Join(dir, FileName), "cache_dir = [")
	_, err = LoadFromDir(dir)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConfigNotFound)
	assert.Contains(t, err.Error(), "failed to parse TOML")
}

func TestLoad_DefaultCacheDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "")

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, runner.DefaultCacheDir(), cfg.CacheDir)
	assert.NotNil(t, cfg.Adapters)
}

func TestFromJSON(t *testing.T) {
	cfg, err := FromJSON([]byte(`{
		"adapter_command": {
			"go": {"test_kind": "go-test", "extra_arg": ["./..."], "include": ["**/*_test.go"]}
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, runner.DefaultCacheDir(), cfg.CacheDir)
	assert.Equal(t, "go-test", cfg.Adapters["go"].TestKind)
	assert.Equal(t, []string{"./..."}, cfg.Adapters["go"].ExtraArgs)

	_, err = FromJSON([]byte(`{"adapter_command": 3}`))
	assert.Error(t, err)
}

func TestAdapter_Validate(t *testing.T) {
	tests := []struct {
		name    string
		adapter Adapter
		want    []string
	}{
		{
			name:    "known kind",
			adapter: Adapter{TestKind: "phpunit"},
		},
		{
			name:    "missing kind",
			adapter: Adapter{},
			want:    []string{"Adapter 'x': test_kind is not set"},
		},
		{
			name:    "unknown kind",
			adapter: Adapter{TestKind: "mocha"},
			want: []string{"Adapter 'x': unknown test_kind 'mocha'. Valid values are: " +
				"cargo-test, cargo-nextest, go-test, jest, vitest, deno, node-test, phpunit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.adapter.Validate("x"))
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("file wins over init options", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), sampleTOML)

		cfg, err := Resolve(dir, []byte(`{"adapter_command": {}}`))
		require.NoError(t, err)
		assert.Len(t, cfg.Adapters, 2)
	})

	t.Run("init options", func(t *testing.T) {
		cfg, err := Resolve(t.TempDir(), []byte(`{"adapter_command": {"d": {"test_kind": "deno"}}}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"d"}, cfg.AdapterIDs())
	})

	t.Run("detection", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "go.mod"), "module example.com/demo\n")

		cfg, err := Resolve(dir, nil)
		require.NoError(t, err)
		require.Contains(t, cfg.Adapters, "go-test")
		assert.Equal(t, dir, cfg.Adapters["go-test"].WorkspaceDir)
	})

	t.Run("nothing found", func(t *testing.T) {
		cfg, err := Resolve(t.TempDir(), nil)
		require.NoError(t, err)
		assert.Empty(t, cfg.Adapters)
	})
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/Users/test/projects/github.com/hoge/fuga", ResolvePath("/Users/test/projects", "github.com/hoge/fuga"))
	assert.Equal(t, "/Users/test/fuga", ResolvePath("/Users/test/projects", "../fuga"))
	assert.Equal(t, "/abs/dir", ResolvePath("/Users/test", "/abs/./dir"))
}
