package workspace

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_Contains(t *testing.T) {
	tests := []struct {
		name  string
		scope Scope
		path  string
		want  bool
	}{
		{
			name:  "include glob",
			scope: Scope{BaseDir: "/p", Include: []string{"**/*.test.{js,ts}"}},
			path:  "/p/src/sum.test.ts",
			want:  true,
		},
		{
			name:  "excluded directory",
			scope: Scope{BaseDir: "/p", Include: []string{"**/*.rs"}, Exclude: []string{"**/target/**"}},
			path:  "/p/target/debug/build.rs",
			want:  false,
		},
		{
			name:  "outside base",
			scope: Scope{BaseDir: "/p", Include: []string{"**/*.rs"}},
			path:  "/q/src/lib.rs",
			want:  false,
		},
		{
			name:  "extension fallback",
			scope: Scope{BaseDir: "/p", Extensions: []string{"go"}},
			path:  "/p/pkg/a_test.go",
			want:  true,
		},
		{
			name:  "extension mismatch",
			scope: Scope{BaseDir: "/p", Extensions: []string{".php"}},
			path:  "/p/pkg/a_test.go",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.Contains(tt.path))
		})
	}
}

func TestCollectFiles(t *testing.T) {
	p := t.TempDir()
	touch(t, filepath.Join(p, "src", "lib.rs"))
	touch(t, filepath.Join(p, "src", "rules", "mod.rs"))
	touch(t, filepath.Join(p, "target", "debug", "gen.rs"))
	touch(t, filepath.Join(p, "README.md"))

	files, err := CollectFiles(context.Background(), &Scope{BaseDir: p, Include: []string{"**/*.rs"}})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(p, "src", "lib.rs"),
		filepath.Join(p, "src", "rules", "mod.rs"),
	}, files)
}

func TestCollectFiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CollectFiles(ctx, &Scope{BaseDir: t.TempDir()})
	assert.ErrorIs(t, err, context.Canceled)
}
