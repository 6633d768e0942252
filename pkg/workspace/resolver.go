// Package workspace partitions files into project roots and holds the
// current partition as an immutable, versioned snapshot.
package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specvital/assert-lsp/pkg/domain"
)

const defaultMaxDepth = 32

// Resolver finds project roots by searching upward for marker files.
type Resolver struct {
	cache    *Cache
	maxDepth int
}

// NewResolver returns a resolver. A nil cache disables memoisation and a
// non-positive maxDepth uses the default bound.
func NewResolver(cache *Cache, maxDepth int) *Resolver {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &Resolver{
		cache:    cache,
		maxDepth: maxDepth,
	}
}

// Detect groups files under the roots that own them.
//
// Shorter paths are handled first so parents are known before their
// children. A file joins every known root that it contains as a substring
// (the longest one) and, independently, the nearest ancestor directory
// holding a marker. Files with neither are left out.
func (r *Resolver) Detect(files []string, markers []string) domain.WorkspaceMap {
	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) < len(sorted[j])
	})

	result := make(domain.WorkspaceMap)
	for _, file := range sorted {
		if root, ok := knownRoot(result, file); ok {
			result.Attach(root, file)
		}
		if root, ok := r.FindRoot(file, markers); ok {
			result.Attach(root, file)
		}
	}
	return result
}

// knownRoot returns the longest existing root that file contains.
func knownRoot(m domain.WorkspaceMap, file string) (string, bool) {
	var best string
	for root := range m {
		if strings.Contains(file, root) && len(root) > len(best) {
			best = root
		}
	}
	return best, best != ""
}

// FindRoot walks from the file's directory toward the filesystem root and
// returns the first directory holding one of markers. The walk stops after
// maxDepth directories.
func (r *Resolver) FindRoot(file string, markers []string) (string, bool) {
	dir := filepath.Dir(file)

	for depth := 0; depth < r.maxDepth; depth++ {
		if r.hasMarker(dir, markers) {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false
}

func (r *Resolver) hasMarker(dir string, markers []string) bool {
	if r.cache != nil {
		if found, ok := r.cache.Get(dir, markers); ok {
			return found
		}
	}

	found := anyFileExists(dir, markers)

	if r.cache != nil {
		r.cache.Set(dir, markers, found)
	}
	return found
}

func anyFileExists(dir string, files []string) bool {
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(dir, f)); err == nil {
			return true
		}
	}
	return false
}
