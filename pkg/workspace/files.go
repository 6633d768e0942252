package workspace

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultSkipDirs are directory names never descended into when collecting files.
var DefaultSkipDirs = []string{
	".git",
	".hg",
	"node_modules",
	"target",
	"vendor",
	"dist",
	"coverage",
	".cache",
}

// Scope selects the files of a project.
//
// Include and Exclude are doublestar patterns matched against the path
// relative to BaseDir. When Include is empty, a file is selected by its
// extension instead.
type Scope struct {
	BaseDir    string
	Include    []string
	Exclude    []string
	Extensions []string
}

// Contains reports whether filePath is selected by the scope.
func (s *Scope) Contains(filePath string) bool {
	if s == nil {
		return false
	}

	relPath, err := filepath.Rel(filepath.Clean(s.BaseDir), filepath.Clean(filePath))
	if err != nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == ".." || strings.HasPrefix(relPath, "../") {
		return false
	}

	if len(s.Include) > 0 {
		if !matchesAny(s.Include, relPath) {
			return false
		}
	} else if !s.hasExtension(filePath) {
		return false
	}

	return !matchesAny(s.Exclude, relPath)
}

func (s *Scope) hasExtension(path string) bool {
	if len(s.Extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, e := range s.Extensions {
		if strings.EqualFold(strings.TrimPrefix(e, "."), ext) {
			return true
		}
	}
	return false
}

func matchesAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if match, err := doublestar.Match(pattern, relPath); err == nil && match {
			return true
		}
	}
	return false
}

// CollectFiles walks the scope's base directory and returns the absolute
// paths it selects, sorted.
func CollectFiles(ctx context.Context, s *Scope) ([]string, error) {
	root, err := filepath.Abs(s.BaseDir)
	if err != nil {
		return nil, err
	}
	scope := *s
	scope.BaseDir = root

	skip := make(map[string]bool, len(DefaultSkipDirs))
	for _, d := range DefaultSkipDirs {
		skip[d] = true
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return walkErr
		}
		if d.IsDir() {
			if path != root && skip[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if scope.Contains(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
