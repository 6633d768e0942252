package parser

import (
	"path/filepath"
	"strings"
)

// ModulePath derives the Rust module path of a source file.
//
// Components after the last "src" directory are kept (all components when the
// path has none), a trailing lib/main/mod file is dropped and the ".rs"
// suffix removed: src/rules/side_effects/mod.rs becomes "rules::side_effects"
// and src/lib.rs becomes "".
func ModulePath(path string) string {
	parts := strings.FieldsFunc(filepath.ToSlash(path), func(r rune) bool { return r == '/' })

	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == "src" {
			parts = parts[i+1:]
			break
		}
	}

	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		segments = append(segments, strings.TrimSuffix(p, ".rs"))
	}

	if n := len(segments); n > 0 && strings.HasSuffix(parts[n-1], ".rs") {
		switch segments[n-1] {
		case "lib", "main", "mod":
			segments = segments[:n-1]
		}
	}

	return strings.Join(segments, "::")
}

// QualifyID prefixes id with modulePath, leaving id untouched when the
// module path is empty.
func QualifyID(modulePath, id string) string {
	if modulePath == "" {
		return id
	}
	return modulePath + "::" + id
}
