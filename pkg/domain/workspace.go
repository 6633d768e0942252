package domain

import (
	"net/url"
	"path/filepath"
	"slices"
	"sort"
)

// WorkspaceMap maps a project root to the files that belong to it.
type WorkspaceMap map[string][]string

// Attach adds file under root unless it is already listed there.
// It reports whether the file was added.
func (m WorkspaceMap) Attach(root, file string) bool {
	if slices.Contains(m[root], file) {
		return false
	}
	m[root] = append(m[root], file)
	return true
}

// Roots returns the roots in lexical order.
func (m WorkspaceMap) Roots() []string {
	roots := make([]string, 0, len(m))
	for root := range m {
		roots = append(roots, root)
	}
	sort.Strings(roots)
	return roots
}

// PathToURI converts an absolute file path to a file:// URI.
func PathToURI(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// URIToPath converts a file:// URI (or a bare path) to a file path.
// Non-file schemes yield "".
func URIToPath(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "" && parsed.Scheme != "file" {
		return ""
	}
	path := parsed.Path
	if parsed.Scheme == "" {
		path = uri
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	return filepath.FromSlash(path)
}
