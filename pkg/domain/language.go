// Package domain defines the core types shared by test discovery, execution and
// result translation.
package domain

import (
	"path/filepath"
	"strings"
)

// Language represents a source grammar.
type Language string

// Supported grammars for test discovery.
const (
	LanguageGo         Language = "go"
	LanguageJavaScript Language = "javascript"
	LanguagePHP        Language = "php"
	LanguageRust       Language = "rust"
	LanguageTSX        Language = "tsx"
	LanguageTypeScript Language = "typescript"
)

// LanguageForPath picks the grammar for a file by extension.
// The second result is false for extensions no grammar covers.
func LanguageForPath(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return LanguageGo, true
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript, true
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript, true
	case ".tsx":
		return LanguageTSX, true
	case ".php":
		return LanguagePHP, true
	case ".rs":
		return LanguageRust, true
	default:
		return "", false
	}
}
