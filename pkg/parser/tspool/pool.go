// Package tspool provides tree-sitter parsers and cached query compilation
// for the grammars test discovery understands.
//
// Parsers are created fresh per parse. A parser whose ParseCtx was cancelled
// keeps its internal cancel flag set, so reusing it would fail later parses
// with "operation limit was hit".
//
// Thread-safety: Parsers returned by Get are NOT safe for concurrent use.
// Compiled queries are shared and may be executed from many goroutines.
package tspool

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/specvital/assert-lsp/pkg/domain"
)

var (
	goLang  *sitter.Language
	jsLang  *sitter.Language
	phpLang *sitter.Language
	rsLang  *sitter.Language
	tsLang  *sitter.Language
	tsxLang *sitter.Language

	langOnce sync.Once
)

func initLanguages() {
	langOnce.Do(func() {
		goLang = golang.GetLanguage()
		jsLang = javascript.GetLanguage()
		phpLang = php.GetLanguage()
		rsLang = rust.GetLanguage()
		tsLang = typescript.GetLanguage()
		tsxLang = tsx.GetLanguage()
	})
}

// GetLanguage returns the tree-sitter grammar for lang, or nil when the
// language has no grammar.
func GetLanguage(lang domain.Language) *sitter.Language {
	initLanguages()
	switch lang {
	case domain.LanguageGo:
		return goLang
	case domain.LanguageJavaScript:
		return jsLang
	case domain.LanguagePHP:
		return phpLang
	case domain.LanguageRust:
		return rsLang
	case domain.LanguageTypeScript:
		return tsLang
	case domain.LanguageTSX:
		return tsxLang
	default:
		return nil
	}
}

// Get returns a parser for the given language.
// The returned parser is NOT safe for concurrent use.
// Caller MUST call parser.Close() when done to free resources.
func Get(lang domain.Language) (*sitter.Parser, error) {
	grammar := GetLanguage(lang)
	if grammar == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	return parser, nil
}

// Parse parses source using a fresh parser.
// Caller MUST call tree.Close() to free resources.
func Parse(ctx context.Context, lang domain.Language, source []byte) (*sitter.Tree, error) {
	parser, err := Get(lang)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s failed: %w", lang, err)
	}

	return tree, nil
}
