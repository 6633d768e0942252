package runner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specvital/assert-lsp/pkg/domain"
	"github.com/specvital/assert-lsp/pkg/parser/queries"
	"github.com/specvital/assert-lsp/pkg/report"
)

// Kind identifies a supported test framework. The set is closed: every
// behaviour is a switch over the constants below.
type Kind string

const (
	KindCargoTest    Kind = "cargo-test"
	KindCargoNextest Kind = "cargo-nextest"
	KindGoTest       Kind = "go-test"
	KindJest         Kind = "jest"
	KindVitest       Kind = "vitest"
	KindDeno         Kind = "deno"
	KindNodeTest     Kind = "node-test"
	KindPHPUnit      Kind = "phpunit"
)

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{
		KindCargoTest,
		KindCargoNextest,
		KindGoTest,
		KindJest,
		KindVitest,
		KindDeno,
		KindNodeTest,
		KindPHPUnit,
	}
}

// ParseKind resolves a test kind key.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	switch k {
	case KindCargoTest, KindCargoNextest, KindGoTest, KindJest, KindVitest, KindDeno, KindNodeTest, KindPHPUnit:
		return k, nil
	default:
		return "", &UnknownKindError{Kind: s}
	}
}

func (k Kind) String() string {
	return string(k)
}

// Markers are the file names whose presence marks a project root.
func (k Kind) Markers() []string {
	switch k {
	case KindCargoTest, KindCargoNextest:
		return []string{"Cargo.toml"}
	case KindGoTest:
		return []string{"go.mod"}
	case KindJest, KindNodeTest:
		return []string{"package.json"}
	case KindVitest:
		return []string{
			"package.json",
			"vitest.config.ts", "vitest.config.js", "vitest.config.mts", "vitest.config.mjs",
			"vite.config.ts", "vite.config.js", "vite.config.mts", "vite.config.mjs",
		}
	case KindDeno:
		return []string{"deno.json", "deno.jsonc"}
	case KindPHPUnit:
		return []string{"composer.json", "phpunit.xml", "phpunit.xml.dist"}
	default:
		return nil
	}
}

// Extensions are the source file extensions a kind discovers tests in.
func (k Kind) Extensions() []string {
	switch k {
	case KindCargoTest, KindCargoNextest:
		return []string{"rs"}
	case KindGoTest:
		return []string{"go"}
	case KindJest, KindVitest:
		return []string{"js", "jsx", "ts", "tsx", "mjs", "cjs", "mts", "cts"}
	case KindDeno:
		return []string{"ts", "tsx", "js", "jsx", "mts", "mjs"}
	case KindNodeTest:
		return []string{"js", "mjs", "cjs", "ts", "mts"}
	case KindPHPUnit:
		return []string{"php"}
	default:
		return nil
	}
}

// DefaultInclude are the doublestar patterns selecting test files when no
// include list is configured.
func (k Kind) DefaultInclude() []string {
	switch k {
	case KindCargoTest, KindCargoNextest:
		return []string{"**/*.rs"}
	case KindGoTest:
		return []string{"**/*_test.go"}
	case KindJest, KindVitest:
		return []string{"**/*.test.{js,jsx,ts,tsx,mjs,mts}", "**/*.spec.{js,jsx,ts,tsx,mjs,mts}"}
	case KindDeno:
		return []string{"**/*_test.{ts,tsx,js,mjs}", "**/*.test.{ts,tsx,js,mjs}"}
	case KindNodeTest:
		return []string{"**/*.test.{js,mjs,cjs}", "**/test/**/*.{js,mjs,cjs}"}
	case KindPHPUnit:
		return []string{"**/*Test.php"}
	default:
		return nil
	}
}

// DefaultExclude are the doublestar patterns always skipped for a kind.
func (k Kind) DefaultExclude() []string {
	switch k {
	case KindCargoTest, KindCargoNextest:
		return []string{"**/target/**"}
	case KindJest, KindVitest, KindNodeTest:
		return []string{"**/node_modules/**"}
	case KindPHPUnit:
		return []string{"**/vendor/**"}
	default:
		return nil
	}
}

// query returns the locator query for the kind.
func (k Kind) query() string {
	switch k {
	case KindCargoTest, KindCargoNextest:
		return queries.Rust
	case KindGoTest:
		return queries.Go
	case KindJest:
		return queries.Jest
	case KindVitest:
		return queries.Vitest
	case KindDeno:
		return queries.Deno
	case KindNodeTest:
		return queries.NodeTest
	case KindPHPUnit:
		return queries.PHPUnit
	default:
		return ""
	}
}

// language picks the grammar for path under this kind.
func (k Kind) language(path string) (domain.Language, error) {
	lang, ok := domain.LanguageForPath(path)
	if !ok {
		return "", fmt.Errorf("%w: %s has no grammar for %s", ErrUnsupportedFile, filepath.Base(path), k)
	}

	switch k {
	case KindCargoTest, KindCargoNextest:
		if lang == domain.LanguageRust {
			return lang, nil
		}
	case KindGoTest:
		if lang == domain.LanguageGo {
			return lang, nil
		}
	case KindJest, KindVitest, KindDeno, KindNodeTest:
		switch lang {
		case domain.LanguageJavaScript, domain.LanguageTypeScript, domain.LanguageTSX:
			return lang, nil
		}
	case KindPHPUnit:
		if lang == domain.LanguagePHP {
			return lang, nil
		}
	}
	return "", fmt.Errorf("%w: %s is not a %s source", ErrUnsupportedFile, filepath.Base(path), k)
}

// usesModulePath reports whether ids are prefixed by the Rust module path.
func (k Kind) usesModulePath() bool {
	return k == KindCargoTest || k == KindCargoNextest
}

// translator returns the output translator for the kind.
func (k Kind) translator() report.Translator {
	switch k {
	case KindCargoTest:
		return report.LibtestJSON
	case KindCargoNextest:
		return report.NextestText
	case KindGoTest:
		return report.GoTestJSON
	case KindJest:
		return report.JestJSON
	case KindVitest:
		return report.VitestJSON
	case KindDeno:
		return report.DenoText
	case KindNodeTest:
		return report.NodeTestXML
	case KindPHPUnit:
		return report.PHPUnitXML
	default:
		return nil
	}
}
