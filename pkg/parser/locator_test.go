package parser_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/assert-lsp/pkg/domain"
	"github.com/specvital/assert-lsp/pkg/parser"
	"github.com/specvital/assert-lsp/pkg/parser/queries"
)

func ids(items []domain.TestItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func locate(t *testing.T, lang domain.Language, query, source string, opts ...parser.LocateOption) []domain.TestItem {
	t.Helper()
	items, err := parser.LocateSource(context.Background(), "/virtual/file", []byte(source), lang, query, opts...)
	require.NoError(t, err)
	return items
}

const nestedRust = `mod a {
    mod b {
        #[test]
        fn f() {
            assert!(true);
        }
    }
}

#[test]
fn top() {}
`

func TestLocate_RustNestedNamespaces(t *testing.T) {
	items := locate(t, domain.LanguageRust, queries.Rust, nestedRust)

	require.Equal(t, []string{"a::b::f", "top"}, ids(items))

	f := items[0]
	assert.Equal(t, "f", f.Name)
	assert.Equal(t, "/virtual/file", f.Path)
	assert.Equal(t, domain.Range{
		Start: domain.Position{Line: 3, Character: 8},
		End:   domain.Position{Line: 3, Character: domain.MaxCharLength},
	}, f.StartPosition)
	assert.Equal(t, domain.Range{
		Start: domain.Position{Line: 5, Character: 0},
		End:   domain.Position{Line: 5, Character: 9},
	}, f.EndPosition)
}

func TestLocate_RustModulePathPrefix(t *testing.T) {
	items := locate(t, domain.LanguageRust, queries.Rust, nestedRust,
		parser.WithModulePath(parser.ModulePath("src/rules/side_effects/mod.rs")))

	assert.Equal(t, []string{"rules::side_effects::a::b::f", "rules::side_effects::top"}, ids(items))
}

func TestLocate_RustAttributes(t *testing.T) {
	source := `#[cfg(test)]
mod tests {
    use super::*;

    fn helper() {}

    #[test]
    #[should_panic]
    fn panics() {}

    #[tokio::test]
    async fn async_case() {}
}
`
	items := locate(t, domain.LanguageRust, queries.Rust, source)

	assert.Equal(t, []string{"tests::panics", "tests::async_case"}, ids(items))
}

func TestLocate_RustCommentAfterAttribute(t *testing.T) {
	source := `#[test]
// note
fn commented() {}

#[test]
/* block */
#[ignore]
fn ignored() {}
`
	items := locate(t, domain.LanguageRust, queries.Rust, source)

	assert.Equal(t, []string{"commented", "ignored"}, ids(items))
}

func TestLocate_DuplicateIDsFirstWins(t *testing.T) {
	source := `mod tests {
    #[test]
    fn same() {}
}

mod tests {
    #[test]
    fn same() {}
}
`
	items := locate(t, domain.LanguageRust, queries.Rust, source)

	require.Len(t, items, 1)
	assert.Equal(t, "tests::same", items[0].ID)
	assert.Equal(t, 2, items[0].StartPosition.Start.Line)
}

func TestLocate_Idempotent(t *testing.T) {
	first := locate(t, domain.LanguageRust, queries.Rust, nestedRust)
	second := locate(t, domain.LanguageRust, queries.Rust, nestedRust)

	assert.Equal(t, first, second)
}

func TestLocate_JestDescribeNesting(t *testing.T) {
	source := `describe('outer', () => {
  describe('inner', () => {
    it('works', () => {});
  });
  test('sibling', () => {});
});
it('top', () => {});
`
	for _, lang := range []domain.Language{domain.LanguageJavaScript, domain.LanguageTypeScript} {
		t.Run(string(lang), func(t *testing.T) {
			items := locate(t, lang, queries.Jest, source)
			assert.Equal(t, []string{"outer::inner::works", "outer::sibling", "top"}, ids(items))
		})
	}
}

func TestLocate_NameTrimmer(t *testing.T) {
	source := `describe('my suite', () => {
  it('adds two', () => {});
});
`
	snake := func(s string) string {
		return strings.ReplaceAll(strings.Trim(s, "'"), " ", "_")
	}

	items := locate(t, domain.LanguageJavaScript, queries.Jest, source, parser.WithNameTrimmer(snake))

	assert.Equal(t, []string{"my_suite::adds_two"}, ids(items))
	assert.Equal(t, "adds_two", items[0].Name)
}

func TestLocate_JestModifiers(t *testing.T) {
	source := `describe.only('suite', () => {
  it.skip('skipped', () => {});
  test.todo('later');
});
`
	items := locate(t, domain.LanguageJavaScript, queries.Jest, source)

	assert.Equal(t, []string{"suite::skipped", "suite::later"}, ids(items))
}

func TestLocate_JestTemplateLiteralNames(t *testing.T) {
	source := "describe(`suite`, () => {\n" +
		"  it(\"dq\", () => {});\n" +
		"  it(`tmpl`, () => {});\n" +
		"});\n"

	items := locate(t, domain.LanguageJavaScript, queries.Jest, source)

	assert.Equal(t, []string{"suite::dq", "suite::tmpl"}, ids(items))
	assert.Equal(t, "tmpl", items[1].Name)
}

func TestLocate_GoTests(t *testing.T) {
	source := `package demo

import "testing"

func TestAdd(t *testing.T) {}

func helper(t *testing.T) {}

func TestNoParams() {}

func FuzzParse(f *testing.F) {}
`
	items := locate(t, domain.LanguageGo, queries.Go, source)

	assert.Equal(t, []string{"TestAdd", "FuzzParse"}, ids(items))
}

func TestLocate_PHPUnit(t *testing.T) {
	source := `<?php

class CalculatorTest extends TestCase
{
    public function testAdd(): void {}

    /** @test */
    public function itSubtracts(): void {}

    public function helper(): void {}
}
`
	items := locate(t, domain.LanguagePHP, queries.PHPUnit, source)

	assert.Equal(t, []string{"CalculatorTest::testAdd", "CalculatorTest::itSubtracts"}, ids(items))
}

func TestLocate_Deno(t *testing.T) {
	source := `Deno.test("adds", () => {});

Deno.test({
  name: "object form",
  fn() {},
});
`
	items := locate(t, domain.LanguageTypeScript, queries.Deno, source)

	assert.Equal(t, []string{"adds", "object form"}, ids(items))
}

func TestLocate_NodeTest(t *testing.T) {
	source := `import { describe, it } from 'node:test';

describe('math', () => {
  it('adds', () => {});
});
`
	items := locate(t, domain.LanguageJavaScript, queries.NodeTest, source)

	assert.Equal(t, []string{"math::adds"}, ids(items))
}

func TestLocate_NoMatchesIsEmpty(t *testing.T) {
	items := locate(t, domain.LanguageRust, queries.Rust, "fn main() {}\n")

	assert.Empty(t, items)
}

func TestLocate_PartialTreeTolerated(t *testing.T) {
	source := `#[test]
fn ok() {}

fn broken( {
`
	items := locate(t, domain.LanguageRust, queries.Rust, source)

	assert.Contains(t, ids(items), "ok")
}

func TestLocate_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib_test.go")
	require.NoError(t, os.WriteFile(path, []byte("package lib\n\nimport \"testing\"\n\nfunc TestRead(t *testing.T) {}\n"), 0o644))

	items, err := parser.Locate(context.Background(), path, domain.LanguageGo, queries.Go)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, path, items[0].Path)
	assert.Equal(t, 4, items[0].StartPosition.Start.Line)
}

func TestLocate_UnreadableFile(t *testing.T) {
	_, err := parser.Locate(context.Background(), filepath.Join(t.TempDir(), "missing.rs"), domain.LanguageRust, queries.Rust)
	assert.ErrorIs(t, err, parser.ErrUnreadableFile)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocate_FileTooLarge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.rs")
	require.NoError(t, os.WriteFile(path, []byte(nestedRust), 0o644))

	_, err := parser.Locate(context.Background(), path, domain.LanguageRust, queries.Rust, parser.WithMaxFileSize(8))
	assert.ErrorIs(t, err, parser.ErrUnreadableFile)
}
