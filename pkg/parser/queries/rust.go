package queries

// Rust locates `#[test]`-style functions and the `mod` blocks around them.
// Attribute paths such as `tokio::test` and `rstest` count as test markers,
// and further attributes or comments may sit between the marker and the
// function.
const Rust = `
(mod_item
  name: (identifier) @namespace.name) @namespace.definition

(
  (attribute_item
    (attribute
      [
        (identifier) @test.marker
        (scoped_identifier
          name: (identifier) @test.marker)
      ]))
  .
  [(attribute_item) (line_comment) (block_comment)]*
  .
  (function_item
    name: (identifier) @test.name) @test.definition
  (#match? @test.marker "^(test|rstest|case|test_case)$")
)
`
