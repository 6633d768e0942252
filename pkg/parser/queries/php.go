package queries

// PHPUnit locates test methods inside classes: methods named test*, methods
// annotated with a @test docblock and methods carrying the #[Test] attribute.
const PHPUnit = `
(class_declaration
  name: (name) @namespace.name) @namespace.definition

(method_declaration
  name: (name) @test.name
  (#match? @test.name "^test")) @test.definition

(
  (comment) @test.marker
  .
  (method_declaration
    name: (name) @test.name) @test.definition
  (#match? @test.marker "@test([^A-Za-z]|$)")
)

(method_declaration
  (attribute_list
    (attribute_group
      (attribute
        (name) @test.marker)))
  name: (name) @test.name
  (#eq? @test.marker "Test")) @test.definition
`
