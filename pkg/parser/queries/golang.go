package queries

// Go locates top-level Test and Fuzz functions taking *testing.T or
// *testing.F. Subtests are run by name filters of their parent and are not
// located individually.
const Go = `
(function_declaration
  name: (identifier) @test.name
  parameters: (parameter_list
    .
    (parameter_declaration
      type: (pointer_type
        (qualified_type
          package: (package_identifier) @test.package
          name: (type_identifier) @test.type))))
  (#match? @test.name "^(Test|Fuzz)")
  (#eq? @test.package "testing")
  (#match? @test.type "^[TF]$")) @test.definition
`
