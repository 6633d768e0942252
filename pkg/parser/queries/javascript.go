package queries

// Jest locates describe blocks and it/test calls, including the
// .only/.skip/.todo/.concurrent/.failing modifiers. Names may be quoted
// strings or template literals. Vitest shares it.
const Jest = `
(call_expression
  function: (identifier) @namespace.func
  arguments: (arguments
    .
    [(string (string_fragment) @namespace.name) (template_string) @namespace.name]
    .
    [(arrow_function) (function_expression)])
  (#eq? @namespace.func "describe")) @namespace.definition

(call_expression
  function: (member_expression
    object: (identifier) @namespace.func
    property: (property_identifier) @namespace.modifier)
  arguments: (arguments
    .
    [(string (string_fragment) @namespace.name) (template_string) @namespace.name]
    .
    [(arrow_function) (function_expression)])
  (#eq? @namespace.func "describe")
  (#match? @namespace.modifier "^(only|skip|concurrent)$")) @namespace.definition

(call_expression
  function: (identifier) @test.func
  arguments: (arguments
    .
    [(string (string_fragment) @test.name) (template_string) @test.name]
    .
    [(arrow_function) (function_expression)])
  (#match? @test.func "^(it|test)$")) @test.definition

(call_expression
  function: (member_expression
    object: (identifier) @test.func
    property: (property_identifier) @test.modifier)
  arguments: (arguments
    .
    [(string (string_fragment) @test.name) (template_string) @test.name])
  (#match? @test.func "^(it|test)$")
  (#match? @test.modifier "^(only|skip|todo|concurrent|failing)$")) @test.definition
`

// Vitest is the same surface as Jest.
const Vitest = Jest

// NodeTest locates node:test suites and tests (describe/suite, it/test).
const NodeTest = `
(call_expression
  function: (identifier) @namespace.func
  arguments: (arguments
    .
    [(string (string_fragment) @namespace.name) (template_string) @namespace.name])
  (#match? @namespace.func "^(describe|suite)$")) @namespace.definition

(call_expression
  function: (identifier) @test.func
  arguments: (arguments
    .
    [(string (string_fragment) @test.name) (template_string) @test.name])
  (#match? @test.func "^(it|test)$")) @test.definition
`

// Deno locates Deno.test registrations, in both the (name, fn) and the
// ({ name, fn }) forms.
const Deno = `
(call_expression
  function: (member_expression
    object: (identifier) @test.object
    property: (property_identifier) @test.method)
  arguments: (arguments
    .
    [(string (string_fragment) @test.name) (template_string) @test.name])
  (#eq? @test.object "Deno")
  (#eq? @test.method "test")) @test.definition

(call_expression
  function: (member_expression
    object: (identifier) @test.object
    property: (property_identifier) @test.method)
  arguments: (arguments
    .
    (object
      (pair
        key: (property_identifier) @test.key
        value: [(string (string_fragment) @test.name) (template_string) @test.name])))
  (#eq? @test.object "Deno")
  (#eq? @test.method "test")
  (#eq? @test.key "name")) @test.definition
`
