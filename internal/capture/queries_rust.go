package capture

// rustQueries are the declarative capture queries run against the
// tree-sitter-rust grammar. Rust has no runtime classes; `impl` blocks
// play the role of ClassDef.Methods and trait `impl`s populate
// ClassDef.Implements for polymorphic dispatch over trait objects.
var rustQueries = []namedQuery{
	{
		name: "function_item",
		src: `
(function_item
  name: (identifier) @name
  parameters: (parameters) @params
  return_type: (_)? @return_type
  body: (block) @body) @function_item
`,
	},
	{
		name: "struct_item",
		src: `(struct_item name: (type_identifier) @name) @struct_item`,
	},
	{
		name: "trait_item",
		src: `
(trait_item
  name: (type_identifier) @name
  body: (declaration_list) @body) @trait_item
`,
	},
	{
		name: "impl_item",
		src: `
(impl_item
  trait: (type_identifier)? @trait
  type: (_) @type
  body: (declaration_list) @body) @impl_item
`,
	},
	{
		name: "function_signature_item",
		src: `
(function_signature_item
  name: (identifier) @name
  parameters: (parameters) @params) @function_signature_item
`,
	},
	{
		name: "let_declaration",
		src: `
(let_declaration
  pattern: (_) @target
  type: (_)? @type
  value: (_)? @value) @let_declaration
`,
	},
	{
		name: "use_declaration",
		src: `(use_declaration argument: (_) @path) @use_declaration`,
	},
	{
		name: "call_expression",
		src: `
(call_expression
  function: (_) @callee
  arguments: (arguments) @arguments) @call_expression
`,
	},
	{
		name: "field_expression",
		src: `
(field_expression
  value: (_) @object
  field: (field_identifier) @field) @field_expression
`,
	},
	{
		name: "method_call_expression",
		src: `
(call_expression
  function: (field_expression
    value: (_) @receiver
    field: (field_identifier) @method)
  arguments: (arguments) @arguments) @method_call_expression
`,
	},
}
