package capture

// javascriptQueries are the declarative capture queries run against the
// tree-sitter-javascript grammar. typescriptQueries extends this set with
// interface/type_alias/enum patterns the TypeScript grammar adds.
//
// Pattern naming convention: the query's outermost capture name
// (e.g. "function_declaration") becomes Match.PatternName; nested
// captures within the same pattern (".name", ".body", ".params", ...)
// are resolved by the definition/reference extractors.
var javascriptQueries = []namedQuery{
	{
		name: "function_declaration",
		src: `
(function_declaration
  name: (identifier) @name
  parameters: (formal_parameters) @params
  body: (statement_block) @body) @function_declaration
`,
	},
	{
		name: "function_expression",
		src: `
(variable_declarator
  name: (identifier) @name
  value: [(function_expression) (arrow_function)] @value) @function_expression
`,
	},
	{
		name: "named_function_expression",
		src: `
(function_expression
  name: (identifier) @name
  parameters: (formal_parameters) @params
  body: (statement_block) @body) @named_function_expression
`,
	},
	{
		name: "class_declaration",
		src: `
(class_declaration
  name: (identifier) @name
  (class_heritage)? @heritage
  body: (class_body) @body) @class_declaration
`,
	},
	{
		name: "method_definition",
		src: `
(method_definition
  name: (property_identifier) @name
  parameters: (formal_parameters) @params
  body: (statement_block)? @body) @method_definition
`,
	},
	{
		name: "variable_declarator",
		src: `
(variable_declarator
  name: (identifier) @name
  value: (_)? @value) @variable_declarator
`,
	},
	{
		name: "object_pattern_declarator",
		src: `
(variable_declarator
  name: (object_pattern) @name
  value: (_)? @value) @object_pattern_declarator
`,
	},
	{
		name: "import_statement",
		src: `
(import_statement
  (import_clause)? @clause
  source: (string) @source) @import_statement
`,
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
		name: "new_expression",
		src: `
(new_expression
  constructor: (_) @callee
  arguments: (arguments)? @arguments) @new_expression
`,
	},
	{
		name: "member_expression",
		src: `
(member_expression
  object: (_) @object
  property: (property_identifier) @property) @member_expression
`,
	},
	{
		name: "assignment_expression",
		src: `
(assignment_expression
  left: (_) @target
  right: (_) @value) @assignment_expression
`,
	},
	{
		name: "decorator",
		src: `(decorator (_) @name) @decorator`,
	},
}

var typescriptQueries = append(append([]namedQuery{}, javascriptQueries...), []namedQuery{
	{
		name: "interface_declaration",
		src: `
(interface_declaration
  name: (type_identifier) @name
  (extends_type_clause)? @extends
  body: (interface_body) @body) @interface_declaration
`,
	},
	{
		name: "type_alias_declaration",
		src: `
(type_alias_declaration
  name: (type_identifier) @name
  value: (_) @value) @type_alias_declaration
`,
	},
	{
		name: "enum_declaration",
		src: `
(enum_declaration
  name: (identifier) @name
  body: (enum_body) @body) @enum_declaration
`,
	},
	{
		name: "type_annotation",
		src: `(type_annotation (_) @type) @type_annotation`,
	},
	{
		name: "implements_clause",
		src: `(implements_clause (_) @type) @implements_clause`,
	},
}...)
