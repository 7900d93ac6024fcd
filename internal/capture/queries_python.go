package capture

// pythonQueries are the declarative capture queries run against the
// tree-sitter-python grammar.
var pythonQueries = []namedQuery{
	{
		name: "function_definition",
		src: `
(function_definition
  name: (identifier) @name
  parameters: (parameters) @params
  return_type: (_)? @return_type
  body: (block) @body) @function_definition
`,
	},
	{
		name: "decorated_definition",
		src: `
(decorated_definition
  (decorator)+ @decorator
  definition: (_) @definition) @decorated_definition
`,
	},
	{
		name: "class_definition",
		src: `
(class_definition
  name: (identifier) @name
  superclasses: (argument_list)? @superclasses
  body: (block) @body) @class_definition
`,
	},
	{
		name: "assignment",
		src: `
(assignment
  left: (_) @target
  right: (_)? @value) @assignment
`,
	},
	{
		name: "import_statement",
		src: `(import_statement (dotted_name) @module) @import_statement`,
	},
	{
		name: "import_from_statement",
		src: `
(import_from_statement
  module_name: (_) @module
  name: (dotted_name) @name) @import_from_statement
`,
	},
	{
		name: "aliased_import",
		src: `(aliased_import (dotted_name) @name alias: (identifier) @alias) @aliased_import`,
	},
	{
		name: "call",
		src: `
(call
  function: (_) @callee
  arguments: (argument_list) @arguments) @call
`,
	},
	{
		name: "attribute",
		src: `
(attribute
  object: (_) @object
  attribute: (identifier) @attribute) @attribute
`,
	},
}
