package semantic

import "github.com/shivasurya/semindex/internal/ids"

// DefinitionKind discriminates the Definition tagged union.
type DefinitionKind string

const (
	DefFunction   DefinitionKind = "function"
	DefClass      DefinitionKind = "class"
	DefInterface  DefinitionKind = "interface"
	DefMethod     DefinitionKind = "method"
	DefConstructor DefinitionKind = "constructor"
	DefProperty   DefinitionKind = "property"
	DefVariable   DefinitionKind = "variable"
	DefConstant   DefinitionKind = "constant"
	DefImport     DefinitionKind = "import"
	DefEnum       DefinitionKind = "enum"
	DefTypeAlias  DefinitionKind = "type_alias"
)

// ImportKind classifies how an import binds a local name.
type ImportKind string

const (
	ImportNamed      ImportKind = "named"
	ImportDefault    ImportKind = "default"
	ImportNamespace  ImportKind = "namespace"
	ImportSideEffect ImportKind = "side_effect"
)

// Parameter is a single formal parameter of a function/method/constructor.
type Parameter struct {
	Name         string
	Type         string // textual type annotation, empty if absent
	DefaultValue string // textual default expression, empty if absent
}

// Signature is a function/method/constructor's formal parameter list and
// declared return type.
type Signature struct {
	Parameters []Parameter
	ReturnType string // empty if absent
}

// CallbackContext marks an anonymous function definition passed as an
// argument to a higher-order call, so Phase 2 can synthesize an invocation
// edge instead of treating it as an unreferenced entry point.
type CallbackContext struct {
	IsCallback      bool
	ReceiverLocation ids.Location // location of the call site receiving this callback
}

// FunctionCollection is attached to a variable/constant whose initializer
// is a literal container of functions (object literal, array, dict/table),
// used for dispatch-table resolution in Phase 2 and for indirect
// reachability.
type FunctionCollection struct {
	SymbolID         ids.SymbolId
	StoredFunctions  []ids.SymbolId   // inline function/lambda literals stored in the collection
	StoredReferences []ids.SymbolName // named references to be resolved later through lexical scope
}

// FunctionDef holds the fields specific to DefFunction.
type FunctionDef struct {
	Signature       Signature
	BodyScopeID     ids.ScopeId
	IsExported      bool
	Decorators      []string
	CallbackContext *CallbackContext // non-nil only for anonymous callback-position functions
}

// ClassDef holds the fields specific to DefClass.
type ClassDef struct {
	Extends      []string // base class names, textual (resolved later via scope)
	Implements   []string // interface names, textual
	Methods      []ids.SymbolId
	Properties   []ids.SymbolId
	Constructors []ids.SymbolId // array: multiple constructors are syntactically permitted
	Decorators   []string
	IsExported   bool
}

// InterfaceDef holds the fields specific to DefInterface.
type InterfaceDef struct {
	Extends    []string
	Methods    []ids.SymbolId
	Properties []ids.SymbolId
}

// MethodDef holds the fields specific to DefMethod. Constructors are never
// stored with this kind — see ConstructorDef.
type MethodDef struct {
	Parameters  []Parameter
	BodyScopeID *ids.ScopeId // absent for interface method signatures
	Decorators  []string
	Static      bool
}

// ConstructorDef holds the fields specific to DefConstructor.
type ConstructorDef struct {
	Parameters []Parameter
}

// PropertyDef holds the fields specific to DefProperty.
type PropertyDef struct {
	Type         string
	InitialValue string
}

// VariableDef holds the fields specific to DefVariable/DefConstant.
type VariableDef struct {
	InitialValue       string
	TypeAnnotation     string // textual type annotation, empty if absent (TypeRegistry's primary signal)
	FunctionCollection *FunctionCollection
	CollectionSource   ids.SymbolName // set when the initializer reads another FunctionCollection (e.g. spread, alias)
}

// ImportDef holds the fields specific to DefImport.
type ImportDef struct {
	ImportKind   ImportKind
	SourcePath   string
	OriginalName ids.SymbolName // present for named/default imports when the local binding renames the export
}

// EnumDef holds the fields specific to DefEnum.
type EnumDef struct {
	Members []string
}

// TypeAliasDef holds the fields specific to DefTypeAlias.
type TypeAliasDef struct {
	TypeExpression string
}

// Definition is the discriminated union over every kind of named entity a
// source file can introduce. Exactly one of the *Def fields is populated,
// selected by Kind.
type Definition struct {
	Kind            DefinitionKind
	SymbolID        ids.SymbolId
	Name            ids.SymbolName
	DefiningScopeID ids.ScopeId // the scope in which Name is visible to siblings
	Location        ids.Location
	Docstring       string // raw preceding comment/docstring text, unparsed

	Function    *FunctionDef
	Class       *ClassDef
	Interface   *InterfaceDef
	Method      *MethodDef
	Constructor *ConstructorDef
	Property    *PropertyDef
	Variable    *VariableDef
	Import      *ImportDef
	Enum        *EnumDef
	TypeAlias   *TypeAliasDef
}
