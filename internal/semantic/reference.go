package semantic

import "github.com/shivasurya/semindex/internal/ids"

// ReferenceKind discriminates the Reference tagged union.
type ReferenceKind string

const (
	RefSelfCall         ReferenceKind = "self_reference_call"
	RefMethodCall       ReferenceKind = "method_call"
	RefFunctionCall     ReferenceKind = "function_call"
	RefConstructorCall  ReferenceKind = "constructor_call"
	RefVariableRef      ReferenceKind = "variable_reference"
	RefPropertyAccess   ReferenceKind = "property_access"
	RefTypeReference    ReferenceKind = "type_reference"
	RefAssignment       ReferenceKind = "assignment"
)

// SelfKeyword enumerates the receiver keywords recognized by self_reference_call.
type SelfKeyword string

const (
	SelfThis  SelfKeyword = "this"
	SelfSelf  SelfKeyword = "self"
	SelfSuper SelfKeyword = "super"
	SelfCls   SelfKeyword = "cls"
)

// AccessType discriminates reads from writes for variable_reference and
// property_access.
type AccessType string

const (
	AccessRead     AccessType = "read"
	AccessWrite    AccessType = "write"
	AccessProperty AccessType = "property"
	AccessIndex    AccessType = "index"
)

// TypeContext classifies where a type_reference occurs.
type TypeContext string

const (
	TypeContextAnnotation TypeContext = "annotation"
	TypeContextExtends    TypeContext = "extends"
	TypeContextImplements TypeContext = "implements"
	TypeContextGeneric    TypeContext = "generic"
	TypeContextReturn     TypeContext = "return"
)

// SelfReferenceCall holds fields specific to RefSelfCall.
type SelfReferenceCall struct {
	Keyword       SelfKeyword
	PropertyChain []string
}

// MethodCall holds fields specific to RefMethodCall.
type MethodCall struct {
	ReceiverLocation  ids.Location
	PropertyChain     []string
	OptionalChaining  bool
}

// FunctionCall holds fields specific to RefFunctionCall.
type FunctionCall struct {
	PotentialConstructTarget bool // true when the extractor cannot distinguish call from construction (e.g. Python)
}

// ConstructorCall holds fields specific to RefConstructorCall.
type ConstructorCall struct {
	ConstructTarget *ids.Location // location of the assigned binding, if the construction's immediate context is an assignment/declaration
}

// VariableReference holds fields specific to RefVariableRef.
type VariableReference struct {
	AccessType AccessType // AccessRead or AccessWrite
}

// PropertyAccess holds fields specific to RefPropertyAccess.
type PropertyAccess struct {
	ReceiverLocation ids.Location
	PropertyChain    []string
	AccessType       AccessType // AccessProperty or AccessIndex
	IsOptionalChain  bool
}

// TypeReference holds fields specific to RefTypeReference.
type TypeReference struct {
	TypeContext TypeContext
	TypeInfo    string // textual type expression, if resolvable
}

// AssignmentType classifies the assignment operator, e.g. "=", "+=".
type AssignmentType string

// Assignment holds fields specific to RefAssignment.
type Assignment struct {
	TargetLocation ids.Location
	AssignmentType AssignmentType
}

// Reference is the discriminated union over every kind of name use a
// source file can contain. Exactly one of the variant fields is
// populated, selected by Kind. PropertyChain is always rooted left to
// right, terminal name last (e.g. api.users.list -> ["api","users","list"]).
type Reference struct {
	Kind     ReferenceKind
	Name     ids.SymbolName
	Location ids.Location
	ScopeID  ids.ScopeId

	SelfReferenceCall *SelfReferenceCall
	MethodCall        *MethodCall
	FunctionCall      *FunctionCall
	ConstructorCall   *ConstructorCall
	VariableReference *VariableReference
	PropertyAccess    *PropertyAccess
	TypeReference     *TypeReference
	Assignment        *Assignment
}
