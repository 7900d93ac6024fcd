// Package query provides an expr-lang-based filter DSL over
// semantic.Definition, grounded on the teacher's predicate query
// engine: an Env struct of getter methods bound to one subject, compiled
// once and evaluated per candidate. Where the teacher's DSL selects
// graph nodes by AST entity type, this one selects Definitions by kind,
// name, export state, and decorators — e.g. `GetKind() == "function" &&
// IsExported() && GetName() startsWith "handle"`.
package query

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/shivasurya/semindex/internal/semantic"
)

// Env is the expr-lang evaluation environment for one Definition: each
// exported method is callable by name in a filter expression, the same
// way the teacher's DSL calls md.getVisibility() against its own Env.
type Env struct {
	def *semantic.Definition
}

func newEnv(def *semantic.Definition) *Env {
	return &Env{def: def}
}

// GetName returns the definition's identifier.
func (e *Env) GetName() string { return string(e.def.Name) }

// GetKind returns the definition's discriminant ("function", "class",
// "method", "constructor", "property", "variable", "constant",
// "import", "enum", "type_alias", "interface").
func (e *Env) GetKind() string { return string(e.def.Kind) }

// GetFile returns the file the definition was declared in.
func (e *Env) GetFile() string { return string(e.def.Location.FilePath) }

// GetDocstring returns the definition's raw preceding comment text.
func (e *Env) GetDocstring() string { return e.def.Docstring }

// IsExported reports whether the definition is exported, for kinds that
// track export state (function, class). Non-applicable kinds report
// false rather than erroring, so a mixed-kind result set can still be
// filtered by a single `IsExported()` expression.
func (e *Env) IsExported() bool {
	switch e.def.Kind {
	case semantic.DefFunction:
		return e.def.Function.IsExported
	case semantic.DefClass:
		return e.def.Class.IsExported
	default:
		return false
	}
}

// GetDecorators returns the definition's decorators, for kinds that
// carry them (function, class, method). Empty for every other kind.
func (e *Env) GetDecorators() []string {
	switch e.def.Kind {
	case semantic.DefFunction:
		return e.def.Function.Decorators
	case semantic.DefClass:
		return e.def.Class.Decorators
	case semantic.DefMethod:
		return e.def.Method.Decorators
	default:
		return nil
	}
}

// GetReturnType returns the declared return type, for function
// definitions that have a Signature. Empty otherwise, methods included.
func (e *Env) GetReturnType() string {
	switch e.def.Kind {
	case semantic.DefFunction:
		return e.def.Function.Signature.ReturnType
	default:
		return ""
	}
}

// GetParameterCount returns the number of formal parameters, for
// function/method/constructor kinds. Zero otherwise.
func (e *Env) GetParameterCount() int {
	switch e.def.Kind {
	case semantic.DefFunction:
		return len(e.def.Function.Signature.Parameters)
	case semantic.DefMethod:
		return len(e.def.Method.Parameters)
	case semantic.DefConstructor:
		return len(e.def.Constructor.Parameters)
	default:
		return 0
	}
}

// IsStatic reports whether a method definition is static. False for
// every other kind.
func (e *Env) IsStatic() bool {
	if e.def.Kind == semantic.DefMethod {
		return e.def.Method.Static
	}
	return false
}

// GetExtends returns base class/interface names, for class/interface
// definitions. Nil otherwise.
func (e *Env) GetExtends() []string {
	switch e.def.Kind {
	case semantic.DefClass:
		return e.def.Class.Extends
	case semantic.DefInterface:
		return e.def.Interface.Extends
	default:
		return nil
	}
}

// GetImplements returns interface names a class declares, for class
// definitions. Nil otherwise.
func (e *Env) GetImplements() []string {
	if e.def.Kind == semantic.DefClass {
		return e.def.Class.Implements
	}
	return nil
}

// Filter compiles expression once and evaluates it against each of
// defs, returning the subset for which it evaluates true. Compilation
// errors and non-bool results are reported once, since they indicate a
// malformed expression rather than a per-definition condition.
func Filter(defs []*semantic.Definition, expression string) ([]*semantic.Definition, error) {
	if expression == "" {
		return defs, nil
	}

	program, err := compile(expression)
	if err != nil {
		return nil, err
	}

	var matched []*semantic.Definition
	for _, def := range defs {
		ok, err := run(program, def)
		if err != nil {
			return nil, fmt.Errorf("query: evaluating %s (%s): %w", def.Name, def.SymbolID, err)
		}
		if ok {
			matched = append(matched, def)
		}
	}
	return matched, nil
}

// Matches reports whether a single definition satisfies a previously
// validated expression, for callers filtering one definition at a time
// rather than a bulk list.
func Matches(def *semantic.Definition, expression string) (bool, error) {
	if expression == "" {
		return true, nil
	}
	program, err := compile(expression)
	if err != nil {
		return false, err
	}
	return run(program, def)
}

func compile(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression, expr.Env(&Env{}))
	if err != nil {
		return nil, fmt.Errorf("query: compiling %q: %w", expression, err)
	}
	return program, nil
}

func run(program *vm.Program, def *semantic.Definition) (bool, error) {
	output, err := expr.Run(program, newEnv(def))
	if err != nil {
		return false, err
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("query: expression must evaluate to bool, got %T", output)
	}
	return result, nil
}
