package query

import (
	"testing"

	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/semantic"
)

func exportedFunc(name string) *semantic.Definition {
	return &semantic.Definition{
		Kind: semantic.DefFunction,
		Name: ids.SymbolName(name),
		Function: &semantic.FunctionDef{
			IsExported: true,
			Signature:  semantic.Signature{ReturnType: "void", Parameters: []semantic.Parameter{{Name: "a"}}},
		},
	}
}

func unexportedClass(name string) *semantic.Definition {
	return &semantic.Definition{
		Kind:  semantic.DefClass,
		Name:  ids.SymbolName(name),
		Class: &semantic.ClassDef{Implements: []string{"Serializable"}},
	}
}

func TestFilterByKindAndExport(t *testing.T) {
	defs := []*semantic.Definition{exportedFunc("handleRequest"), unexportedClass("Widget")}

	matched, err := Filter(defs, `GetKind() == "function" && IsExported()`)
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 1 || matched[0].Name != "handleRequest" {
		t.Fatalf("expected handleRequest only, got %v", matched)
	}
}

func TestFilterByNamePrefix(t *testing.T) {
	defs := []*semantic.Definition{exportedFunc("handleRequest"), exportedFunc("listUsers")}

	matched, err := Filter(defs, `GetName() startsWith "handle"`)
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 1 || matched[0].Name != "handleRequest" {
		t.Fatalf("expected handleRequest only, got %v", matched)
	}
}

func TestFilterEmptyExpressionReturnsAll(t *testing.T) {
	defs := []*semantic.Definition{exportedFunc("a"), exportedFunc("b")}
	matched, err := Filter(defs, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 2 {
		t.Fatalf("expected all defs returned, got %d", len(matched))
	}
}

func TestFilterInvalidExpression(t *testing.T) {
	defs := []*semantic.Definition{exportedFunc("a")}
	if _, err := Filter(defs, "this is not valid expr syntax &&&"); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestFilterNonBoolExpression(t *testing.T) {
	defs := []*semantic.Definition{exportedFunc("a")}
	if _, err := Filter(defs, `GetName()`); err == nil {
		t.Fatal("expected error for non-bool result")
	}
}

func TestMatchesSingleDefinition(t *testing.T) {
	def := unexportedClass("Widget")
	ok, err := Matches(def, `"Serializable" in GetImplements()`)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected Widget to implement Serializable")
	}
}

func TestFilterByFile(t *testing.T) {
	def := exportedFunc("handleRequest")
	def.Location = ids.Location{FilePath: "handlers/request.go"}
	defs := []*semantic.Definition{def, exportedFunc("listUsers")}

	matched, err := Filter(defs, `GetFile() == "handlers/request.go"`)
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 1 || matched[0].Name != "handleRequest" {
		t.Fatalf("expected handleRequest only, got %v", matched)
	}
}

func TestFilterParameterCount(t *testing.T) {
	defs := []*semantic.Definition{exportedFunc("handleRequest")}
	matched, err := Filter(defs, `GetParameterCount() == 1`)
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 1 {
		t.Fatalf("expected match on parameter count, got %v", matched)
	}
}
