package scopebuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivasurya/semindex/internal/capture"
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/semantic"
)

func parse(t *testing.T, lang capture.Language, file ids.FilePath, src string) *capture.Tree {
	t.Helper()
	e, err := capture.NewEngine()
	require.NoError(t, err)
	tree, err := e.Parse(lang, file, []byte(src))
	require.NoError(t, err)
	return tree
}

// TestBuildJavaScriptNestedScopes covers invariant 3 (strict nesting) over
// a real parsed tree: a class containing a method containing a nested
// block (if-statement) and an arrow function.
func TestBuildJavaScriptNestedScopes(t *testing.T) {
	src := `class Widget {
  render() {
    if (this.visible) {
      const f = () => 1;
    }
  }
}
`
	tree := parse(t, capture.JavaScript, "widget.js", src)
	st := Build(tree)

	require.True(t, st.StrictlyNested())
	root := st.Root()
	require.Equal(t, semantic.ScopeModule, root.Type)
	require.Nil(t, root.ParentID)

	var classScope, methodScope, blockScope, arrowScope *semantic.Scope
	for _, id := range allScopeIDs(st) {
		s := st.Get(id)
		switch s.Type {
		case semantic.ScopeClass:
			classScope = s
		case semantic.ScopeMethod:
			methodScope = s
		case semantic.ScopeBlock:
			blockScope = s
		case semantic.ScopeFunction:
			arrowScope = s
		}
	}

	require.NotNil(t, classScope)
	require.NotNil(t, methodScope)
	require.NotNil(t, blockScope)
	require.NotNil(t, arrowScope)

	assert.Equal(t, root.ID, *classScope.ParentID)
	assert.Equal(t, classScope.ID, *methodScope.ParentID)
	assert.Equal(t, methodScope.ID, *blockScope.ParentID)
	assert.Equal(t, blockScope.ID, *arrowScope.ParentID)
}

// TestBuildPythonClassAndFunction covers the Python rule set: a class
// definition scope containing a function_definition (method) scope.
func TestBuildPythonClassAndFunction(t *testing.T) {
	src := "class Greeter:\n    def greet(self):\n        return 1\n"
	tree := parse(t, capture.Python, "greeter.py", src)
	st := Build(tree)

	require.True(t, st.StrictlyNested())

	var classScope, fnScope *semantic.Scope
	for _, id := range allScopeIDs(st) {
		s := st.Get(id)
		switch s.Type {
		case semantic.ScopeClass:
			classScope = s
		case semantic.ScopeFunction:
			fnScope = s
		}
	}
	require.NotNil(t, classScope)
	require.NotNil(t, fnScope)
	assert.Equal(t, classScope.ID, *fnScope.ParentID)
}

// TestBuildRustImplAndFunction covers the Rust rule set: an impl_item
// scope (mapped to ScopeClass) containing a function_item.
func TestBuildRustImplAndFunction(t *testing.T) {
	src := "struct Counter;\nimpl Counter {\n    fn increment(&mut self) -> i32 {\n        1\n    }\n}\n"
	tree := parse(t, capture.Rust, "counter.rs", src)
	st := Build(tree)

	require.True(t, st.StrictlyNested())

	var implScope, fnScope *semantic.Scope
	for _, id := range allScopeIDs(st) {
		s := st.Get(id)
		switch s.Type {
		case semantic.ScopeClass:
			implScope = s
		case semantic.ScopeFunction:
			fnScope = s
		}
	}
	require.NotNil(t, implScope)
	require.NotNil(t, fnScope)
	assert.Equal(t, implScope.ID, *fnScope.ParentID)
}

// TestBuildNilTreeFallsBackToDegenerateModuleScope covers the documented
// failure contract: a tree with no root (the capture package's recovery
// signal for unparseable input) yields a single module scope rather than
// an error.
func TestBuildNilTreeFallsBackToDegenerateModuleScope(t *testing.T) {
	tree := &capture.Tree{Language: capture.JavaScript, FilePath: "broken.js", Root: nil}
	st := Build(tree)

	require.True(t, st.StrictlyNested())
	assert.Equal(t, semantic.ScopeModule, st.Root().Type)
	assert.Empty(t, st.Root().ChildIDs)
}

func allScopeIDs(st *semantic.ScopeTree) []ids.ScopeId {
	var out []ids.ScopeId
	var walk func(id ids.ScopeId)
	walk = func(id ids.ScopeId) {
		out = append(out, id)
		for _, c := range st.Get(id).ChildIDs {
			walk(c)
		}
	}
	walk(st.RootID)
	return out
}
