package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivasurya/semindex/internal/ids"
)

// TestScopeTreeStrictNesting covers quantified invariant 3: a file's scope
// tree is strictly nested and has exactly one root of type module with a
// nil parent.
func TestScopeTreeStrictNesting(t *testing.T) {
	file := ids.FilePath("nest.js")
	tree := NewScopeTree()

	root := &Scope{ID: "module", Type: ScopeModule, Location: ids.Location{FilePath: file, StartLine: 1, StartColumn: 1, EndLine: 20, EndColumn: 1}}
	tree.Add(root)

	fnID := ids.ScopeId("fn")
	fn := &Scope{ID: fnID, Type: ScopeFunction, ParentID: &root.ID, Location: ids.Location{FilePath: file, StartLine: 2, StartColumn: 1, EndLine: 10, EndColumn: 1}}
	tree.Add(fn)

	blk := &Scope{ID: "block", Type: ScopeBlock, ParentID: &fnID, Location: ids.Location{FilePath: file, StartLine: 3, StartColumn: 1, EndLine: 8, EndColumn: 1}}
	tree.Add(blk)

	require.True(t, tree.StrictlyNested())
	assert.Equal(t, ids.ScopeId("module"), tree.RootID)
	assert.Nil(t, tree.Root().ParentID)
	assert.Equal(t, ScopeModule, tree.Root().Type)
	assert.ElementsMatch(t, []ids.ScopeId{fnID}, tree.Root().ChildIDs)
	assert.ElementsMatch(t, []ids.ScopeId{"block"}, fn.ChildIDs)
}

// TestScopeTreeOverlappingSiblingsViolateNesting ensures StrictlyNested
// actually detects a malformed tree rather than vacuously passing.
func TestScopeTreeOverlappingSiblingsViolateNesting(t *testing.T) {
	file := ids.FilePath("overlap.js")
	tree := NewScopeTree()

	root := &Scope{ID: "module", Type: ScopeModule, Location: ids.Location{FilePath: file, StartLine: 1, StartColumn: 1, EndLine: 20, EndColumn: 1}}
	tree.Add(root)

	a := &Scope{ID: "a", Type: ScopeFunction, ParentID: &root.ID, Location: ids.Location{FilePath: file, StartLine: 2, StartColumn: 1, EndLine: 6, EndColumn: 1}}
	b := &Scope{ID: "b", Type: ScopeFunction, ParentID: &root.ID, Location: ids.Location{FilePath: file, StartLine: 4, StartColumn: 1, EndLine: 8, EndColumn: 1}}
	tree.Add(a)
	tree.Add(b)

	assert.False(t, tree.StrictlyNested())
}
