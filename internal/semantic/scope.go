// Package semantic holds the per-file data model: scopes, definitions,
// references, and their aggregation into a SemanticIndex. It has no
// project-level knowledge — every type here is meaningful within the
// boundary of a single file.
package semantic

import "github.com/shivasurya/semindex/internal/ids"

// ScopeType classifies the lexical region a Scope covers.
type ScopeType string

const (
	ScopeModule      ScopeType = "module"
	ScopeClass       ScopeType = "class"
	ScopeFunction    ScopeType = "function"
	ScopeMethod      ScopeType = "method"
	ScopeConstructor ScopeType = "constructor"
	ScopeBlock       ScopeType = "block"
)

// Scope is a lexical region with parent/child links, forming a strictly
// nested tree per file. Every file has exactly one root Scope of type
// ScopeModule with a nil ParentID.
type Scope struct {
	ID       ids.ScopeId
	Type     ScopeType
	ParentID *ids.ScopeId
	ChildIDs []ids.ScopeId
	Location ids.Location
}

// ScopeTree is the per-file collection of scopes, keyed by ScopeId, plus
// the root scope's id for convenient traversal.
type ScopeTree struct {
	RootID ids.ScopeId
	Scopes map[ids.ScopeId]*Scope
}

// NewScopeTree creates an empty scope tree.
func NewScopeTree() *ScopeTree {
	return &ScopeTree{Scopes: make(map[ids.ScopeId]*Scope)}
}

// Add registers a scope and links it under its parent, if any.
func (t *ScopeTree) Add(s *Scope) {
	t.Scopes[s.ID] = s
	if s.ParentID == nil {
		t.RootID = s.ID
		return
	}
	if parent, ok := t.Scopes[*s.ParentID]; ok {
		parent.ChildIDs = append(parent.ChildIDs, s.ID)
	}
}

// Get returns the scope for id, or nil if absent.
func (t *ScopeTree) Get(id ids.ScopeId) *Scope {
	return t.Scopes[id]
}

// Root returns the module-level root scope.
func (t *ScopeTree) Root() *Scope {
	return t.Scopes[t.RootID]
}

// StrictlyNested verifies invariant (iv) of section 3: for any two scopes
// in the tree, their ranges are disjoint or one contains the other. Used
// by tests.
func (t *ScopeTree) StrictlyNested() bool {
	all := make([]*Scope, 0, len(t.Scopes))
	for _, s := range t.Scopes {
		all = append(all, s)
	}
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			a, b := all[i].Location, all[j].Location
			if a.Disjoint(b) {
				continue
			}
			if a.Contains(b) || b.Contains(a) {
				continue
			}
			return false
		}
	}
	return true
}
