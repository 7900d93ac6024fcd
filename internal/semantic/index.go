package semantic

import "github.com/shivasurya/semindex/internal/ids"

// SemanticIndex is the per-file aggregation of scopes, definitions, and
// references produced by lowering one file's capture stream. Top-level
// containers are keyed by SymbolId; method/constructor/property
// definitions are never top-level here — they live under their owning
// class's ClassDef.Methods/Properties/Constructors.
type SemanticIndex struct {
	FilePath ids.FilePath
	Language string

	Functions       map[ids.SymbolId]*Definition
	Classes         map[ids.SymbolId]*Definition
	Interfaces      map[ids.SymbolId]*Definition
	Variables       map[ids.SymbolId]*Definition
	Enums           map[ids.SymbolId]*Definition
	Types           map[ids.SymbolId]*Definition
	ImportedSymbols map[ids.SymbolId]*Definition

	// Members holds the method/property/constructor Definitions owned by
	// classes and interfaces in this file, keyed by their own SymbolId, so
	// callers can resolve a SymbolId found in a ClassDef.Methods list
	// without re-walking the class.
	Members map[ids.SymbolId]*Definition

	Scopes     *ScopeTree
	References []*Reference // ordered in source order

	// DefinitionOrder records SymbolIds in the order AddDefinition saw
	// them, so later stages can break same-scope same-name ties using
	// file order ("last one registered wins") instead of map iteration
	// order, which Go does not guarantee.
	DefinitionOrder []ids.SymbolId
}

// NewSemanticIndex creates an empty index for a file.
func NewSemanticIndex(file ids.FilePath, language string) *SemanticIndex {
	return &SemanticIndex{
		FilePath:        file,
		Language:        language,
		Functions:       make(map[ids.SymbolId]*Definition),
		Classes:         make(map[ids.SymbolId]*Definition),
		Interfaces:      make(map[ids.SymbolId]*Definition),
		Variables:       make(map[ids.SymbolId]*Definition),
		Enums:           make(map[ids.SymbolId]*Definition),
		Types:           make(map[ids.SymbolId]*Definition),
		ImportedSymbols: make(map[ids.SymbolId]*Definition),
		Members:         make(map[ids.SymbolId]*Definition),
		Scopes:          NewScopeTree(),
	}
}

// AddDefinition files a definition into the correct top-level container
// (or Members, for method/constructor/property kinds).
func (idx *SemanticIndex) AddDefinition(d *Definition) {
	idx.DefinitionOrder = append(idx.DefinitionOrder, d.SymbolID)
	switch d.Kind {
	case DefFunction:
		idx.Functions[d.SymbolID] = d
	case DefClass:
		idx.Classes[d.SymbolID] = d
	case DefInterface:
		idx.Interfaces[d.SymbolID] = d
	case DefVariable, DefConstant:
		idx.Variables[d.SymbolID] = d
	case DefEnum:
		idx.Enums[d.SymbolID] = d
	case DefTypeAlias:
		idx.Types[d.SymbolID] = d
	case DefImport:
		idx.ImportedSymbols[d.SymbolID] = d
	case DefMethod, DefConstructor, DefProperty:
		idx.Members[d.SymbolID] = d
	}
}

// AddReference appends a reference, preserving source order.
func (idx *SemanticIndex) AddReference(r *Reference) {
	idx.References = append(idx.References, r)
}

// AllTopLevelDefinitions returns every definition this index files as
// "top level" (i.e. not members) — the set visible for lexical/name
// resolution within this file.
func (idx *SemanticIndex) AllTopLevelDefinitions() []*Definition {
	out := make([]*Definition, 0, len(idx.Functions)+len(idx.Classes)+len(idx.Interfaces)+len(idx.Variables)+len(idx.Enums)+len(idx.Types)+len(idx.ImportedSymbols))
	for _, m := range []map[ids.SymbolId]*Definition{idx.Functions, idx.Classes, idx.Interfaces, idx.Variables, idx.Enums, idx.Types, idx.ImportedSymbols} {
		for _, d := range m {
			out = append(out, d)
		}
	}
	return out
}

// Lookup finds a definition by SymbolId across every container, including
// Members.
func (idx *SemanticIndex) Lookup(id ids.SymbolId) (*Definition, bool) {
	for _, m := range []map[ids.SymbolId]*Definition{idx.Functions, idx.Classes, idx.Interfaces, idx.Variables, idx.Enums, idx.Types, idx.ImportedSymbols, idx.Members} {
		if d, ok := m[id]; ok {
			return d, true
		}
	}
	return nil, false
}

// AllDefinitions returns every definition the index holds, including members.
func (idx *SemanticIndex) AllDefinitions() []*Definition {
	out := idx.AllTopLevelDefinitions()
	for _, d := range idx.Members {
		out = append(out, d)
	}
	return out
}
