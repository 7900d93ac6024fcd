// Package registry holds the project-wide registries that union the
// per-file SemanticIndex results: DefinitionRegistry, ImportGraph,
// ExportRegistry. Everything here is a pure in-memory mirror — no I/O,
// no parsing — kept atomically up to date as files are added, changed,
// or removed.
package registry

import (
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/semantic"
)

// DefinitionRegistry is the project-wide union of every file's
// definitions, plus the derived indices Phase 1/2 resolution reads from.
type DefinitionRegistry struct {
	BySymbolID map[ids.SymbolId]*semantic.Definition
	ByFile     map[ids.FilePath][]*semantic.Definition

	// byScope holds, for each scope, the names directly defined in it
	// (not inherited from parents) in file order — used by Phase 1 to
	// build the parent<imports<locals shadowing chain.
	byScope map[ids.ScopeId][]*semantic.Definition

	// MemberIndex maps a class/interface SymbolId to its member name ->
	// SymbolId table (methods, properties, constructors).
	MemberIndex map[ids.SymbolId]map[ids.SymbolName]ids.SymbolId

	// FunctionCollections maps a variable/constant SymbolId to its
	// attached FunctionCollection, when present.
	FunctionCollections map[ids.SymbolId]*semantic.FunctionCollection

	// TypeSubtypes maps a class/interface SymbolId to the set of
	// SymbolIds that (transitively) extend/implement it. Populated by
	// RebuildTypeSubtypes once Phase 1 name resolution is available.
	TypeSubtypes map[ids.SymbolId]map[ids.SymbolId]bool

	scopesByFile map[ids.FilePath]*semantic.ScopeTree
	indexByFile  map[ids.FilePath]*semantic.SemanticIndex
}

// NewDefinitionRegistry creates an empty registry.
func NewDefinitionRegistry() *DefinitionRegistry {
	return &DefinitionRegistry{
		BySymbolID:          make(map[ids.SymbolId]*semantic.Definition),
		ByFile:              make(map[ids.FilePath][]*semantic.Definition),
		byScope:             make(map[ids.ScopeId][]*semantic.Definition),
		MemberIndex:         make(map[ids.SymbolId]map[ids.SymbolName]ids.SymbolId),
		FunctionCollections: make(map[ids.SymbolId]*semantic.FunctionCollection),
		TypeSubtypes:        make(map[ids.SymbolId]map[ids.SymbolId]bool),
		scopesByFile:        make(map[ids.FilePath]*semantic.ScopeTree),
		indexByFile:         make(map[ids.FilePath]*semantic.SemanticIndex),
	}
}

// UpdateFile replaces file F's contribution atomically: any previous
// contents for F are removed before the new index's contents are filed.
func (r *DefinitionRegistry) UpdateFile(file ids.FilePath, idx *semantic.SemanticIndex) {
	r.RemoveFile(file)

	r.indexByFile[file] = idx
	r.scopesByFile[file] = idx.Scopes

	all := idx.AllDefinitions()
	byID := make(map[ids.SymbolId]*semantic.Definition, len(all))
	for _, d := range all {
		byID[d.SymbolID] = d
	}

	ordered := make([]*semantic.Definition, 0, len(idx.DefinitionOrder))
	seen := make(map[ids.SymbolId]bool, len(idx.DefinitionOrder))
	for _, id := range idx.DefinitionOrder {
		if d, ok := byID[id]; ok && !seen[id] {
			ordered = append(ordered, d)
			seen[id] = true
		}
	}

	r.ByFile[file] = ordered
	for _, d := range ordered {
		r.BySymbolID[d.SymbolID] = d
		r.byScope[d.DefiningScopeID] = append(r.byScope[d.DefiningScopeID], d)
		if d.Variable != nil && d.Variable.FunctionCollection != nil {
			r.FunctionCollections[d.SymbolID] = d.Variable.FunctionCollection
		}
	}

	for _, d := range ordered {
		if d.Class != nil {
			r.fileMembers(d.SymbolID, d.Class.Methods, d.Class.Properties, d.Class.Constructors, idx)
		}
		if d.Interface != nil {
			r.fileMembers(d.SymbolID, d.Interface.Methods, d.Interface.Properties, nil, idx)
		}
	}
}

func (r *DefinitionRegistry) fileMembers(owner ids.SymbolId, methods, props, ctors []ids.SymbolId, idx *semantic.SemanticIndex) {
	table := r.MemberIndex[owner]
	if table == nil {
		table = make(map[ids.SymbolName]ids.SymbolId)
		r.MemberIndex[owner] = table
	}
	for _, group := range [][]ids.SymbolId{methods, props, ctors} {
		for _, id := range group {
			if d, ok := idx.Lookup(id); ok {
				table[d.Name] = id
			}
		}
	}
}

// RemoveFile drops file F's contribution. Idempotent: removing a file
// that was never added is a no-op.
func (r *DefinitionRegistry) RemoveFile(file ids.FilePath) {
	prev, ok := r.ByFile[file]
	if !ok {
		return
	}
	for _, d := range prev {
		delete(r.BySymbolID, d.SymbolID)
		delete(r.FunctionCollections, d.SymbolID)
		delete(r.MemberIndex, d.SymbolID)
		if bucket := r.byScope[d.DefiningScopeID]; len(bucket) > 0 {
			r.byScope[d.DefiningScopeID] = removeDef(bucket, d.SymbolID)
		}
	}
	delete(r.ByFile, file)
	delete(r.scopesByFile, file)
	delete(r.indexByFile, file)
	// TypeSubtypes is derived state recomputed wholesale by
	// RebuildTypeSubtypes after each Phase 1 run; no incremental
	// bookkeeping is needed here.
}

func removeDef(bucket []*semantic.Definition, id ids.SymbolId) []*semantic.Definition {
	out := bucket[:0]
	for _, d := range bucket {
		if d.SymbolID != id {
			out = append(out, d)
		}
	}
	return out
}

// ScopeLocals returns the definitions registered directly in scope (not
// inherited from a parent scope), in file order.
func (r *DefinitionRegistry) ScopeLocals(scope ids.ScopeId) []*semantic.Definition {
	return r.byScope[scope]
}

// ScopesByFile exposes the scope tree recorded for a file during
// UpdateFile, for callers (Phase 1) that walk from the root scope.
func (r *DefinitionRegistry) ScopesByFile(file ids.FilePath) (*semantic.ScopeTree, bool) {
	s, ok := r.scopesByFile[file]
	return s, ok
}

// IndexByFile returns the SemanticIndex last filed for a file.
func (r *DefinitionRegistry) IndexByFile(file ids.FilePath) (*semantic.SemanticIndex, bool) {
	idx, ok := r.indexByFile[file]
	return idx, ok
}

// Files returns every file currently contributing to the registry.
func (r *DefinitionRegistry) Files() []ids.FilePath {
	out := make([]ids.FilePath, 0, len(r.indexByFile))
	for f := range r.indexByFile {
		out = append(out, f)
	}
	return out
}

// RebuildTypeSubtypes recomputes type_subtypes by scanning every class's
// extends/implements and every interface's extends, resolving each base
// name through resolve (a scope,name -> SymbolId lookup, normally
// ResolutionRegistry.Resolve called after Phase 1). Must run after Phase
// 1 name resolution has populated scope resolutions for every file in
// the change set.
func (r *DefinitionRegistry) RebuildTypeSubtypes(resolve func(scope ids.ScopeId, name ids.SymbolName) (ids.SymbolId, bool)) {
	r.TypeSubtypes = make(map[ids.SymbolId]map[ids.SymbolId]bool)
	for _, d := range r.BySymbolID {
		var bases []string
		scope := d.DefiningScopeID
		if d.Class != nil {
			bases = append(bases, d.Class.Extends...)
			bases = append(bases, d.Class.Implements...)
		} else if d.Interface != nil {
			bases = append(bases, d.Interface.Extends...)
		} else {
			continue
		}
		for _, base := range bases {
			baseID, ok := resolve(scope, ids.SymbolName(base))
			if !ok {
				continue
			}
			set := r.TypeSubtypes[baseID]
			if set == nil {
				set = make(map[ids.SymbolId]bool)
				r.TypeSubtypes[baseID] = set
			}
			set[d.SymbolID] = true
		}
	}
	r.closeTypeSubtypesTransitively()
}

// closeTypeSubtypesTransitively expands direct extends/implements edges
// into the full transitive subtype set, so an interface implemented only
// by an abstract subclass still reaches its concrete grandchildren.
func (r *DefinitionRegistry) closeTypeSubtypesTransitively() {
	changed := true
	for changed {
		changed = false
		for base, subs := range r.TypeSubtypes {
			for sub := range subs {
				for grandsub := range r.TypeSubtypes[sub] {
					if !subs[grandsub] {
						subs[grandsub] = true
						changed = true
					}
				}
			}
			_ = base
		}
	}
}
