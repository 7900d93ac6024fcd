package resolve

import (
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/registry"
)

// ResolutionRegistry is the single external facade over Phase 1 lexical
// resolution, the TypeRegistry, Phase 2 call resolution, and indirect
// reachability. Callers drive it by calling ResolveNames, UpdateTypes,
// then ResolveCallsForFiles, in that order, for every changed-file batch —
// violating the order yields incomplete resolutions, never an error.
type ResolutionRegistry struct {
	defs    *registry.DefinitionRegistry
	imports *registry.ImportGraph
	exports *registry.ExportRegistry

	names     *nameResolver
	types     *TypeRegistry
	calls     *callResolver
	indirect  *indirectAnalyzer
}

// NewResolutionRegistry assembles a ResolutionRegistry over defs, using
// resolver to resolve import specifiers to files.
func NewResolutionRegistry(defs *registry.DefinitionRegistry, resolver registry.ImportResolver) *ResolutionRegistry {
	imports := registry.NewImportGraph(resolver)
	exports := registry.NewExportRegistry(defs, imports)
	names := newNameResolver(defs, exports, imports)
	types := newTypeRegistry(defs, names)
	calls := newCallResolver(defs, names, types, imports, exports)
	indirect := newIndirectAnalyzer(defs, names)

	return &ResolutionRegistry{
		defs: defs, imports: imports, exports: exports,
		names: names, types: types, calls: calls, indirect: indirect,
	}
}

// ResolveNames runs Phase 1 over files: lexical name resolution with
// parent < imports < locals shadowing, then rebuilds TypeSubtypes (which
// depends on Phase 1 being able to resolve base-class/interface names).
func (rr *ResolutionRegistry) ResolveNames(files []ids.FilePath) {
	rr.names.resolveNames(files)
	rr.defs.RebuildTypeSubtypes(rr.names.resolve)
}

// UpdateTypes runs the TypeRegistry step that must sit strictly between
// Phase 1 and Phase 2: per-file type inference, then a full rebuild of
// inherited member tables (inheritance can span files outside the
// current change set, so the member-table rebuild is always global).
func (rr *ResolutionRegistry) UpdateTypes(files []ids.FilePath) {
	for _, f := range files {
		rr.types.UpdateFile(f)
	}
	rr.types.RebuildResolvedTypeMembers()
}

// ResolveCallsForFiles runs Phase 2 over files: function/constructor/
// method call resolution plus callback-invocation synthesis, followed by
// indirect-reachability analysis over the same file set.
func (rr *ResolutionRegistry) ResolveCallsForFiles(files []ids.FilePath) {
	rr.calls.resolveCallsForFiles(files)
	rr.indirect.analyzeFiles(files)
}

// Resolve looks up the lexically visible SymbolId for name in scope.
func (rr *ResolutionRegistry) Resolve(scope ids.ScopeId, name ids.SymbolName) (ids.SymbolId, bool) {
	return rr.names.resolve(scope, name)
}

// GetCallsByCallerScope returns every resolved call whose caller_scope_id
// is scope.
func (rr *ResolutionRegistry) GetCallsByCallerScope(scope ids.ScopeId) []*CallReference {
	return rr.calls.byCallerScope[scope]
}

// GetAllReferencedSymbols returns the set of every SymbolId that appears
// as a resolution candidate across every resolved call.
func (rr *ResolutionRegistry) GetAllReferencedSymbols() map[ids.SymbolId]bool {
	out := make(map[ids.SymbolId]bool)
	for _, call := range rr.calls.results {
		for _, res := range call.Resolutions {
			out[res.SymbolID] = true
		}
	}
	return out
}

// GetAllCalls returns every call Phase 2 has resolved (or attempted to
// resolve) across every processed file, including those with zero
// Resolutions — callers that want to report unresolved references (e.g.
// a SARIF diagnostics export) filter this list themselves rather than
// scope-by-scope via GetCallsByCallerScope.
func (rr *ResolutionRegistry) GetAllCalls() []*CallReference {
	return rr.calls.results
}

// GetIndirectReachability returns every function reached by
// collection-read or value-passing rather than a direct call edge.
func (rr *ResolutionRegistry) GetIndirectReachability() []*IndirectEntry {
	return rr.indirect.all()
}

// Types exposes the TypeRegistry for callers (e.g. reporting) that need
// symbol_types / resolved_type_members directly.
func (rr *ResolutionRegistry) Types() *TypeRegistry {
	return rr.types
}
