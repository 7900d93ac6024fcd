// Package resolve implements the two resolution phases: Phase 1 lexical
// name resolution (names.go), the TypeRegistry built between phases
// (types.go), Phase 2 call resolution (calls.go), and indirect
// reachability (indirect.go). registry.go assembles all of it behind the
// single ResolutionRegistry facade external callers use.
package resolve

import (
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/registry"
	"github.com/shivasurya/semindex/internal/semantic"
)

// nameResolver holds Phase 1's output: for every scope, the lexically
// visible name -> SymbolId table after parent<imports<locals shadowing.
type nameResolver struct {
	defs    *registry.DefinitionRegistry
	exports *registry.ExportRegistry
	imports *registry.ImportGraph

	resolutions map[ids.ScopeId]map[ids.SymbolName]ids.SymbolId
}

func newNameResolver(defs *registry.DefinitionRegistry, exports *registry.ExportRegistry, imports *registry.ImportGraph) *nameResolver {
	return &nameResolver{
		defs:        defs,
		exports:     exports,
		imports:     imports,
		resolutions: make(map[ids.ScopeId]map[ids.SymbolName]ids.SymbolId),
	}
}

// resolveNames runs Phase 1 over every file in files: for each, locate
// the root scope and recurse resolve_scope_recursive with an empty
// parent resolution set. Running this twice without intervening file
// changes is idempotent — it always recomputes scopeResolutions from
// the current DefinitionRegistry contents, never accumulates.
func (nr *nameResolver) resolveNames(files []ids.FilePath) {
	for _, f := range files {
		tree, ok := nr.defs.ScopesByFile(f)
		if !ok {
			continue
		}
		root := tree.Root()
		if root == nil {
			continue
		}
		nr.recurse(tree, root, nil)
	}
}

func (nr *nameResolver) recurse(tree *semantic.ScopeTree, scope *semantic.Scope, parent map[ids.SymbolName]ids.SymbolId) {
	resolutions := make(map[ids.SymbolName]ids.SymbolId, len(parent))
	for k, v := range parent {
		resolutions[k] = v
	}

	locals := nr.defs.ScopeLocals(scope.ID)

	// Imports first: they shadow the parent scope but are shadowed by
	// locals of the same name in this scope.
	for _, d := range locals {
		if d.Kind != semantic.DefImport {
			continue
		}
		if target, ok := nr.resolveImportTarget(d); ok {
			resolutions[d.Name] = target
		}
	}

	// Locals overwrite imports and parent. Ambiguity between two locals
	// sharing a name in one scope resolves to the last one registered —
	// ScopeLocals preserves file order, so a plain overwrite in order
	// gives "last wins" for free.
	for _, d := range locals {
		if d.Kind == semantic.DefImport {
			continue
		}
		resolutions[d.Name] = d.SymbolID
	}

	nr.resolutions[scope.ID] = resolutions

	for _, childID := range scope.ChildIDs {
		if child := tree.Get(childID); child != nil {
			nr.recurse(tree, child, resolutions)
		}
	}
}

// resolveImportTarget computes the SymbolId an import Definition binds
// to: a namespace import resolves to its own symbol (acting as a
// namespace handle); named/default imports follow the export chain of
// the resolved source file.
func (nr *nameResolver) resolveImportTarget(d *semantic.Definition) (ids.SymbolId, bool) {
	if d.Import == nil {
		return "", false
	}
	if d.Import.ImportKind == semantic.ImportNamespace {
		return d.SymbolID, true
	}
	file, ok := nr.imports.Resolve(d.Location.FilePath, d)
	if !ok {
		return "", false
	}
	name := d.Import.OriginalName
	if name == "" {
		name = d.Name
	}
	return nr.exports.ResolveExportChain(file, name, "")
}

// resolve looks up the lexically visible SymbolId for name starting from
// scope, per Phase 1's precomputed table.
func (nr *nameResolver) resolve(scope ids.ScopeId, name ids.SymbolName) (ids.SymbolId, bool) {
	table, ok := nr.resolutions[scope]
	if !ok {
		return "", false
	}
	id, ok := table[name]
	return id, ok
}

// scopeResolutionsSnapshot returns the full scope -> (name -> symbol)
// table, used by the idempotence test (property 5) to compare two runs.
func (nr *nameResolver) scopeResolutionsSnapshot() map[ids.ScopeId]map[ids.SymbolName]ids.SymbolId {
	out := make(map[ids.ScopeId]map[ids.SymbolName]ids.SymbolId, len(nr.resolutions))
	for scope, table := range nr.resolutions {
		copyTable := make(map[ids.SymbolName]ids.SymbolId, len(table))
		for k, v := range table {
			copyTable[k] = v
		}
		out[scope] = copyTable
	}
	return out
}
