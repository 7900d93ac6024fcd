package registry

import (
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/semantic"
)

// ImportResolver is the external collaborator spec.md section 6 declares
// out of scope: resolve_import_path(importer_file, specifier) -> FilePath?.
type ImportResolver interface {
	ResolveImportPath(importer ids.FilePath, specifier string) (ids.FilePath, bool)
}

// ImportGraph caches SymbolId(import) -> FilePath? by consulting the
// external module resolver at most once per import definition.
type ImportGraph struct {
	resolver ImportResolver
	cache    map[ids.SymbolId]ids.FilePath
	miss     map[ids.SymbolId]bool
}

// NewImportGraph builds an ImportGraph backed by resolver.
func NewImportGraph(resolver ImportResolver) *ImportGraph {
	return &ImportGraph{
		resolver: resolver,
		cache:    make(map[ids.SymbolId]ids.FilePath),
		miss:     make(map[ids.SymbolId]bool),
	}
}

// Resolve returns the file an import Definition points at, consulting
// the cache before calling the external resolver.
func (g *ImportGraph) Resolve(importer ids.FilePath, def *semantic.Definition) (ids.FilePath, bool) {
	if def.Import == nil {
		return "", false
	}
	if f, ok := g.cache[def.SymbolID]; ok {
		return f, true
	}
	if g.miss[def.SymbolID] {
		return "", false
	}
	f, ok := g.resolver.ResolveImportPath(importer, def.Import.SourcePath)
	if !ok {
		g.miss[def.SymbolID] = true
		return "", false
	}
	g.cache[def.SymbolID] = f
	return f, true
}

// Invalidate forgets a cached resolution, e.g. when the importer file is
// reindexed with a changed import statement at the same SymbolId.
func (g *ImportGraph) Invalidate(symbolID ids.SymbolId) {
	delete(g.cache, symbolID)
	delete(g.miss, symbolID)
}
