package registry

import (
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/semantic"
)

const maxExportChainDepth = 64

// ExportRegistry resolves a name exported from a file, following
// re-export hops (an import binding re-used as the file's own export)
// up to a bounded depth so cycles terminate instead of looping forever.
type ExportRegistry struct {
	defs    *DefinitionRegistry
	imports *ImportGraph
}

// NewExportRegistry builds an ExportRegistry over defs, following
// re-export hops through imports.
func NewExportRegistry(defs *DefinitionRegistry, imports *ImportGraph) *ExportRegistry {
	return &ExportRegistry{defs: defs, imports: imports}
}

// ResolveExportChain resolves name as exported from file, of the given
// definition kind, walking through re-export hops. Returns the
// SymbolId of the definition it ultimately names, or false if the
// chain is unresolved (missing file, missing name, depth overflow).
func (e *ExportRegistry) ResolveExportChain(file ids.FilePath, name ids.SymbolName, kind semantic.DefinitionKind) (ids.SymbolId, bool) {
	return e.walk(file, name, kind, 0)
}

func (e *ExportRegistry) walk(file ids.FilePath, name ids.SymbolName, kind semantic.DefinitionKind, depth int) (ids.SymbolId, bool) {
	if depth > maxExportChainDepth {
		return "", false
	}
	idx, ok := e.defs.IndexByFile(file)
	if !ok {
		return "", false
	}

	if d, ok := e.findExportedLocal(idx, name, kind); ok {
		return d.SymbolID, true
	}

	// Re-export hop: the file imports `name` under a binding of the
	// same local name and re-uses it as part of its own export surface.
	for _, d := range idx.ImportedSymbols {
		if d.Name != name {
			continue
		}
		target, ok := e.imports.Resolve(file, d)
		if !ok {
			continue
		}
		nextName := d.Import.OriginalName
		if nextName == "" {
			nextName = d.Name
		}
		if sid, ok := e.walk(target, nextName, kind, depth+1); ok {
			return sid, true
		}
	}

	return "", false
}

// findExportedLocal looks for a top-level definition named `name` whose
// kind is compatible with the requested kind, preferring definitions
// explicitly marked exported.
func (e *ExportRegistry) findExportedLocal(idx *semantic.SemanticIndex, name ids.SymbolName, kind semantic.DefinitionKind) (*semantic.Definition, bool) {
	var fallback *semantic.Definition
	for _, d := range idx.AllTopLevelDefinitions() {
		if d.Name != name {
			continue
		}
		if kind != "" && d.Kind != kind {
			continue
		}
		if isExportedDefinition(d) {
			return d, true
		}
		fallback = d
	}
	if fallback != nil {
		return fallback, true
	}
	return nil, false
}

func isExportedDefinition(d *semantic.Definition) bool {
	switch {
	case d.Function != nil:
		return d.Function.IsExported
	case d.Class != nil:
		return d.Class.IsExported
	default:
		// Interfaces, enums, type aliases, and top-level variables carry
		// no explicit export flag in this core; treat module-level
		// visibility (not nested in a function/class scope) as exported.
		return true
	}
}
