package resolve

import (
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/registry"
	"github.com/shivasurya/semindex/internal/semantic"
)

// ReachabilityReason discriminates why a function was marked indirectly
// reachable.
type ReachabilityReason string

const (
	ReasonCollectionRead  ReachabilityReason = "collection_read"
	ReasonFunctionReference ReachabilityReason = "function_reference"
)

// IndirectEntry records one indirect-reachability finding for a function.
type IndirectEntry struct {
	FunctionID   ids.SymbolId
	Reason       ReachabilityReason
	CollectionID ids.SymbolId  // populated for ReasonCollectionRead
	ReadLocation ids.Location
}

// indirectAnalyzer implements IndirectReachability: scanning every
// variable_reference read, resolving it to a symbol, and marking
// collection-stored or bare function values as reached without a direct
// call edge.
type indirectAnalyzer struct {
	defs  *registry.DefinitionRegistry
	names *nameResolver

	// byFile keys entries by the file whose read sites produced them, so
	// removing a file drops exactly its contribution (section on
	// lifecycles: "keyed by read-site file and removed when that file is
	// removed").
	byFile map[ids.FilePath][]*IndirectEntry
}

func newIndirectAnalyzer(defs *registry.DefinitionRegistry, names *nameResolver) *indirectAnalyzer {
	return &indirectAnalyzer{defs: defs, names: names, byFile: make(map[ids.FilePath][]*IndirectEntry)}
}

// analyzeFiles recomputes indirect reachability for files, replacing any
// previously recorded entries for each.
func (ia *indirectAnalyzer) analyzeFiles(files []ids.FilePath) {
	for f := range ia.byFile {
		if _, ok := ia.defs.IndexByFile(f); !ok {
			ia.removeFile(f)
		}
	}
	for _, file := range files {
		ia.removeFile(file)
		idx, ok := ia.defs.IndexByFile(file)
		if !ok {
			continue
		}
		for _, ref := range idx.References {
			if ref.Kind != semantic.RefVariableRef || ref.VariableReference == nil {
				continue
			}
			if ref.VariableReference.AccessType != semantic.AccessRead {
				continue
			}
			sid, ok := ia.names.resolve(ref.ScopeID, ref.Name)
			if !ok {
				continue
			}
			ia.markReachable(file, sid, ref.Location, make(map[ids.SymbolId]bool))
		}
	}
}

func (ia *indirectAnalyzer) removeFile(file ids.FilePath) {
	delete(ia.byFile, file)
}

func (ia *indirectAnalyzer) markReachable(readFile ids.FilePath, sid ids.SymbolId, readLoc ids.Location, visited map[ids.SymbolId]bool) {
	if visited[sid] {
		return
	}
	visited[sid] = true

	def, ok := ia.defs.BySymbolID[sid]
	if !ok {
		return
	}

	if def.Variable != nil && def.Variable.FunctionCollection != nil {
		fc := def.Variable.FunctionCollection
		for _, fnID := range fc.StoredFunctions {
			ia.add(readFile, &IndirectEntry{FunctionID: fnID, Reason: ReasonCollectionRead, CollectionID: sid, ReadLocation: readLoc})
		}
		for _, name := range fc.StoredReferences {
			if target, ok := ia.names.resolve(def.DefiningScopeID, name); ok {
				ia.markReachable(readFile, target, readLoc, visited)
			}
		}
		return
	}

	if def.Function != nil {
		if def.Location == readLoc {
			return // reading the function at its own definition site is not a use
		}
		ia.add(readFile, &IndirectEntry{FunctionID: sid, Reason: ReasonFunctionReference, ReadLocation: readLoc})
	}
}

func (ia *indirectAnalyzer) add(file ids.FilePath, e *IndirectEntry) {
	ia.byFile[file] = append(ia.byFile[file], e)
}

// all returns every recorded entry across every analyzed file.
func (ia *indirectAnalyzer) all() []*IndirectEntry {
	var out []*IndirectEntry
	for _, entries := range ia.byFile {
		out = append(out, entries...)
	}
	return out
}
