package resolve

import (
	"strings"

	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/registry"
	"github.com/shivasurya/semindex/internal/semantic"
)

// TypeRegistry holds the symbol -> declared/inferred type table and the
// per-class/interface member tables (with inheritance merged) that
// Phase 2 needs to resolve method calls. It must be fully populated for
// every file in the change set before Phase 2 runs.
type TypeRegistry struct {
	defs  *registry.DefinitionRegistry
	names *nameResolver

	// SymbolTypes maps a variable/constant's SymbolId to the SymbolId of
	// its inferred class/interface/type_alias.
	SymbolTypes map[ids.SymbolId]ids.SymbolId

	// ResolvedTypeMembers maps a class/interface SymbolId to its member
	// name -> SymbolId table, with inherited members from the extends
	// chain merged (base first, override wins).
	ResolvedTypeMembers map[ids.SymbolId]map[ids.SymbolName]ids.SymbolId
}

func newTypeRegistry(defs *registry.DefinitionRegistry, names *nameResolver) *TypeRegistry {
	return &TypeRegistry{
		defs:                defs,
		names:               names,
		SymbolTypes:         make(map[ids.SymbolId]ids.SymbolId),
		ResolvedTypeMembers: make(map[ids.SymbolId]map[ids.SymbolName]ids.SymbolId),
	}
}

// UpdateFile infers SymbolTypes entries for every variable/constant
// definition in file, from (in priority order) a type annotation, a
// constructor-call initializer, and a JSDoc @type annotation.
func (tr *TypeRegistry) UpdateFile(file ids.FilePath) {
	idx, ok := tr.defs.IndexByFile(file)
	if !ok {
		return
	}
	for _, d := range idx.Variables {
		if d.Variable == nil {
			continue
		}
		if sid, ok := tr.inferType(d); ok {
			tr.SymbolTypes[d.SymbolID] = sid
		} else {
			delete(tr.SymbolTypes, d.SymbolID)
		}
	}
}

func (tr *TypeRegistry) inferType(d *semantic.Definition) (ids.SymbolId, bool) {
	scope := d.DefiningScopeID

	if ann := d.Variable.TypeAnnotation; ann != "" {
		if sid, ok := tr.resolveTypeName(scope, baseTypeName(ann)); ok {
			return sid, true
		}
	}

	if ctor, ok := constructorCallName(d.Variable.InitialValue); ok {
		if sid, ok := tr.resolveTypeName(scope, ctor); ok {
			return sid, true
		}
	}

	if t, ok := jsDocType(d.Docstring); ok {
		if sid, ok := tr.resolveTypeName(scope, t); ok {
			return sid, true
		}
	}

	return "", false
}

func (tr *TypeRegistry) resolveTypeName(scope ids.ScopeId, name string) (ids.SymbolId, bool) {
	sid, ok := tr.names.resolve(scope, ids.SymbolName(name))
	if !ok || !tr.isTypeLike(sid) {
		return "", false
	}
	return sid, true
}

func (tr *TypeRegistry) isTypeLike(sid ids.SymbolId) bool {
	d, ok := tr.defs.BySymbolID[sid]
	if !ok {
		return false
	}
	return d.Class != nil || d.Interface != nil || d.TypeAlias != nil
}

// baseTypeName strips generic arguments, array brackets, and union
// members from a textual type annotation, keeping only the first named
// type ("Array<Foo>" -> "Array", "Foo | null" -> "Foo", "Foo[]" -> "Foo").
func baseTypeName(annotation string) string {
	s := strings.TrimSpace(annotation)
	for _, sep := range []string{"<", "[", "|", "&", " "} {
		if idx := strings.Index(s, sep); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// constructorCallName extracts the class name from a `new C(...)`
// initializer's raw text, the only construction form this core tracks
// for type inference.
func constructorCallName(initializer string) (string, bool) {
	idx := strings.Index(initializer, "new ")
	if idx == -1 {
		return "", false
	}
	rest := strings.TrimSpace(initializer[idx+len("new "):])
	end := len(rest)
	for i, r := range rest {
		if r == '(' || r == '<' || r == ' ' || r == '.' {
			end = i
			break
		}
	}
	name := rest[:end]
	if name == "" {
		return "", false
	}
	return name, true
}

// jsDocType extracts the type name from a "@type {C}" JSDoc tag in a
// definition's docstring, if present.
func jsDocType(docstring string) (string, bool) {
	idx := strings.Index(docstring, "@type")
	if idx == -1 {
		return "", false
	}
	rest := docstring[idx:]
	open := strings.Index(rest, "{")
	close := strings.Index(rest, "}")
	if open == -1 || close == -1 || close <= open {
		return "", false
	}
	return strings.TrimSpace(rest[open+1 : close]), true
}

// RebuildResolvedTypeMembers recomputes every class/interface's merged
// member table from scratch, walking the extends/implements chain with
// a cycle guard so a malformed or self-referential hierarchy still
// terminates.
func (tr *TypeRegistry) RebuildResolvedTypeMembers() {
	tr.ResolvedTypeMembers = make(map[ids.SymbolId]map[ids.SymbolName]ids.SymbolId)
	for id, d := range tr.defs.BySymbolID {
		if d.Class == nil && d.Interface == nil {
			continue
		}
		tr.buildMembers(id, make(map[ids.SymbolId]bool))
	}
}

func (tr *TypeRegistry) buildMembers(id ids.SymbolId, visiting map[ids.SymbolId]bool) map[ids.SymbolName]ids.SymbolId {
	if table, ok := tr.ResolvedTypeMembers[id]; ok {
		return table
	}
	if visiting[id] {
		return nil // inheritance cycle: stop without caching a partial table
	}
	visiting[id] = true
	defer delete(visiting, id)

	d, ok := tr.defs.BySymbolID[id]
	if !ok {
		return nil
	}

	var bases []string
	switch {
	case d.Class != nil:
		bases = append(append([]string{}, d.Class.Extends...), d.Class.Implements...)
	case d.Interface != nil:
		bases = d.Interface.Extends
	}

	table := make(map[ids.SymbolName]ids.SymbolId)
	for _, baseName := range bases {
		baseID, ok := tr.names.resolve(d.DefiningScopeID, ids.SymbolName(baseName))
		if !ok {
			continue
		}
		for k, v := range tr.buildMembers(baseID, visiting) {
			table[k] = v
		}
	}
	for name, memberID := range tr.defs.MemberIndex[id] {
		table[name] = memberID
	}

	tr.ResolvedTypeMembers[id] = table
	return table
}
