package resolve

import (
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/registry"
	"github.com/shivasurya/semindex/internal/semantic"
)

// CallType discriminates the three kinds of resolved call.
type CallType string

const (
	CallFunction    CallType = "function"
	CallMethod      CallType = "method"
	CallConstructor CallType = "constructor"
)

// Resolution is one candidate symbol a call resolves to, along with the
// reasoning that produced it. Confidence is "high" for a single
// unambiguous match and "interface_implementation" is carried in Reason
// for a polymorphic-expansion candidate.
type Resolution struct {
	SymbolID   ids.SymbolId
	Confidence string
	Reason     string
}

// CallReference is Phase 2's output: a reference resolved to zero or
// more candidate symbols.
type CallReference struct {
	Location             ids.Location
	Name                 ids.SymbolName
	ScopeID              ids.ScopeId
	CallType             CallType
	Resolutions          []Resolution
	CallerScopeID        ids.ScopeId
	IsCallbackInvocation bool
}

// callResolver implements Phase 2 over the registries newNameResolver/
// newTypeRegistry populate.
type callResolver struct {
	defs    *registry.DefinitionRegistry
	names   *nameResolver
	types   *TypeRegistry
	imports *registry.ImportGraph
	exports *registry.ExportRegistry

	results       []*CallReference
	byCallerScope map[ids.ScopeId][]*CallReference
}

func newCallResolver(defs *registry.DefinitionRegistry, names *nameResolver, types *TypeRegistry, imports *registry.ImportGraph, exports *registry.ExportRegistry) *callResolver {
	return &callResolver{defs: defs, names: names, types: types, imports: imports, exports: exports}
}

// resolveCallsForFiles runs Phase 2 over every reference in every file
// of files, plus callback-invocation synthesis at the end. Results for
// other files still in the registry are kept. Must only be called
// after Phase 1 and the TypeRegistry have been populated for the same
// change set.
func (cr *callResolver) resolveCallsForFiles(files []ids.FilePath) {
	// Replace only the contribution of files (and of files no longer in
	// the registry); calls recorded for every other file are kept.
	changed := make(map[ids.FilePath]bool, len(files))
	for _, f := range files {
		changed[f] = true
	}
	var kept []*CallReference
	for _, c := range cr.results {
		if _, ok := cr.defs.IndexByFile(c.Location.FilePath); ok && !changed[c.Location.FilePath] {
			kept = append(kept, c)
		}
	}
	cr.results = kept
	cr.byCallerScope = make(map[ids.ScopeId][]*CallReference)
	for _, c := range kept {
		cr.byCallerScope[c.CallerScopeID] = append(cr.byCallerScope[c.CallerScopeID], c)
	}

	for _, file := range files {
		idx, ok := cr.defs.IndexByFile(file)
		if !ok {
			continue
		}
		for _, ref := range idx.References {
			switch ref.Kind {
			case semantic.RefFunctionCall:
				cr.resolveFunctionCall(ref)
			case semantic.RefConstructorCall:
				cr.resolveConstructorCall(ref)
			case semantic.RefMethodCall, semantic.RefSelfCall:
				cr.resolveMethodCall(ref)
			}
		}
	}

	cr.synthesizeCallbackInvocations(files)
}

func (cr *callResolver) emit(ref *semantic.Reference, callType CallType, resolutions []Resolution) {
	callerScope, _ := cr.walkToCallerScope(ref.Location.FilePath, ref.ScopeID)
	cr.results = append(cr.results, &CallReference{
		Location: ref.Location, Name: ref.Name, ScopeID: ref.ScopeID,
		CallType: callType, Resolutions: resolutions, CallerScopeID: callerScope,
	})
	cr.indexLast()
}

func (cr *callResolver) indexLast() {
	last := cr.results[len(cr.results)-1]
	cr.byCallerScope[last.CallerScopeID] = append(cr.byCallerScope[last.CallerScopeID], last)
}

// walkToCallerScope finds the nearest enclosing function/method/
// constructor body scope for scope within file, per the call-resolution
// contract's caller_scope_id field. Falls back to the file's root
// (module) scope when no such ancestor exists.
func (cr *callResolver) walkToCallerScope(file ids.FilePath, scope ids.ScopeId) (ids.ScopeId, bool) {
	tree, ok := cr.defs.ScopesByFile(file)
	if !ok {
		return scope, false
	}
	id := scope
	for {
		s := tree.Get(id)
		if s == nil {
			return scope, false
		}
		switch s.Type {
		case semantic.ScopeFunction, semantic.ScopeMethod, semantic.ScopeConstructor:
			return id, true
		}
		if s.ParentID == nil {
			return tree.RootID, true
		}
		id = *s.ParentID
	}
}

func (cr *callResolver) resolveFunctionCall(ref *semantic.Reference) {
	sid, ok := cr.names.resolve(ref.ScopeID, ref.Name)
	if !ok {
		cr.emit(ref, CallFunction, nil)
		return
	}
	def, ok := cr.defs.BySymbolID[sid]

	// Python rewrite: a function_call whose resolved name is a class
	// becomes a constructor_call.
	if ok && def.Class != nil {
		cr.emitConstructorResolution(ref, def)
		return
	}

	resolutions := []Resolution{{SymbolID: sid, Confidence: "high"}}
	if ok && def.Variable != nil {
		if expanded, found := cr.collectionDispatch(def); found {
			resolutions = expanded
		}
	}
	cr.emit(ref, CallFunction, resolutions)
}

func (cr *callResolver) resolveConstructorCall(ref *semantic.Reference) {
	sid, ok := cr.names.resolve(ref.ScopeID, ref.Name)
	if !ok {
		cr.emit(ref, CallConstructor, nil)
		return
	}
	def, ok := cr.defs.BySymbolID[sid]
	if !ok {
		cr.emit(ref, CallConstructor, nil)
		return
	}
	if def.Import != nil {
		// Binding is an import: follow the export chain to the real class.
		file, ok := cr.imports.Resolve(ref.Location.FilePath, def)
		if !ok {
			cr.emit(ref, CallConstructor, nil)
			return
		}
		name := def.Import.OriginalName
		if name == "" {
			name = def.Name
		}
		classID, ok := cr.exports.ResolveExportChain(file, name, semantic.DefClass)
		if !ok {
			cr.emit(ref, CallConstructor, nil)
			return
		}
		def, ok = cr.defs.BySymbolID[classID]
		if !ok {
			cr.emit(ref, CallConstructor, nil)
			return
		}
	}
	cr.emitConstructorResolution(ref, def)
}

func (cr *callResolver) emitConstructorResolution(ref *semantic.Reference, classDef *semantic.Definition) {
	if classDef.Class == nil {
		cr.emit(ref, CallConstructor, nil)
		return
	}
	if len(classDef.Class.Constructors) == 0 {
		// Synthesized default constructor: the class symbol itself stands
		// in for the (implicit, parameterless) constructor.
		cr.emit(ref, CallConstructor, []Resolution{{SymbolID: classDef.SymbolID, Confidence: "high", Reason: "synthesized_default_constructor"}})
		return
	}
	resolutions := make([]Resolution, 0, len(classDef.Class.Constructors))
	for _, ctorID := range classDef.Class.Constructors {
		resolutions = append(resolutions, Resolution{SymbolID: ctorID, Confidence: "high"})
	}
	cr.emit(ref, CallConstructor, resolutions)
}

// resolveMethodCall implements spec.md 4.9's method_call/self_reference_call
// resolution: receiver typing, chain walking, terminal lookup with
// polymorphic expansion, namespace-import dispatch, FunctionCollection
// lookup, and collection-dispatch fallback.
func (cr *callResolver) resolveMethodCall(ref *semantic.Reference) {
	chain, root := cr.chainAndRoot(ref)
	if len(chain) == 0 {
		cr.emit(ref, CallMethod, nil)
		return
	}

	currentType, ok := cr.rootType(ref, root)
	if !ok {
		cr.emit(ref, CallMethod, nil)
		return
	}

	// Walk the chain's interior members: for an explicit receiver
	// (method_call), chain[0] is the root name already consumed by
	// rootType above, so only chain[1:len-1] remains to walk; for
	// this/self/super, the keyword isn't part of chain at all, so the
	// full chain[:len-1] is interior.
	interior := chain[:len(chain)-1]
	if root == "" {
		interior = chain[1 : len(chain)-1]
	}
	for _, step := range interior {
		members := cr.types.ResolvedTypeMembers[currentType]
		memberID, ok := members[ids.SymbolName(step)]
		if !ok {
			cr.emit(ref, CallMethod, nil)
			return
		}
		nextType, ok := cr.types.SymbolTypes[memberID]
		if !ok {
			cr.emit(ref, CallMethod, nil)
			return
		}
		currentType = nextType
	}

	terminal := ids.SymbolName(chain[len(chain)-1])
	if resolutions, ok := cr.resolveTerminal(ref, currentType, terminal); ok {
		cr.emit(ref, CallMethod, resolutions)
		return
	}

	// Collection dispatch fallback.
	if typeDef, ok := cr.defs.BySymbolID[currentType]; ok && typeDef.Variable != nil {
		if expanded, found := cr.collectionDispatch(typeDef); found {
			cr.emit(ref, CallMethod, expanded)
			return
		}
	}
	cr.emit(ref, CallMethod, nil)
}

// chainAndRoot extracts the property chain and the syntactic root name
// (or self-keyword) from a method_call / self_reference_call reference.
func (cr *callResolver) chainAndRoot(ref *semantic.Reference) ([]string, string) {
	switch {
	case ref.MethodCall != nil:
		return ref.MethodCall.PropertyChain, ""
	case ref.SelfReferenceCall != nil:
		return ref.SelfReferenceCall.PropertyChain, string(ref.SelfReferenceCall.Keyword)
	}
	return nil, ""
}

// rootType resolves the chain's syntactic root to a type SymbolId.
func (cr *callResolver) rootType(ref *semantic.Reference, rootKeyword string) (ids.SymbolId, bool) {
	switch rootKeyword {
	case "this", "self", "cls":
		scope, ok := cr.walkToCallerScope(ref.Location.FilePath, ref.ScopeID)
		if !ok {
			return "", false
		}
		return cr.enclosingClassSymbol(ref.Location.FilePath, scope)
	case "super":
		scope, ok := cr.walkToCallerScope(ref.Location.FilePath, ref.ScopeID)
		if !ok {
			return "", false
		}
		classID, ok := cr.enclosingClassSymbol(ref.Location.FilePath, scope)
		if !ok {
			return "", false
		}
		classDef, ok := cr.defs.BySymbolID[classID]
		if !ok || classDef.Class == nil || len(classDef.Class.Extends) == 0 {
			return "", false
		}
		base, ok := cr.names.resolve(classDef.DefiningScopeID, ids.SymbolName(classDef.Class.Extends[0]))
		return base, ok
	default:
		chain, _ := cr.chainAndRoot(ref)
		if len(chain) == 0 || ref.MethodCall == nil {
			return "", false
		}
		// Root name is the first chain element for method_call; for
		// self_reference_call this branch is unreachable (rootKeyword set).
		rootName := chain[0]
		sid, ok := cr.names.resolve(ref.ScopeID, ids.SymbolName(rootName))
		if !ok {
			return "", false
		}
		// Translate a variable root to its inferred class/interface type.
		// Roots that never get a SymbolTypes entry (namespace imports,
		// FunctionCollection variables, direct class aliases) pass through
		// as-is for resolveTerminal's other dispatch strategies.
		if t, ok := cr.types.SymbolTypes[sid]; ok {
			return t, true
		}
		return sid, true
	}
}

// enclosingClassSymbol walks up from a function/method body scope to the
// nearest enclosing class scope and returns its SymbolId.
func (cr *callResolver) enclosingClassSymbol(file ids.FilePath, scope ids.ScopeId) (ids.SymbolId, bool) {
	tree, ok := cr.defs.ScopesByFile(file)
	if !ok {
		return "", false
	}
	id := scope
	for {
		s := tree.Get(id)
		if s == nil {
			return "", false
		}
		if s.Type == semantic.ScopeClass {
			for _, d := range cr.defs.ByFile[file] {
				if d.Class != nil && classScopeMatches(d, id, tree) {
					return d.SymbolID, true
				}
			}
			return "", false
		}
		if s.ParentID == nil {
			return "", false
		}
		id = *s.ParentID
	}
}

// classScopeMatches reports whether class definition d's body is the
// scope identified by scopeID — a class Definition doesn't store its
// body scope directly, only its own location, so this compares the
// class's Location against the scope's parent chain.
func classScopeMatches(d *semantic.Definition, scopeID ids.ScopeId, tree *semantic.ScopeTree) bool {
	s := tree.Get(scopeID)
	if s == nil {
		return false
	}
	return d.Location.Contains(s.Location) || d.Location == s.Location
}

func (cr *callResolver) resolveTerminal(ref *semantic.Reference, typeID ids.SymbolId, terminal ids.SymbolName) ([]Resolution, bool) {
	var resolutions []Resolution

	if memberID, ok := cr.types.ResolvedTypeMembers[typeID][terminal]; ok {
		resolutions = append(resolutions, Resolution{SymbolID: memberID, Confidence: "high"})
	}

	// Polymorphic expansion over every transitive subtype defining the
	// same-named member.
	if subs, ok := cr.defs.TypeSubtypes[typeID]; ok {
		for sub := range subs {
			if memberID, ok := cr.types.ResolvedTypeMembers[sub][terminal]; ok {
				resolutions = append(resolutions, Resolution{SymbolID: memberID, Confidence: "medium", Reason: "interface_implementation"})
			}
		}
	}
	if len(resolutions) > 0 {
		return dedupeResolutions(resolutions), true
	}

	typeDef, ok := cr.defs.BySymbolID[typeID]
	if !ok {
		return nil, false
	}

	// Namespace-import dispatch: T is an import of kind namespace.
	if typeDef.Import != nil && typeDef.Import.ImportKind == semantic.ImportNamespace {
		target, ok := cr.imports.Resolve(typeDef.Location.FilePath, typeDef)
		if !ok {
			return nil, false
		}
		exportedID, ok := cr.exports.ResolveExportChain(target, terminal, semantic.DefFunction)
		if !ok {
			return nil, false
		}
		return []Resolution{{SymbolID: exportedID, Confidence: "high"}}, true
	}

	// Object-literal FunctionCollection lookup.
	if typeDef.Variable != nil && typeDef.Variable.FunctionCollection != nil {
		fc := typeDef.Variable.FunctionCollection
		for _, sid := range fc.StoredFunctions {
			if d, ok := cr.defs.BySymbolID[sid]; ok && d.Name == terminal {
				return []Resolution{{SymbolID: sid, Confidence: "high"}}, true
			}
		}
		for _, name := range fc.StoredReferences {
			if name != terminal {
				continue
			}
			if sid, ok := cr.names.resolve(typeDef.DefiningScopeID, name); ok {
				return []Resolution{{SymbolID: sid, Confidence: "high"}}, true
			}
		}
	}

	// Member-index fallback, bypassing inherited-member resolution.
	if memberID, ok := cr.defs.MemberIndex[typeID][terminal]; ok {
		return []Resolution{{SymbolID: memberID, Confidence: "high"}}, true
	}

	return nil, false
}

func dedupeResolutions(in []Resolution) []Resolution {
	seen := make(map[ids.SymbolId]bool, len(in))
	out := in[:0]
	for _, r := range in {
		if seen[r.SymbolID] {
			continue
		}
		seen[r.SymbolID] = true
		out = append(out, r)
	}
	return out
}

// collectionDispatch expands a variable's attached FunctionCollection
// (or, transitively, the collection a CollectionSource alias points at)
// into one Resolution per stored function.
func (cr *callResolver) collectionDispatch(varDef *semantic.Definition) ([]Resolution, bool) {
	seen := make(map[ids.SymbolId]bool)
	var resolutions []Resolution

	var expand func(d *semantic.Definition)
	expand = func(d *semantic.Definition) {
		if d == nil || d.Variable == nil {
			return
		}
		if fc := d.Variable.FunctionCollection; fc != nil {
			for _, sid := range fc.StoredFunctions {
				if !seen[sid] {
					seen[sid] = true
					resolutions = append(resolutions, Resolution{SymbolID: sid, Confidence: "medium", Reason: "collection_dispatch"})
				}
			}
			for _, name := range fc.StoredReferences {
				if sid, ok := cr.names.resolve(d.DefiningScopeID, name); ok && !seen[sid] {
					if next, ok := cr.defs.BySymbolID[sid]; ok && next.Variable != nil && next.Variable.FunctionCollection != nil {
						expand(next)
					} else {
						seen[sid] = true
						resolutions = append(resolutions, Resolution{SymbolID: sid, Confidence: "medium", Reason: "collection_dispatch"})
					}
				}
			}
			return
		}
		if d.Variable.CollectionSource != "" {
			if sid, ok := cr.names.resolve(d.DefiningScopeID, d.Variable.CollectionSource); ok {
				if next, ok := cr.defs.BySymbolID[sid]; ok {
					expand(next)
				}
			}
		}
	}
	expand(varDef)
	return resolutions, len(resolutions) > 0
}

// synthesizeCallbackInvocations emits a synthetic CallReference for every
// anonymous callback-position function, pointed at the call site that
// received it, so callbacks never appear as unreferenced entry points.
func (cr *callResolver) synthesizeCallbackInvocations(files []ids.FilePath) {
	for _, file := range files {
		idx, ok := cr.defs.IndexByFile(file)
		if !ok {
			continue
		}
		for _, d := range idx.Functions {
			if d.Function == nil || d.Function.CallbackContext == nil || !d.Function.CallbackContext.IsCallback {
				continue
			}
			ref := &CallReference{
				Location:             d.Function.CallbackContext.ReceiverLocation,
				Name:                 d.Name,
				ScopeID:              d.DefiningScopeID,
				CallType:             CallFunction,
				Resolutions:          []Resolution{{SymbolID: d.SymbolID, Confidence: "high", Reason: "callback_invocation"}},
				IsCallbackInvocation: true,
			}
			callerScope, _ := cr.walkToCallerScope(file, d.DefiningScopeID)
			ref.CallerScopeID = callerScope
			cr.results = append(cr.results, ref)
			cr.byCallerScope[callerScope] = append(cr.byCallerScope[callerScope], ref)
		}
	}
}
