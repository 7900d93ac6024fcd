package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/registry"
	"github.com/shivasurya/semindex/internal/semantic"
)

// fakeResolver is a hand-wired ImportResolver standing in for
// internal/modresolve in these fixture-driven tests: a plain specifier ->
// FilePath table, no filesystem involved.
type fakeResolver struct {
	table map[string]ids.FilePath
}

func (f fakeResolver) ResolveImportPath(importer ids.FilePath, specifier string) (ids.FilePath, bool) {
	p, ok := f.table[specifier]
	return p, ok
}

func addModuleScope(idx *semantic.SemanticIndex, file ids.FilePath) *semantic.Scope {
	s := &semantic.Scope{
		ID:       ids.ScopeId(string(file) + "#module"),
		Type:     semantic.ScopeModule,
		Location: ids.Location{FilePath: file, StartLine: 1, StartColumn: 1, EndLine: 9999, EndColumn: 1},
	}
	idx.Scopes.Add(s)
	return s
}

func addChildScope(idx *semantic.SemanticIndex, parent *semantic.Scope, suffix string, typ semantic.ScopeType, loc ids.Location) *semantic.Scope {
	pid := parent.ID
	s := &semantic.Scope{ID: ids.ScopeId(string(loc.FilePath) + suffix), Type: typ, ParentID: &pid, Location: loc}
	idx.Scopes.Add(s)
	return s
}

// TestResolveMethodCall_JSMethodReceiver covers spec scenario S1: `const
// obj = new MyClass(); obj.method();` resolves the constructor_call to
// MyClass's synthesized default constructor and the method_call to
// MyClass.method.
func TestResolveMethodCall_JSMethodReceiver(t *testing.T) {
	file := ids.FilePath("s1.js")
	idx := semantic.NewSemanticIndex(file, "javascript")
	module := addModuleScope(idx, file)

	classID := ids.NewSymbolID("class", "MyClass", file, 1, 1, 4, 1)
	methodID := ids.NewSymbolID("method", "method", file, 2, 3, 3, 3)

	idx.AddDefinition(&semantic.Definition{
		Kind: semantic.DefClass, SymbolID: classID, Name: "MyClass",
		DefiningScopeID: module.ID,
		Location:        ids.Location{FilePath: file, StartLine: 1, StartColumn: 1, EndLine: 4, EndColumn: 1},
		Class:           &semantic.ClassDef{Methods: []ids.SymbolId{methodID}, IsExported: true},
	})
	idx.AddDefinition(&semantic.Definition{
		Kind: semantic.DefMethod, SymbolID: methodID, Name: "method",
		DefiningScopeID: module.ID,
		Location:        ids.Location{FilePath: file, StartLine: 2, StartColumn: 3, EndLine: 3, EndColumn: 3},
		Method:          &semantic.MethodDef{},
	})

	objLoc := ids.Location{FilePath: file, StartLine: 6, StartColumn: 7, EndLine: 6, EndColumn: 10}
	objID := ids.NewSymbolID("variable", "obj", file, 6, 1, 6, 30)
	idx.AddDefinition(&semantic.Definition{
		Kind: semantic.DefVariable, SymbolID: objID, Name: "obj",
		DefiningScopeID: module.ID,
		Location:        ids.Location{FilePath: file, StartLine: 6, StartColumn: 1, EndLine: 6, EndColumn: 30},
		Variable:        &semantic.VariableDef{InitialValue: "new MyClass()"},
	})

	idx.AddReference(&semantic.Reference{
		Kind: semantic.RefConstructorCall, Name: "MyClass", ScopeID: module.ID,
		Location:        ids.Location{FilePath: file, StartLine: 6, StartColumn: 13, EndLine: 6, EndColumn: 22},
		ConstructorCall: &semantic.ConstructorCall{ConstructTarget: &objLoc},
	})
	idx.AddReference(&semantic.Reference{
		Kind: semantic.RefMethodCall, Name: "method", ScopeID: module.ID,
		Location:   ids.Location{FilePath: file, StartLine: 7, StartColumn: 1, EndLine: 7, EndColumn: 15},
		MethodCall: &semantic.MethodCall{ReceiverLocation: objLoc, PropertyChain: []string{"obj", "method"}},
	})

	defs := registry.NewDefinitionRegistry()
	defs.UpdateFile(file, idx)

	rr := NewResolutionRegistry(defs, fakeResolver{})
	files := []ids.FilePath{file}
	rr.ResolveNames(files)
	rr.UpdateTypes(files)
	rr.ResolveCallsForFiles(files)

	calls := rr.GetAllCalls()
	require.Len(t, calls, 2)

	var ctorCall, methodCall *CallReference
	for _, c := range calls {
		switch c.CallType {
		case CallConstructor:
			ctorCall = c
		case CallMethod:
			methodCall = c
		}
	}
	require.NotNil(t, ctorCall)
	require.NotNil(t, methodCall)

	require.Len(t, ctorCall.Resolutions, 1)
	assert.Equal(t, classID, ctorCall.Resolutions[0].SymbolID)
	assert.Equal(t, "synthesized_default_constructor", ctorCall.Resolutions[0].Reason)

	require.Len(t, methodCall.Resolutions, 1)
	assert.Equal(t, methodID, methodCall.Resolutions[0].SymbolID)
}

// TestResolveMethodCall_PolymorphicInterface covers spec scenario S3: a
// call through an interface-typed parameter expands to every subtype's
// implementation, each tagged interface_implementation.
func TestResolveMethodCall_PolymorphicInterface(t *testing.T) {
	file := ids.FilePath("s3.ts")
	idx := semantic.NewSemanticIndex(file, "typescript")
	module := addModuleScope(idx, file)
	runBody := addChildScope(idx, module, "#run", semantic.ScopeFunction,
		ids.Location{FilePath: file, StartLine: 10, StartColumn: 1, EndLine: 12, EndColumn: 1})

	ifaceID := ids.NewSymbolID("interface", "Handler", file, 1, 1, 1, 40)
	idx.AddDefinition(&semantic.Definition{
		Kind: semantic.DefInterface, SymbolID: ifaceID, Name: "Handler",
		DefiningScopeID: module.ID,
		Location:        ids.Location{FilePath: file, StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 40},
		Interface:       &semantic.InterfaceDef{},
	})

	classAID := ids.NewSymbolID("class", "A", file, 2, 1, 2, 40)
	methodAID := ids.NewSymbolID("method", "process", file, 2, 20, 2, 35)
	idx.AddDefinition(&semantic.Definition{
		Kind: semantic.DefClass, SymbolID: classAID, Name: "A",
		DefiningScopeID: module.ID,
		Location:        ids.Location{FilePath: file, StartLine: 2, StartColumn: 1, EndLine: 2, EndColumn: 40},
		Class:           &semantic.ClassDef{Implements: []string{"Handler"}, Methods: []ids.SymbolId{methodAID}},
	})
	idx.AddDefinition(&semantic.Definition{
		Kind: semantic.DefMethod, SymbolID: methodAID, Name: "process",
		DefiningScopeID: module.ID,
		Location:        ids.Location{FilePath: file, StartLine: 2, StartColumn: 20, EndLine: 2, EndColumn: 35},
		Method:          &semantic.MethodDef{},
	})

	classBID := ids.NewSymbolID("class", "B", file, 3, 1, 3, 40)
	methodBID := ids.NewSymbolID("method", "process", file, 3, 20, 3, 35)
	idx.AddDefinition(&semantic.Definition{
		Kind: semantic.DefClass, SymbolID: classBID, Name: "B",
		DefiningScopeID: module.ID,
		Location:        ids.Location{FilePath: file, StartLine: 3, StartColumn: 1, EndLine: 3, EndColumn: 40},
		Class:           &semantic.ClassDef{Implements: []string{"Handler"}, Methods: []ids.SymbolId{methodBID}},
	})
	idx.AddDefinition(&semantic.Definition{
		Kind: semantic.DefMethod, SymbolID: methodBID, Name: "process",
		DefiningScopeID: module.ID,
		Location:        ids.Location{FilePath: file, StartLine: 3, StartColumn: 20, EndLine: 3, EndColumn: 35},
		Method:          &semantic.MethodDef{},
	})

	runID := ids.NewSymbolID("function", "run", file, 10, 1, 12, 1)
	idx.AddDefinition(&semantic.Definition{
		Kind: semantic.DefFunction, SymbolID: runID, Name: "run",
		DefiningScopeID: module.ID,
		Location:        ids.Location{FilePath: file, StartLine: 10, StartColumn: 1, EndLine: 12, EndColumn: 1},
		Function:        &semantic.FunctionDef{BodyScopeID: runBody.ID},
	})

	hID := ids.NewSymbolID("variable", "h", file, 10, 10, 10, 20)
	idx.AddDefinition(&semantic.Definition{
		Kind: semantic.DefVariable, SymbolID: hID, Name: "h",
		DefiningScopeID: runBody.ID,
		Location:        ids.Location{FilePath: file, StartLine: 10, StartColumn: 10, EndLine: 10, EndColumn: 20},
		Variable:        &semantic.VariableDef{TypeAnnotation: "Handler"},
	})

	idx.AddReference(&semantic.Reference{
		Kind: semantic.RefMethodCall, Name: "process", ScopeID: runBody.ID,
		Location:   ids.Location{FilePath: file, StartLine: 11, StartColumn: 3, EndLine: 11, EndColumn: 15},
		MethodCall: &semantic.MethodCall{PropertyChain: []string{"h", "process"}},
	})

	defs := registry.NewDefinitionRegistry()
	defs.UpdateFile(file, idx)

	rr := NewResolutionRegistry(defs, fakeResolver{})
	files := []ids.FilePath{file}
	rr.ResolveNames(files)
	rr.UpdateTypes(files)
	rr.ResolveCallsForFiles(files)

	calls := rr.GetAllCalls()
	require.Len(t, calls, 1)
	call := calls[0]
	assert.Equal(t, CallMethod, call.CallType)
	require.Len(t, call.Resolutions, 2)

	got := map[ids.SymbolId]string{}
	for _, r := range call.Resolutions {
		got[r.SymbolID] = r.Reason
	}
	assert.Equal(t, map[ids.SymbolId]string{
		methodAID: "interface_implementation",
		methodBID: "interface_implementation",
	}, got)
}

// TestResolveMethodCall_NamespaceImport covers spec scenario S5: file B
// imports file A's helper under a namespace binding and calls it through
// that binding.
func TestResolveMethodCall_NamespaceImport(t *testing.T) {
	fileA := ids.FilePath("a.js")
	idxA := semantic.NewSemanticIndex(fileA, "javascript")
	moduleA := addModuleScope(idxA, fileA)
	helperID := ids.NewSymbolID("function", "helper", fileA, 1, 1, 1, 20)
	idxA.AddDefinition(&semantic.Definition{
		Kind: semantic.DefFunction, SymbolID: helperID, Name: "helper",
		DefiningScopeID: moduleA.ID,
		Location:        ids.Location{FilePath: fileA, StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 20},
		Function:        &semantic.FunctionDef{IsExported: true},
	})

	fileB := ids.FilePath("b.js")
	idxB := semantic.NewSemanticIndex(fileB, "javascript")
	moduleB := addModuleScope(idxB, fileB)
	utilsID := ids.NewSymbolID("import", "utils", fileB, 1, 1, 1, 30)
	idxB.AddDefinition(&semantic.Definition{
		Kind: semantic.DefImport, SymbolID: utilsID, Name: "utils",
		DefiningScopeID: moduleB.ID,
		Location:        ids.Location{FilePath: fileB, StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 30},
		Import:          &semantic.ImportDef{ImportKind: semantic.ImportNamespace, SourcePath: "./a"},
	})
	idxB.AddReference(&semantic.Reference{
		Kind: semantic.RefMethodCall, Name: "helper", ScopeID: moduleB.ID,
		Location:   ids.Location{FilePath: fileB, StartLine: 2, StartColumn: 1, EndLine: 2, EndColumn: 15},
		MethodCall: &semantic.MethodCall{PropertyChain: []string{"utils", "helper"}},
	})

	defs := registry.NewDefinitionRegistry()
	defs.UpdateFile(fileA, idxA)
	defs.UpdateFile(fileB, idxB)

	resolver := fakeResolver{table: map[string]ids.FilePath{"./a": fileA}}
	rr := NewResolutionRegistry(defs, resolver)
	files := []ids.FilePath{fileA, fileB}
	rr.ResolveNames(files)
	rr.UpdateTypes(files)
	rr.ResolveCallsForFiles(files)

	calls := rr.GetAllCalls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Resolutions, 1)
	assert.Equal(t, helperID, calls[0].Resolutions[0].SymbolID)
}

// TestResolveMethodCall_NamespaceImport_NotExported is the negative half
// of S5: an unexported helper never resolves through the namespace import.
func TestResolveMethodCall_NamespaceImport_NotExported(t *testing.T) {
	fileA := ids.FilePath("a2.js")
	idxA := semantic.NewSemanticIndex(fileA, "javascript")
	moduleA := addModuleScope(idxA, fileA)
	idxA.AddDefinition(&semantic.Definition{
		Kind: semantic.DefFunction, SymbolID: ids.NewSymbolID("function", "helper", fileA, 1, 1, 1, 20), Name: "helper",
		DefiningScopeID: moduleA.ID,
		Location:        ids.Location{FilePath: fileA, StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 20},
		Function:        &semantic.FunctionDef{IsExported: false},
	})

	fileB := ids.FilePath("b2.js")
	idxB := semantic.NewSemanticIndex(fileB, "javascript")
	moduleB := addModuleScope(idxB, fileB)
	idxB.AddDefinition(&semantic.Definition{
		Kind: semantic.DefImport, SymbolID: ids.NewSymbolID("import", "utils", fileB, 1, 1, 1, 30), Name: "utils",
		DefiningScopeID: moduleB.ID,
		Location:        ids.Location{FilePath: fileB, StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 30},
		Import:          &semantic.ImportDef{ImportKind: semantic.ImportNamespace, SourcePath: "./a2"},
	})
	idxB.AddReference(&semantic.Reference{
		Kind: semantic.RefMethodCall, Name: "helper", ScopeID: moduleB.ID,
		Location:   ids.Location{FilePath: fileB, StartLine: 2, StartColumn: 1, EndLine: 2, EndColumn: 15},
		MethodCall: &semantic.MethodCall{PropertyChain: []string{"utils", "helper"}},
	})

	defs := registry.NewDefinitionRegistry()
	defs.UpdateFile(fileA, idxA)
	defs.UpdateFile(fileB, idxB)

	resolver := fakeResolver{table: map[string]ids.FilePath{"./a2": fileA}}
	rr := NewResolutionRegistry(defs, resolver)
	files := []ids.FilePath{fileA, fileB}
	rr.ResolveNames(files)
	rr.UpdateTypes(files)
	rr.ResolveCallsForFiles(files)

	require.Len(t, rr.GetAllCalls(), 1)
	assert.Empty(t, rr.GetAllCalls()[0].Resolutions)
}

// TestCollectionDispatch_S6 covers spec scenario S6's dispatch-table half:
// a direct call on a variable holding an object-literal FunctionCollection
// expands to every stored function, and every stored function shows up in
// indirect reachability when the collection itself is read.
func TestCollectionDispatch_S6(t *testing.T) {
	file := ids.FilePath("s6.js")
	idx := semantic.NewSemanticIndex(file, "javascript")
	module := addModuleScope(idx, file)

	fnAID := ids.NewSymbolID("function", "fnA", file, 1, 1, 1, 20)
	fnBID := ids.NewSymbolID("function", "fnB", file, 2, 1, 2, 20)
	idx.AddDefinition(&semantic.Definition{
		Kind: semantic.DefFunction, SymbolID: fnAID, Name: "fnA",
		DefiningScopeID: module.ID,
		Location:        ids.Location{FilePath: file, StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 20},
		Function:        &semantic.FunctionDef{},
	})
	idx.AddDefinition(&semantic.Definition{
		Kind: semantic.DefFunction, SymbolID: fnBID, Name: "fnB",
		DefiningScopeID: module.ID,
		Location:        ids.Location{FilePath: file, StartLine: 2, StartColumn: 1, EndLine: 2, EndColumn: 20},
		Function:        &semantic.FunctionDef{},
	})

	handlersID := ids.NewSymbolID("variable", "HANDLERS", file, 3, 1, 3, 40)
	idx.AddDefinition(&semantic.Definition{
		Kind: semantic.DefVariable, SymbolID: handlersID, Name: "HANDLERS",
		DefiningScopeID: module.ID,
		Location:        ids.Location{FilePath: file, StartLine: 3, StartColumn: 1, EndLine: 3, EndColumn: 40},
		Variable: &semantic.VariableDef{
			FunctionCollection: &semantic.FunctionCollection{
				SymbolID:        handlersID,
				StoredFunctions: []ids.SymbolId{fnAID, fnBID},
			},
		},
	})

	readLoc := ids.Location{FilePath: file, StartLine: 4, StartColumn: 10, EndLine: 4, EndColumn: 18}
	idx.AddReference(&semantic.Reference{
		Kind: semantic.RefVariableRef, Name: "HANDLERS", ScopeID: module.ID, Location: readLoc,
		VariableReference: &semantic.VariableReference{AccessType: semantic.AccessRead},
	})
	idx.AddReference(&semantic.Reference{
		Kind: semantic.RefFunctionCall, Name: "HANDLERS", ScopeID: module.ID,
		Location:     ids.Location{FilePath: file, StartLine: 5, StartColumn: 1, EndLine: 5, EndColumn: 11},
		FunctionCall: &semantic.FunctionCall{},
	})

	defs := registry.NewDefinitionRegistry()
	defs.UpdateFile(file, idx)

	rr := NewResolutionRegistry(defs, fakeResolver{})
	files := []ids.FilePath{file}
	rr.ResolveNames(files)
	rr.UpdateTypes(files)
	rr.ResolveCallsForFiles(files)

	var dispatchCall *CallReference
	for _, c := range rr.GetAllCalls() {
		if c.CallType == CallFunction {
			dispatchCall = c
		}
	}
	require.NotNil(t, dispatchCall)
	require.Len(t, dispatchCall.Resolutions, 2)
	for _, r := range dispatchCall.Resolutions {
		assert.Equal(t, "collection_dispatch", r.Reason)
	}

	reach := rr.GetIndirectReachability()
	require.Len(t, reach, 2)
	seen := map[ids.SymbolId]bool{}
	for _, e := range reach {
		assert.Equal(t, ReasonCollectionRead, e.Reason)
		assert.Equal(t, handlersID, e.CollectionID)
		seen[e.FunctionID] = true
	}
	assert.True(t, seen[fnAID])
	assert.True(t, seen[fnBID])
}

// TestPhase1Idempotence covers quantified invariant 5: running resolveNames
// twice without intervening file changes yields identical scope -> (name
// -> symbol) maps.
func TestPhase1Idempotence(t *testing.T) {
	file := ids.FilePath("idem.js")
	idx := semantic.NewSemanticIndex(file, "javascript")
	module := addModuleScope(idx, file)
	fnID := ids.NewSymbolID("function", "f", file, 1, 1, 2, 1)
	idx.AddDefinition(&semantic.Definition{
		Kind: semantic.DefFunction, SymbolID: fnID, Name: "f",
		DefiningScopeID: module.ID,
		Location:        ids.Location{FilePath: file, StartLine: 1, StartColumn: 1, EndLine: 2, EndColumn: 1},
		Function:        &semantic.FunctionDef{},
	})

	defs := registry.NewDefinitionRegistry()
	defs.UpdateFile(file, idx)

	names := newNameResolver(defs, registry.NewExportRegistry(defs, registry.NewImportGraph(fakeResolver{})), registry.NewImportGraph(fakeResolver{}))
	names.resolveNames([]ids.FilePath{file})
	first := names.scopeResolutionsSnapshot()
	names.resolveNames([]ids.FilePath{file})
	second := names.scopeResolutionsSnapshot()

	assert.Equal(t, first, second)
}

// TestRemoveFileRoundTrip covers quantified invariant 8 at the
// DefinitionRegistry level: removing a file leaves registry state
// deep-equal to never having indexed it.
func TestRemoveFileRoundTrip(t *testing.T) {
	base := ids.FilePath("base.js")
	extra := ids.FilePath("extra.js")

	build := func(files ...ids.FilePath) *registry.DefinitionRegistry {
		defs := registry.NewDefinitionRegistry()
		for _, f := range files {
			idx := semantic.NewSemanticIndex(f, "javascript")
			module := addModuleScope(idx, f)
			fnID := ids.NewSymbolID("function", "f", f, 1, 1, 2, 1)
			idx.AddDefinition(&semantic.Definition{
				Kind: semantic.DefFunction, SymbolID: fnID, Name: "f",
				DefiningScopeID: module.ID,
				Location:        ids.Location{FilePath: f, StartLine: 1, StartColumn: 1, EndLine: 2, EndColumn: 1},
				Function:        &semantic.FunctionDef{},
			})
			defs.UpdateFile(f, idx)
		}
		return defs
	}

	never := build(base)

	withExtra := build(base, extra)
	withExtra.RemoveFile(extra)

	assert.ElementsMatch(t, never.Files(), withExtra.Files())
	assert.Equal(t, len(never.BySymbolID), len(withExtra.BySymbolID))
	for sid, d := range never.BySymbolID {
		got, ok := withExtra.BySymbolID[sid]
		require.True(t, ok)
		assert.Equal(t, d.Name, got.Name)
	}
}
