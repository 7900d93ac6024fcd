package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/shivasurya/semindex/internal/capture"
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/semantic"
)

// jsChainKinds are the node kinds splitPropertyChain follows when walking
// a receiver expression left-to-right (obj.a.b.c or obj?.a?.b).
var jsChainKinds = map[string]bool{
	"member_expression": true,
}

// javascriptWalker holds the mutable state for one JS/TS file's
// definition+reference extraction pass. isTS gates TypeScript-only
// constructs (interfaces, type aliases, enums, type annotations).
type javascriptWalker struct {
	*ctx
	isTS bool
}

// WalkJavaScript extracts definitions and references from a parsed
// JavaScript or TypeScript file into idx, using the scope tree scopes
// already built for the same tree.
func WalkJavaScript(tree *capture.Tree, scopes *semantic.ScopeTree, idx *semantic.SemanticIndex, isTS bool) {
	w := &javascriptWalker{
		ctx:  &ctx{file: tree.FilePath, source: tree.Source, scopes: scopes, index: idx, lang: string(tree.Language)},
		isTS: isTS,
	}
	if tree.Root == nil {
		return
	}
	w.walk(tree.Root, scopes.RootID, nil)
}

// walk recurses through n, emitting definitions and references into
// w.index and returning the same way scopebuilder did: constructs that
// open a scope recurse into their children with that scope as current;
// everything else keeps the caller's scope. pendingDecorators carries
// decorator text collected from immediately preceding sibling "decorator"
// nodes (TypeScript class/method decorators).
func (w *javascriptWalker) walk(n *sitter.Node, scope ids.ScopeId, pendingDecorators []string) {
	switch n.Type() {
	case "import_statement":
		w.extractImport(n, scope)
		return

	case "class_declaration", "class":
		w.extractClass(n, scope, pendingDecorators)
		return

	case "interface_declaration":
		if w.isTS {
			w.extractInterface(n, scope)
			return
		}

	case "type_alias_declaration":
		if w.isTS {
			w.extractTypeAlias(n, scope)
			return
		}

	case "enum_declaration":
		if w.isTS {
			w.extractEnum(n, scope)
			return
		}

	case "function_declaration", "generator_function_declaration":
		w.extractFunctionDeclaration(n, scope, pendingDecorators)
		return

	case "variable_declarator":
		w.extractVariableDeclarator(n, scope)
		return

	case "call_expression":
		w.extractCall(n, scope)
		return

	case "new_expression":
		w.extractNew(n, scope)
		return

	case "assignment_expression", "augmented_assignment_expression":
		w.extractAssignment(n, scope)
		return

	case "member_expression":
		w.extractStandaloneMemberExpression(n, scope)
		return

	case "decorator":
		// Collected by the caller (walkChildren/extractClassBody) by
		// looking at preceding siblings; nothing to do standalone.
		return
	}

	w.walkChildren(n, scope)
}

func (w *javascriptWalker) walkChildren(n *sitter.Node, scope ids.ScopeId) {
	count := int(n.ChildCount())
	var decorators []string
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.Type() == "decorator" {
			decorators = append(decorators, trimDecoratorName(w.text(decoratorTarget(child))))
			continue
		}
		w.walk(child, scope, decorators)
		decorators = nil
	}
}

func decoratorTarget(n *sitter.Node) *sitter.Node {
	if c := n.NamedChild(0); c != nil {
		return c
	}
	return n
}

func (w *javascriptWalker) bodyScope(body *sitter.Node) ids.ScopeId {
	if body == nil {
		return ""
	}
	target := w.loc(body)
	for id, s := range w.scopes.Scopes {
		if s.Location == target {
			return id
		}
	}
	return w.scopeAt(target)
}

// ---- Definitions ----------------------------------------------------

func (w *javascriptWalker) extractImport(n *sitter.Node, scope ids.ScopeId) {
	sourceNode := n.ChildByFieldName("source")
	sourcePath := strings.Trim(w.text(sourceNode), `"'`)
	clause := n.NamedChild(0)
	if clause == nil || clause.Type() != "import_clause" {
		// side_effect import: `import "./init"`, no bound local name.
		return
	}

	for i := 0; i < int(clause.NamedChildCount()); i++ {
		part := clause.NamedChild(i)
		switch part.Type() {
		case "identifier": // default import
			w.addImportDef(part, ids.SymbolName(w.text(part)), "", semantic.ImportDefault, sourcePath, scope)
		case "namespace_import":
			if id := part.NamedChild(0); id != nil {
				w.addImportDef(part, ids.SymbolName(w.text(id)), "", semantic.ImportNamespace, sourcePath, scope)
			}
		case "named_imports":
			for j := 0; j < int(part.NamedChildCount()); j++ {
				spec := part.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				aliasNode := spec.ChildByFieldName("alias")
				local := nameNode
				original := ids.SymbolName("")
				if aliasNode != nil {
					local = aliasNode
					original = ids.SymbolName(w.text(nameNode))
				}
				w.addImportDef(local, ids.SymbolName(w.text(local)), original, semantic.ImportNamed, sourcePath, scope)
			}
		}
	}
}

func (w *javascriptWalker) addImportDef(at *sitter.Node, local ids.SymbolName, original ids.SymbolName, kind semantic.ImportKind, sourcePath string, scope ids.ScopeId) {
	loc := w.loc(at)
	d := &semantic.Definition{
		Kind:            semantic.DefImport,
		SymbolID:        symbolID(semantic.DefImport, local, loc),
		Name:            local,
		DefiningScopeID: scope,
		Location:        loc,
		Import: &semantic.ImportDef{
			ImportKind:   kind,
			SourcePath:   sourcePath,
			OriginalName: original,
		},
	}
	w.index.AddDefinition(d)
}

func (w *javascriptWalker) extractClass(n *sitter.Node, scope ids.ScopeId, decorators []string) {
	nameNode := n.ChildByFieldName("name")
	name := ids.SymbolName(w.text(nameNode))
	body := n.ChildByFieldName("body")
	loc := w.loc(n)
	classScope := w.bodyScope(body)
	exported := isExported(n)

	var extends, implements []string
	if heritage := n.ChildByFieldName("heritage"); heritage != nil {
		extends, implements = parseHeritage(w.text(heritage))
	} else {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() == "class_heritage" {
				extends, implements = parseHeritage(w.text(c))
			}
		}
	}

	classDef := &semantic.ClassDef{
		Extends:    extends,
		Implements: implements,
		Decorators: decorators,
		IsExported: exported,
	}
	d := &semantic.Definition{
		Kind:            semantic.DefClass,
		SymbolID:        symbolID(semantic.DefClass, name, loc),
		Name:            name,
		DefiningScopeID: scope,
		Location:        loc,
		Class:           classDef,
	}

	if body != nil {
		w.extractClassBody(body, classScope, classDef)
	}
	w.index.AddDefinition(d)
}

// parseHeritage splits a class_heritage node's text into "extends X" and
// "implements A, B" components. TypeScript allows both on one class;
// plain JS only ever has extends.
func parseHeritage(text string) (extends, implements []string) {
	text = strings.TrimSpace(text)
	implIdx := strings.Index(text, "implements")
	extPart := text
	if implIdx != -1 {
		extPart = text[:implIdx]
		implPart := strings.TrimSpace(text[implIdx+len("implements"):])
		for _, name := range strings.Split(implPart, ",") {
			if n := strings.TrimSpace(name); n != "" {
				implements = append(implements, n)
			}
		}
	}
	extPart = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(extPart), "extends"))
	if extPart != "" {
		extends = append(extends, strings.TrimSpace(strings.Split(extPart, "<")[0]))
	}
	return extends, implements
}

func (w *javascriptWalker) extractClassBody(body *sitter.Node, classScope ids.ScopeId, classDef *semantic.ClassDef) {
	var decorators []string
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "decorator":
			decorators = append(decorators, trimDecoratorName(w.text(decoratorTarget(member))))
			continue
		case "method_definition":
			w.extractMethod(member, classScope, classDef, decorators)
		case "field_definition", "public_field_definition":
			w.extractField(member, classScope, classDef, decorators)
		default:
			w.walk(member, classScope, nil)
		}
		decorators = nil
	}
}

func isConstructorName(name string) bool { return name == "constructor" }

func (w *javascriptWalker) extractMethod(n *sitter.Node, classScope ids.ScopeId, classDef *semantic.ClassDef, decorators []string) {
	nameNode := n.ChildByFieldName("name")
	name := ids.SymbolName(w.text(nameNode))
	body := n.ChildByFieldName("body")
	loc := w.loc(n)
	static := hasModifier(n, "static")
	params := w.extractParameters(n.ChildByFieldName("parameters"))

	if isConstructorName(string(name)) {
		sid := symbolID(semantic.DefConstructor, name, loc)
		d := &semantic.Definition{
			Kind: semantic.DefConstructor, SymbolID: sid, Name: name,
			DefiningScopeID: classScope, Location: loc,
			Constructor: &semantic.ConstructorDef{Parameters: params},
		}
		w.index.AddDefinition(d)
		classDef.Constructors = append(classDef.Constructors, sid)
		if body != nil {
			w.walk(body, w.bodyScope(body), nil)
		}
		return
	}

	methodScope := w.bodyScope(body)
	var bodyScopePtr *ids.ScopeId
	if body != nil {
		bodyScopePtr = &methodScope
	}
	sid := symbolID(semantic.DefMethod, name, loc)
	d := &semantic.Definition{
		Kind: semantic.DefMethod, SymbolID: sid, Name: name,
		DefiningScopeID: classScope, Location: loc,
		Method: &semantic.MethodDef{Parameters: params, BodyScopeID: bodyScopePtr, Decorators: decorators, Static: static},
	}
	w.index.AddDefinition(d)
	classDef.Methods = append(classDef.Methods, sid)
	if body != nil {
		w.walk(body, methodScope, nil)
	}
}

func (w *javascriptWalker) extractField(n *sitter.Node, classScope ids.ScopeId, classDef *semantic.ClassDef, decorators []string) {
	nameNode := n.ChildByFieldName("property")
	if nameNode == nil {
		nameNode = n.ChildByFieldName("name")
	}
	name := ids.SymbolName(w.text(nameNode))
	loc := w.loc(n)
	var typeText, initText string
	if t := n.ChildByFieldName("type"); t != nil {
		typeText = w.text(t)
	}
	if v := n.ChildByFieldName("value"); v != nil {
		initText = w.text(v)
	}
	sid := symbolID(semantic.DefProperty, name, loc)
	d := &semantic.Definition{
		Kind: semantic.DefProperty, SymbolID: sid, Name: name,
		DefiningScopeID: classScope, Location: loc,
		Property: &semantic.PropertyDef{Type: typeText, InitialValue: initText},
	}
	w.index.AddDefinition(d)
	classDef.Properties = append(classDef.Properties, sid)
	_ = decorators
}

func hasModifier(n *sitter.Node, keyword string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && c.Type() == keyword {
			return true
		}
	}
	return false
}

func isExported(n *sitter.Node) bool {
	parent := n.Parent()
	return parent != nil && (parent.Type() == "export_statement" || parent.Type() == "export_default_declaration")
}

func (w *javascriptWalker) extractInterface(n *sitter.Node, scope ids.ScopeId) {
	nameNode := n.ChildByFieldName("name")
	name := ids.SymbolName(w.text(nameNode))
	loc := w.loc(n)
	var extends []string
	if ext := n.ChildByFieldName("extends"); ext != nil {
		for _, part := range strings.Split(strings.TrimPrefix(w.text(ext), "extends"), ",") {
			if p := strings.TrimSpace(part); p != "" {
				extends = append(extends, p)
			}
		}
	}
	iface := &semantic.InterfaceDef{Extends: extends}
	d := &semantic.Definition{
		Kind: semantic.DefInterface, SymbolID: symbolID(semantic.DefInterface, name, loc),
		Name: name, DefiningScopeID: scope, Location: loc, Interface: iface,
	}
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(i)
			switch member.Type() {
			case "method_signature":
				w.extractInterfaceMethod(member, scope, iface)
			case "property_signature":
				w.extractInterfaceProperty(member, scope, iface)
			}
		}
	}
	w.index.AddDefinition(d)
}

func (w *javascriptWalker) extractInterfaceMethod(n *sitter.Node, scope ids.ScopeId, iface *semantic.InterfaceDef) {
	nameNode := n.ChildByFieldName("name")
	name := ids.SymbolName(w.text(nameNode))
	loc := w.loc(n)
	params := w.extractParameters(n.ChildByFieldName("parameters"))
	sid := symbolID(semantic.DefMethod, name, loc)
	d := &semantic.Definition{
		Kind: semantic.DefMethod, SymbolID: sid, Name: name, DefiningScopeID: scope, Location: loc,
		Method: &semantic.MethodDef{Parameters: params},
	}
	w.index.AddDefinition(d)
	iface.Methods = append(iface.Methods, sid)
}

func (w *javascriptWalker) extractInterfaceProperty(n *sitter.Node, scope ids.ScopeId, iface *semantic.InterfaceDef) {
	nameNode := n.ChildByFieldName("name")
	name := ids.SymbolName(w.text(nameNode))
	loc := w.loc(n)
	var typeText string
	if t := n.ChildByFieldName("type"); t != nil {
		typeText = w.text(t)
	}
	sid := symbolID(semantic.DefProperty, name, loc)
	d := &semantic.Definition{
		Kind: semantic.DefProperty, SymbolID: sid, Name: name, DefiningScopeID: scope, Location: loc,
		Property: &semantic.PropertyDef{Type: typeText},
	}
	w.index.AddDefinition(d)
	iface.Properties = append(iface.Properties, sid)
}

func (w *javascriptWalker) extractTypeAlias(n *sitter.Node, scope ids.ScopeId) {
	nameNode := n.ChildByFieldName("name")
	name := ids.SymbolName(w.text(nameNode))
	loc := w.loc(n)
	value := n.ChildByFieldName("value")
	d := &semantic.Definition{
		Kind: semantic.DefTypeAlias, SymbolID: symbolID(semantic.DefTypeAlias, name, loc),
		Name: name, DefiningScopeID: scope, Location: loc,
		TypeAlias: &semantic.TypeAliasDef{TypeExpression: w.text(value)},
	}
	w.index.AddDefinition(d)
}

func (w *javascriptWalker) extractEnum(n *sitter.Node, scope ids.ScopeId) {
	nameNode := n.ChildByFieldName("name")
	name := ids.SymbolName(w.text(nameNode))
	loc := w.loc(n)
	var members []string
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(i)
			if id := member.ChildByFieldName("name"); id != nil {
				members = append(members, w.text(id))
			} else {
				members = append(members, w.text(member))
			}
		}
	}
	d := &semantic.Definition{
		Kind: semantic.DefEnum, SymbolID: symbolID(semantic.DefEnum, name, loc),
		Name: name, DefiningScopeID: scope, Location: loc,
		Enum: &semantic.EnumDef{Members: members},
	}
	w.index.AddDefinition(d)
}

func (w *javascriptWalker) extractFunctionDeclaration(n *sitter.Node, scope ids.ScopeId, decorators []string) {
	nameNode := n.ChildByFieldName("name")
	name := ids.SymbolName(w.text(nameNode))
	body := n.ChildByFieldName("body")
	loc := w.loc(n)
	fnScope := w.bodyScope(body)
	sig := Signature(w, n)

	d := &semantic.Definition{
		Kind: semantic.DefFunction, SymbolID: symbolID(semantic.DefFunction, name, loc),
		Name: name, DefiningScopeID: scope, Location: loc,
		Function: &semantic.FunctionDef{Signature: sig, BodyScopeID: fnScope, IsExported: isExported(n), Decorators: decorators},
	}
	w.index.AddDefinition(d)
	if body != nil {
		w.walk(body, fnScope, nil)
	}
}

// extractVariableDeclarator handles `const x = ...`. Function/arrow
// values become DefFunction (named after the variable); object literals
// holding functions or identifiers become a FunctionCollection (array
// literals are not checked); everything else is a plain
// variable/constant.
func (w *javascriptWalker) extractVariableDeclarator(n *sitter.Node, scope ids.ScopeId) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	value := n.ChildByFieldName("value")
	loc := w.loc(n)
	var typeAnnotation string
	if t := n.ChildByFieldName("type"); t != nil {
		typeAnnotation = strings.TrimSpace(strings.TrimPrefix(w.text(t), ":"))
	}

	if nameNode.Type() != "identifier" {
		// Destructuring pattern: spec.md's documented non-expansion —
		// store the literal textual pattern as a single variable name.
		name := ids.SymbolName(w.text(nameNode))
		d := &semantic.Definition{
			Kind: semantic.DefVariable, SymbolID: symbolID(semantic.DefVariable, name, loc),
			Name: name, DefiningScopeID: scope, Location: loc,
			Variable: &semantic.VariableDef{InitialValue: w.text(value), TypeAnnotation: typeAnnotation},
		}
		w.index.AddDefinition(d)
		if value != nil {
			w.walk(value, scope, nil)
		}
		return
	}

	name := ids.SymbolName(w.text(nameNode))
	isConst := declarationKeyword(n) == "const"

	if value != nil && (value.Type() == "function_expression" || value.Type() == "arrow_function" || value.Type() == "generator_function") {
		fnScope := w.bodyScope(value.ChildByFieldName("body"))
		sig := Signature(w, value)
		d := &semantic.Definition{
			Kind: semantic.DefFunction, SymbolID: symbolID(semantic.DefFunction, name, loc),
			Name: name, DefiningScopeID: scope, Location: loc,
			Function: &semantic.FunctionDef{Signature: sig, BodyScopeID: fnScope},
		}
		w.index.AddDefinition(d)
		if vn := value.ChildByFieldName("name"); vn != nil {
			// Named function expression: self-reference inside its own body.
			w.addInnerFunctionName(fnScope, vn)
		}
		if body := value.ChildByFieldName("body"); body != nil {
			w.walk(body, fnScope, nil)
		}
		return
	}

	if value != nil && value.Type() == "object" {
		if fc, ok := w.tryFunctionCollectionObject(value, name, loc); ok {
			kind := semantic.DefVariable
			if isConst {
				kind = semantic.DefConstant
			}
			d := &semantic.Definition{
				Kind: kind, SymbolID: symbolID(kind, name, loc), Name: name,
				DefiningScopeID: scope, Location: loc,
				Variable: &semantic.VariableDef{InitialValue: w.text(value), TypeAnnotation: typeAnnotation, FunctionCollection: fc},
			}
			w.index.AddDefinition(d)
			return
		}
	}

	kind := semantic.DefVariable
	if isConst {
		kind = semantic.DefConstant
	}
	var collectionSource ids.SymbolName
	if value != nil && value.Type() == "identifier" {
		// Possible alias of another FunctionCollection (`const h = HANDLERS`);
		// Phase 2 resolves whether this name actually names one.
		collectionSource = ids.SymbolName(w.text(value))
	}
	d := &semantic.Definition{
		Kind: kind, SymbolID: symbolID(kind, name, loc), Name: name,
		DefiningScopeID: scope, Location: loc,
		Variable: &semantic.VariableDef{InitialValue: w.text(value), TypeAnnotation: typeAnnotation, CollectionSource: collectionSource},
	}
	w.index.AddDefinition(d)
	if value != nil {
		w.walk(value, scope, nil)
	}
}

func (w *javascriptWalker) addInnerFunctionName(fnScope ids.ScopeId, nameNode *sitter.Node) {
	name := ids.SymbolName(w.text(nameNode))
	loc := w.loc(nameNode)
	d := &semantic.Definition{
		Kind: semantic.DefFunction, SymbolID: symbolID(semantic.DefFunction, name, loc),
		Name: name, DefiningScopeID: fnScope, Location: loc,
		Function: &semantic.FunctionDef{BodyScopeID: fnScope},
	}
	w.index.AddDefinition(d)
}

// tryFunctionCollectionObject builds a FunctionCollection for `object`
// when at least one property value is a function literal or a bare
// identifier; other property values are skipped — the syntactic trigger
// set spec.md section 9 leaves as a per-language decision.
func (w *javascriptWalker) tryFunctionCollectionObject(object *sitter.Node, varName ids.SymbolName, varLoc ids.Location) (*semantic.FunctionCollection, bool) {
	fc := &semantic.FunctionCollection{SymbolID: symbolID(semantic.DefVariable, varName, varLoc)}
	found := false
	for i := 0; i < int(object.NamedChildCount()); i++ {
		pair := object.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		value := pair.ChildByFieldName("value")
		if value == nil {
			continue
		}
		switch value.Type() {
		case "function_expression", "arrow_function", "generator_function":
			keyNode := pair.ChildByFieldName("key")
			name := ids.SymbolName(w.text(keyNode))
			loc := w.loc(value)
			fnScope := w.bodyScope(value.ChildByFieldName("body"))
			sid := symbolID(semantic.DefFunction, name, loc)
			d := &semantic.Definition{
				Kind: semantic.DefFunction, SymbolID: sid, Name: name, DefiningScopeID: fnScope, Location: loc,
				Function: &semantic.FunctionDef{BodyScopeID: fnScope},
			}
			w.index.AddDefinition(d)
			fc.StoredFunctions = append(fc.StoredFunctions, sid)
			found = true
			if body := value.ChildByFieldName("body"); body != nil {
				w.walk(body, fnScope, nil)
			}
		case "identifier":
			fc.StoredReferences = append(fc.StoredReferences, ids.SymbolName(w.text(value)))
			found = true
		}
	}
	return fc, found
}

func declarationKeyword(declarator *sitter.Node) string {
	parent := declarator.Parent()
	if parent == nil {
		return ""
	}
	if kw := parent.Child(0); kw != nil {
		return kw.Type()
	}
	return ""
}

func (w *javascriptWalker) extractParameters(paramList *sitter.Node) []semantic.Parameter {
	if paramList == nil {
		return nil
	}
	var params []semantic.Parameter
	for i := 0; i < int(paramList.NamedChildCount()); i++ {
		p := paramList.NamedChild(i)
		var name, typ, def string
		switch p.Type() {
		case "identifier":
			name = w.text(p)
		case "required_parameter", "optional_parameter":
			pat := p.ChildByFieldName("pattern")
			name = w.text(pat)
			if t := p.ChildByFieldName("type"); t != nil {
				typ = w.text(t)
			}
			if v := p.ChildByFieldName("value"); v != nil {
				def = w.text(v)
			}
		case "assignment_pattern":
			left := p.ChildByFieldName("left")
			right := p.ChildByFieldName("right")
			name = w.text(left)
			def = w.text(right)
		case "rest_pattern":
			name = w.text(p)
		default:
			name = w.text(p)
		}
		params = append(params, semantic.Parameter{Name: name, Type: typ, DefaultValue: def})
	}
	return params
}

// Signature builds a function/method Signature from a node that has
// "parameters" and optionally "return_type" fields.
func Signature(w *javascriptWalker, n *sitter.Node) semantic.Signature {
	params := w.extractParameters(n.ChildByFieldName("parameters"))
	var ret string
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		ret = strings.TrimPrefix(w.text(rt), ":")
		ret = strings.TrimSpace(ret)
	}
	return semantic.Signature{Parameters: params, ReturnType: ret}
}

// ---- References -------------------------------------------------------

func (w *javascriptWalker) extractCall(n *sitter.Node, scope ids.ScopeId) {
	callee := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")
	loc := w.loc(n)

	if callee != nil && callee.Type() == "member_expression" {
		root, chain, dynamic := splitPropertyChain(callee, w.source, jsChainKinds, "object", "property")
		optional := strings.Contains(w.text(callee), "?.")
		name := ids.SymbolName("")
		if len(chain) > 0 {
			name = ids.SymbolName(chain[len(chain)-1])
		}

		if root != nil && (root.Type() == "this" || root.Type() == "super") {
			kw := semantic.SelfThis
			if root.Type() == "super" {
				kw = semantic.SelfSuper
			}
			w.index.AddReference(&semantic.Reference{
				Kind: semantic.RefSelfCall, Name: name, Location: loc, ScopeID: scope,
				SelfReferenceCall: &semantic.SelfReferenceCall{Keyword: kw, PropertyChain: chain},
			})
		} else if !dynamic {
			receiverLoc := loc
			if obj := callee.ChildByFieldName("object"); obj != nil {
				receiverLoc = w.loc(obj)
			}
			w.index.AddReference(&semantic.Reference{
				Kind: semantic.RefMethodCall, Name: name, Location: loc, ScopeID: scope,
				MethodCall: &semantic.MethodCall{ReceiverLocation: receiverLoc, PropertyChain: chain, OptionalChaining: optional},
			})
		}
		if root != nil {
			w.walk(root, scope, nil)
		}
	} else if callee != nil && callee.Type() == "identifier" {
		name := ids.SymbolName(w.text(callee))
		w.index.AddReference(&semantic.Reference{
			Kind: semantic.RefFunctionCall, Name: name, Location: loc, ScopeID: scope,
			FunctionCall: &semantic.FunctionCall{},
		})
	} else if callee != nil {
		w.walk(callee, scope, nil)
	}

	if args != nil {
		w.extractCallArguments(args, scope, loc)
	}
}

// extractCallArguments walks call arguments, marking any anonymous
// function/arrow literal passed positionally as a callback candidate
// (spec.md section 4.9's callback invocation synthesis).
func (w *javascriptWalker) extractCallArguments(args *sitter.Node, scope ids.ScopeId, callLoc ids.Location) {
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if (arg.Type() == "function_expression" || arg.Type() == "arrow_function") && arg.ChildByFieldName("name") == nil {
			w.extractAnonymousCallback(arg, scope, callLoc)
			continue
		}
		w.walk(arg, scope, nil)
	}
}

func (w *javascriptWalker) extractAnonymousCallback(n *sitter.Node, scope ids.ScopeId, callLoc ids.Location) {
	body := n.ChildByFieldName("body")
	fnScope := w.bodyScope(body)
	loc := w.loc(n)
	name := ids.SymbolName("<anonymous>")
	sig := Signature(w, n)
	d := &semantic.Definition{
		Kind: semantic.DefFunction, SymbolID: symbolID(semantic.DefFunction, name, loc),
		Name: name, DefiningScopeID: scope, Location: loc,
		Function: &semantic.FunctionDef{
			Signature:   sig,
			BodyScopeID: fnScope,
			CallbackContext: &semantic.CallbackContext{
				IsCallback:       true,
				ReceiverLocation: callLoc,
			},
		},
	}
	w.index.AddDefinition(d)
	if body != nil {
		w.walk(body, fnScope, nil)
	}
}

func (w *javascriptWalker) extractNew(n *sitter.Node, scope ids.ScopeId) {
	callee := n.ChildByFieldName("constructor")
	args := n.ChildByFieldName("arguments")
	loc := w.loc(n)
	name := ids.SymbolName(w.text(callee))

	var target *ids.Location
	if parent := n.Parent(); parent != nil {
		switch parent.Type() {
		case "variable_declarator":
			if nameNode := parent.ChildByFieldName("name"); nameNode != nil {
				l := w.loc(nameNode)
				target = &l
			}
		case "assignment_expression":
			if left := parent.ChildByFieldName("left"); left != nil {
				l := w.loc(left)
				target = &l
			}
		}
	}

	w.index.AddReference(&semantic.Reference{
		Kind: semantic.RefConstructorCall, Name: name, Location: loc, ScopeID: scope,
		ConstructorCall: &semantic.ConstructorCall{ConstructTarget: target},
	})
	if args != nil {
		w.extractCallArguments(args, scope, loc)
	}
}

func (w *javascriptWalker) extractAssignment(n *sitter.Node, scope ids.ScopeId) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	loc := w.loc(n)
	op := w.text(n.ChildByFieldName("operator"))
	if op == "" {
		op = "="
	}
	if left != nil {
		targetLoc := w.loc(left)
		name := ids.SymbolName(w.text(left))
		w.index.AddReference(&semantic.Reference{
			Kind: semantic.RefAssignment, Name: name, Location: loc, ScopeID: scope,
			Assignment: &semantic.Assignment{TargetLocation: targetLoc, AssignmentType: semantic.AssignmentType(op)},
		})
		if left.Type() == "identifier" {
			// Augmented/chained assignment emits both a write and a read
			// at the target (spec.md 4.3 "Writes vs reads").
			w.index.AddReference(&semantic.Reference{
				Kind: semantic.RefVariableRef, Name: name, Location: targetLoc, ScopeID: scope,
				VariableReference: &semantic.VariableReference{AccessType: semantic.AccessWrite},
			})
			chained := (right != nil && right.Type() == "assignment_expression") ||
				(n.Parent() != nil && n.Parent().Type() == "assignment_expression")
			if op != "=" || chained {
				w.index.AddReference(&semantic.Reference{
					Kind: semantic.RefVariableRef, Name: name, Location: targetLoc, ScopeID: scope,
					VariableReference: &semantic.VariableReference{AccessType: semantic.AccessRead},
				})
			}
		} else {
			w.walk(left, scope, nil)
		}
	}
	if right != nil {
		w.walk(right, scope, nil)
	}
}

func (w *javascriptWalker) extractStandaloneMemberExpression(n *sitter.Node, scope ids.ScopeId) {
	if parent := n.Parent(); parent != nil {
		switch parent.Type() {
		case "call_expression":
			if fn := parent.ChildByFieldName("function"); fn == n {
				return // handled by extractCall
			}
		case "assignment_expression":
			if l := parent.ChildByFieldName("left"); l == n {
				w.walkMemberObject(n, scope)
				return
			}
		}
	}

	_, chain, dynamic := splitPropertyChain(n, w.source, jsChainKinds, "object", "property")
	if dynamic || len(chain) == 0 {
		w.walkMemberObject(n, scope)
		return
	}
	loc := w.loc(n)
	optional := strings.Contains(w.text(n), "?.")
	name := ids.SymbolName(chain[len(chain)-1])
	receiverLoc := loc
	if obj := n.ChildByFieldName("object"); obj != nil {
		receiverLoc = w.loc(obj)
	}

	// The callee case is already handled by extractCall before this
	// function is ever reached, so a this/super root here is always a
	// plain read, not a self_reference_call.
	w.index.AddReference(&semantic.Reference{
		Kind: semantic.RefPropertyAccess, Name: name, Location: loc, ScopeID: scope,
		PropertyAccess: &semantic.PropertyAccess{ReceiverLocation: receiverLoc, PropertyChain: chain, AccessType: semantic.AccessProperty, IsOptionalChain: optional},
	})
	w.walkMemberObject(n, scope)
}

func (w *javascriptWalker) walkMemberObject(n *sitter.Node, scope ids.ScopeId) {
	if obj := n.ChildByFieldName("object"); obj != nil && obj.Type() != "this" && obj.Type() != "super" && obj.Type() != "identifier" {
		w.walk(obj, scope, nil)
	}
}
