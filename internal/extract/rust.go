package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/shivasurya/semindex/internal/capture"
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/semantic"
)

var rustChainKinds = map[string]bool{
	"field_expression": true,
}

type rustWalker struct {
	*ctx
	classCache map[string]*semantic.Definition
}

// WalkRust extracts definitions and references from a parsed Rust file
// into idx. Rust has no runtime classes: struct/trait/impl items model
// ClassDef per spec.md's "class-like construct" language mapping — a
// struct contributes properties, its impl blocks contribute methods and
// constructors (associated functions returning Self).
func WalkRust(tree *capture.Tree, scopes *semantic.ScopeTree, idx *semantic.SemanticIndex) {
	w := &rustWalker{ctx: &ctx{file: tree.FilePath, source: tree.Source, scopes: scopes, index: idx, lang: string(tree.Language)}}
	if tree.Root == nil {
		return
	}
	w.walkItems(tree.Root, scopes.RootID)
}

func (w *rustWalker) bodyScope(body *sitter.Node) ids.ScopeId {
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

func (w *rustWalker) walkItems(n *sitter.Node, scope ids.ScopeId) {
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		item := n.NamedChild(i)
		w.walkItem(item, scope, nil)
	}
}

// classRegistry lets impl_item attach methods/constructors to the
// struct/trait Definition already created for the same type name.
type classRegistry = map[string]*semantic.ClassDef

func (w *rustWalker) walkItem(n *sitter.Node, scope ids.ScopeId, classes classRegistry) {
	switch n.Type() {
	case "struct_item":
		w.extractStruct(n, scope)
	case "trait_item":
		w.extractTrait(n, scope)
	case "impl_item":
		w.extractImpl(n, scope)
	case "function_item":
		w.extractFunction(n, scope, nil, false)
	case "use_declaration":
		w.extractUse(n, scope)
	case "let_declaration":
		w.extractLet(n, scope)
	case "mod_item":
		if body := n.ChildByFieldName("body"); body != nil {
			w.walkItems(body, scope)
		}
	case "expression_statement":
		if e := n.NamedChild(0); e != nil {
			w.walkExpr(e, scope)
		}
	case "call_expression", "field_expression":
		w.walkExpr(n, scope)
	default:
		w.walkChildrenGeneric(n, scope)
	}
}

func (w *rustWalker) walkChildrenGeneric(n *sitter.Node, scope ids.ScopeId) {
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "block":
			w.walkItems(child, scope)
		default:
			w.walkItem(child, scope, nil)
		}
	}
}

func (w *rustWalker) extractStruct(n *sitter.Node, scope ids.ScopeId) {
	nameNode := n.ChildByFieldName("name")
	name := ids.SymbolName(w.text(nameNode))
	loc := w.loc(n)
	classDef := &semantic.ClassDef{}
	if body := n.ChildByFieldName("body"); body != nil && body.Type() == "field_declaration_list" {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			field := body.NamedChild(i)
			if field.Type() != "field_declaration" {
				continue
			}
			fNameNode := field.ChildByFieldName("name")
			fName := ids.SymbolName(w.text(fNameNode))
			fLoc := w.loc(field)
			var fType string
			if t := field.ChildByFieldName("type"); t != nil {
				fType = w.text(t)
			}
			sid := symbolID(semantic.DefProperty, fName, fLoc)
			d := &semantic.Definition{
				Kind: semantic.DefProperty, SymbolID: sid, Name: fName, DefiningScopeID: scope, Location: fLoc,
				Property: &semantic.PropertyDef{Type: fType},
			}
			w.index.AddDefinition(d)
			classDef.Properties = append(classDef.Properties, sid)
		}
	}
	d := &semantic.Definition{
		Kind: semantic.DefClass, SymbolID: symbolID(semantic.DefClass, name, loc),
		Name: name, DefiningScopeID: scope, Location: loc, Class: classDef,
	}
	w.index.AddDefinition(d)
	w.structClasses()[string(name)] = d
}

// registry of struct/trait Definitions keyed by type name, scoped to one
// walker instance so impl blocks parsed later in the same file can find
// the struct/trait they extend.
func (w *rustWalker) structClasses() map[string]*semantic.Definition {
	if w.classCache == nil {
		w.classCache = make(map[string]*semantic.Definition)
	}
	return w.classCache
}

func (w *rustWalker) extractTrait(n *sitter.Node, scope ids.ScopeId) {
	nameNode := n.ChildByFieldName("name")
	name := ids.SymbolName(w.text(nameNode))
	loc := w.loc(n)
	body := n.ChildByFieldName("body")
	traitScope := w.bodyScope(body)
	classDef := &semantic.ClassDef{}
	d := &semantic.Definition{
		Kind: semantic.DefClass, SymbolID: symbolID(semantic.DefClass, name, loc),
		Name: name, DefiningScopeID: scope, Location: loc, Class: classDef,
	}
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(i)
			switch member.Type() {
			case "function_item":
				w.extractFunction(member, traitScope, classDef, false)
			case "function_signature_item":
				w.extractFunctionSignature(member, traitScope, classDef)
			}
		}
	}
	w.index.AddDefinition(d)
	w.structClasses()[string(name)] = d
}

func (w *rustWalker) extractImpl(n *sitter.Node, scope ids.ScopeId) {
	typeNode := n.ChildByFieldName("type")
	typeName := w.text(typeNode)
	traitNode := n.ChildByFieldName("trait")

	existing, ok := w.structClasses()[typeName]
	var classDef *semantic.ClassDef
	if ok {
		classDef = existing.Class
	} else {
		// impl block for a type whose struct_item wasn't seen (e.g.
		// defined in another file); synthesize a placeholder class.
		loc := w.loc(n)
		classDef = &semantic.ClassDef{}
		d := &semantic.Definition{
			Kind: semantic.DefClass, SymbolID: symbolID(semantic.DefClass, ids.SymbolName(typeName), loc),
			Name: ids.SymbolName(typeName), DefiningScopeID: scope, Location: loc, Class: classDef,
		}
		w.index.AddDefinition(d)
		w.structClasses()[typeName] = d
	}
	if traitNode != nil {
		classDef.Implements = append(classDef.Implements, w.text(traitNode))
	}

	body := n.ChildByFieldName("body")
	implScope := w.bodyScope(body)
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(i)
			if member.Type() == "function_item" {
				w.extractFunction(member, implScope, classDef, true)
			}
		}
	}
}

// extractFunction handles both free functions (classDef nil) and
// impl-block associated functions/methods. A function is treated as a
// constructor when it has no "self" receiver parameter and its return
// type textually mentions "Self" — Rust's idiomatic `fn new(...) -> Self`.
func (w *rustWalker) extractFunction(n *sitter.Node, scope ids.ScopeId, classDef *semantic.ClassDef, inImpl bool) {
	nameNode := n.ChildByFieldName("name")
	name := ids.SymbolName(w.text(nameNode))
	body := n.ChildByFieldName("body")
	loc := w.loc(n)
	fnScope := w.bodyScope(body)
	params, hasSelf := w.extractParameters(n.ChildByFieldName("parameters"))
	var ret string
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		ret = w.text(rt)
	}

	if inImpl && classDef != nil && !hasSelf && containsSelfType(ret) {
		sid := symbolID(semantic.DefConstructor, name, loc)
		d := &semantic.Definition{
			Kind: semantic.DefConstructor, SymbolID: sid, Name: name, DefiningScopeID: scope, Location: loc,
			Constructor: &semantic.ConstructorDef{Parameters: params},
		}
		w.index.AddDefinition(d)
		classDef.Constructors = append(classDef.Constructors, sid)
		if body != nil {
			w.walkItems(body, fnScope)
		}
		return
	}

	if inImpl && classDef != nil {
		sid := symbolID(semantic.DefMethod, name, loc)
		d := &semantic.Definition{
			Kind: semantic.DefMethod, SymbolID: sid, Name: name, DefiningScopeID: scope, Location: loc,
			Method: &semantic.MethodDef{Parameters: params, BodyScopeID: &fnScope, Static: !hasSelf},
		}
		w.index.AddDefinition(d)
		classDef.Methods = append(classDef.Methods, sid)
		if body != nil {
			w.walkItems(body, fnScope)
		}
		return
	}

	d := &semantic.Definition{
		Kind: semantic.DefFunction, SymbolID: symbolID(semantic.DefFunction, name, loc),
		Name: name, DefiningScopeID: scope, Location: loc,
		Function: &semantic.FunctionDef{Signature: semantic.Signature{Parameters: params, ReturnType: ret}, BodyScopeID: fnScope},
	}
	w.index.AddDefinition(d)
	if body != nil {
		w.walkItems(body, fnScope)
	}
}

func (w *rustWalker) extractFunctionSignature(n *sitter.Node, scope ids.ScopeId, classDef *semantic.ClassDef) {
	nameNode := n.ChildByFieldName("name")
	name := ids.SymbolName(w.text(nameNode))
	loc := w.loc(n)
	params, _ := w.extractParameters(n.ChildByFieldName("parameters"))
	sid := symbolID(semantic.DefMethod, name, loc)
	d := &semantic.Definition{
		Kind: semantic.DefMethod, SymbolID: sid, Name: name, DefiningScopeID: scope, Location: loc,
		Method: &semantic.MethodDef{Parameters: params},
	}
	w.index.AddDefinition(d)
	classDef.Methods = append(classDef.Methods, sid)
}

func containsSelfType(ret string) bool {
	return len(ret) > 0 && (ret == "Self" || ret == "-> Self" || containsWord(ret, "Self"))
}

func containsWord(s, word string) bool {
	for i := 0; i+len(word) <= len(s); i++ {
		if s[i:i+len(word)] == word {
			before := i == 0 || !isIdentChar(s[i-1])
			after := i+len(word) == len(s) || !isIdentChar(s[i+len(word)])
			if before && after {
				return true
			}
		}
	}
	return false
}

func isIdentChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (w *rustWalker) extractParameters(paramList *sitter.Node) ([]semantic.Parameter, bool) {
	if paramList == nil {
		return nil, false
	}
	var params []semantic.Parameter
	hasSelf := false
	for i := 0; i < int(paramList.NamedChildCount()); i++ {
		p := paramList.NamedChild(i)
		if p.Type() == "self_parameter" {
			hasSelf = true
			continue
		}
		if p.Type() != "parameter" {
			continue
		}
		pattern := p.ChildByFieldName("pattern")
		typeNode := p.ChildByFieldName("type")
		params = append(params, semantic.Parameter{Name: w.text(pattern), Type: w.text(typeNode)})
	}
	return params, hasSelf
}

func (w *rustWalker) extractUse(n *sitter.Node, scope ids.ScopeId) {
	arg := n.ChildByFieldName("argument")
	if arg == nil {
		return
	}
	w.walkUseTree(arg, scope, "")
}

// walkUseTree handles `use a::b::{c, d as e}` forms, emitting one import
// Definition per bound local name.
func (w *rustWalker) walkUseTree(n *sitter.Node, scope ids.ScopeId, prefix string) {
	switch n.Type() {
	case "scoped_identifier":
		path := w.text(n)
		last := path
		if idx := lastSep(path); idx != -1 {
			last = path[idx+2:]
		}
		w.addUseImport(n, ids.SymbolName(last), path, scope)
	case "identifier":
		w.addUseImport(n, ids.SymbolName(w.text(n)), joinUsePath(prefix, w.text(n)), scope)
	case "use_as_clause":
		path := n.ChildByFieldName("path")
		alias := n.ChildByFieldName("alias")
		w.addUseImport(alias, ids.SymbolName(w.text(alias)), joinUsePath(prefix, w.text(path)), scope)
	case "use_list":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			w.walkUseTree(n.NamedChild(i), scope, prefix)
		}
	case "scoped_use_list":
		p := n.ChildByFieldName("path")
		list := n.ChildByFieldName("list")
		newPrefix := joinUsePath(prefix, w.text(p))
		if list != nil {
			w.walkUseTree(list, scope, newPrefix)
		}
	case "use_wildcard":
		w.addUseImport(n, ids.SymbolName("*"), prefix, scope)
	}
}

func joinUsePath(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	return prefix + "::" + seg
}

func lastSep(s string) int {
	for i := len(s) - 2; i >= 0; i-- {
		if s[i] == ':' && i+1 < len(s) && s[i+1] == ':' {
			return i
		}
	}
	return -1
}

func (w *rustWalker) addUseImport(at *sitter.Node, local ids.SymbolName, path string, scope ids.ScopeId) {
	loc := w.loc(at)
	d := &semantic.Definition{
		Kind: semantic.DefImport, SymbolID: symbolID(semantic.DefImport, local, loc),
		Name: local, DefiningScopeID: scope, Location: loc,
		Import: &semantic.ImportDef{ImportKind: semantic.ImportNamed, SourcePath: path},
	}
	w.index.AddDefinition(d)
}

func (w *rustWalker) extractLet(n *sitter.Node, scope ids.ScopeId) {
	pattern := n.ChildByFieldName("pattern")
	value := n.ChildByFieldName("value")
	loc := w.loc(n)
	if pattern == nil || pattern.Type() != "identifier" {
		if value != nil {
			w.walkExpr(value, scope)
		}
		return
	}
	name := ids.SymbolName(w.text(pattern))
	var typ string
	if t := n.ChildByFieldName("type"); t != nil {
		typ = w.text(t)
	}
	d := &semantic.Definition{
		Kind: semantic.DefVariable, SymbolID: symbolID(semantic.DefVariable, name, loc),
		Name: name, DefiningScopeID: scope, Location: loc,
		Variable: &semantic.VariableDef{InitialValue: w.text(value)},
	}
	_ = typ
	w.index.AddDefinition(d)
	if value != nil {
		w.walkExpr(value, scope)
	}
}

// ---- Expressions --------------------------------------------------------

func (w *rustWalker) walkExpr(n *sitter.Node, scope ids.ScopeId) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "call_expression":
		w.extractCall(n, scope)
	case "field_expression":
		w.extractField(n, scope)
	case "block":
		w.walkItems(n, scope)
	case "closure_expression":
		body := n.ChildByFieldName("body")
		closureScope := w.scopeAt(w.loc(n))
		w.walkExpr(body, closureScope)
	default:
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			w.walkExpr(n.NamedChild(i), scope)
		}
	}
}

func (w *rustWalker) extractCall(n *sitter.Node, scope ids.ScopeId) {
	callee := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")
	loc := w.loc(n)

	if callee != nil && callee.Type() == "field_expression" {
		root, chain, dynamic := splitPropertyChain(callee, w.source, rustChainKinds, "value", "field")
		if !dynamic && len(chain) > 0 {
			receiverLoc := loc
			if obj := callee.ChildByFieldName("value"); obj != nil {
				receiverLoc = w.loc(obj)
			}
			w.index.AddReference(&semantic.Reference{
				Kind: semantic.RefMethodCall, Name: ids.SymbolName(chain[len(chain)-1]), Location: loc, ScopeID: scope,
				MethodCall: &semantic.MethodCall{ReceiverLocation: receiverLoc, PropertyChain: chain},
			})
		}
		if root != nil {
			w.walkExpr(root, scope)
		}
	} else if callee != nil && callee.Type() == "identifier" {
		w.index.AddReference(&semantic.Reference{
			Kind: semantic.RefFunctionCall, Name: ids.SymbolName(w.text(callee)), Location: loc, ScopeID: scope,
			FunctionCall: &semantic.FunctionCall{},
		})
	} else if callee != nil && callee.Type() == "scoped_identifier" {
		// Type::new(...) associated-function call: the spec's
		// constructor_call rewrite applies when the path's final
		// segment looks like a constructor name.
		path := w.text(callee)
		name := path
		if idx := lastSep(path); idx != -1 {
			name = path[idx+2:]
		}
		if name == "new" || containsWord(name, "new") {
			w.index.AddReference(&semantic.Reference{
				Kind: semantic.RefConstructorCall, Name: ids.SymbolName(name), Location: loc, ScopeID: scope,
				ConstructorCall: &semantic.ConstructorCall{},
			})
		} else {
			w.index.AddReference(&semantic.Reference{
				Kind: semantic.RefFunctionCall, Name: ids.SymbolName(name), Location: loc, ScopeID: scope,
				FunctionCall: &semantic.FunctionCall{},
			})
		}
	}

	if args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			w.walkExpr(args.NamedChild(i), scope)
		}
	}
}

func (w *rustWalker) extractField(n *sitter.Node, scope ids.ScopeId) {
	if parent := n.Parent(); parent != nil && parent.Type() == "call_expression" && parent.ChildByFieldName("function") == n {
		return
	}
	root, chain, dynamic := splitPropertyChain(n, w.source, rustChainKinds, "value", "field")
	if dynamic || len(chain) == 0 {
		if root != nil {
			w.walkExpr(root, scope)
		}
		return
	}
	loc := w.loc(n)
	receiverLoc := loc
	if obj := n.ChildByFieldName("value"); obj != nil {
		receiverLoc = w.loc(obj)
	}
	// The call-callee case is already handled by extractCall above, so
	// reaching here always means a plain field read, never a
	// self_reference_call, even when the root is self.
	w.index.AddReference(&semantic.Reference{
		Kind: semantic.RefPropertyAccess, Name: ids.SymbolName(chain[len(chain)-1]), Location: loc, ScopeID: scope,
		PropertyAccess: &semantic.PropertyAccess{ReceiverLocation: receiverLoc, PropertyChain: chain, AccessType: semantic.AccessProperty},
	})
	if root != nil {
		w.walkExpr(root, scope)
	}
}
