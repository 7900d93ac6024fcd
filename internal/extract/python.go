package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/shivasurya/semindex/internal/capture"
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/semantic"
)

var pyChainKinds = map[string]bool{
	"attribute": true,
}

type pythonWalker struct {
	*ctx
}

// WalkPython extracts definitions and references from a parsed Python
// file into idx, using the scope tree already built for the same tree.
func WalkPython(tree *capture.Tree, scopes *semantic.ScopeTree, idx *semantic.SemanticIndex) {
	w := &pythonWalker{ctx: &ctx{file: tree.FilePath, source: tree.Source, scopes: scopes, index: idx, lang: string(tree.Language)}}
	if tree.Root == nil {
		return
	}
	w.walkBody(tree.Root, scopes.RootID, nil)
}

// walkBody iterates the statement children of a module/block node and
// forwards each one to walkStatement, which gathers decorators from
// decorated_definition wrappers.
func (w *pythonWalker) walkBody(n *sitter.Node, scope ids.ScopeId, classDef *semantic.ClassDef) {
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		stmt := n.NamedChild(i)
		w.walkStatement(stmt, scope, classDef)
	}
}

func (w *pythonWalker) walkStatement(stmt *sitter.Node, scope ids.ScopeId, classDef *semantic.ClassDef) {
	switch stmt.Type() {
	case "decorated_definition":
		var decorators []string
		var inner *sitter.Node
		for j := 0; j < int(stmt.NamedChildCount()); j++ {
			c := stmt.NamedChild(j)
			if c.Type() == "decorator" {
				decorators = append(decorators, trimDecoratorName(w.text(decoratorArg(c))))
			} else {
				inner = c
			}
		}
		if inner == nil {
			return
		}
		w.dispatchDefinition(inner, scope, classDef, decorators)

	case "function_definition", "class_definition":
		w.dispatchDefinition(stmt, scope, classDef, nil)

	case "import_statement":
		w.extractImportStatement(stmt, scope)
	case "import_from_statement":
		w.extractImportFrom(stmt, scope)

	case "expression_statement":
		if len(stmt.NamedChildren()) > 0 {
			first := stmt.NamedChild(0)
			switch {
			case first.Type() == "assignment" && classDef != nil:
				w.extractClassProperty(first, scope, classDef)
			case first.Type() == "assignment":
				w.extractAssignment(first, scope, classDef)
			default:
				w.walkExpr(first, scope)
			}
		}

	case "assignment":
		w.extractAssignment(stmt, scope, classDef)

	default:
		w.walkChildren(stmt, scope, classDef)
	}
}

func decoratorArg(n *sitter.Node) *sitter.Node {
	if c := n.NamedChild(0); c != nil {
		return c
	}
	return n
}

func (w *pythonWalker) dispatchDefinition(n *sitter.Node, scope ids.ScopeId, classDef *semantic.ClassDef, decorators []string) {
	switch n.Type() {
	case "function_definition":
		w.extractFunction(n, scope, classDef, decorators)
	case "class_definition":
		w.extractClass(n, scope, decorators)
	}
}

// walkChildren recurses into every named child under the given scope,
// without any statement-level handling — used for constructs (if/for/
// while/try bodies) that don't themselves open a new lexical scope in
// Python but whose contents still need to be walked as statements.
func (w *pythonWalker) walkChildren(n *sitter.Node, scope ids.ScopeId, classDef *semantic.ClassDef) {
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "block":
			w.walkBody(child, scope, classDef)
		case "function_definition", "class_definition", "decorated_definition",
			"import_statement", "import_from_statement", "expression_statement", "assignment":
			w.walkStatement(child, scope, classDef)
		case "call", "attribute":
			w.walkExpr(child, scope)
		default:
			w.walkChildren(child, scope, classDef)
		}
	}
}

func (w *pythonWalker) bodyScope(body *sitter.Node) ids.ScopeId {
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

func (w *pythonWalker) extractFunction(n *sitter.Node, scope ids.ScopeId, classDef *semantic.ClassDef, decorators []string) {
	nameNode := n.ChildByFieldName("name")
	name := ids.SymbolName(w.text(nameNode))
	body := n.ChildByFieldName("body")
	loc := w.loc(n)
	fnScope := w.bodyScope(body)
	params := w.extractParameters(n.ChildByFieldName("parameters"))
	var ret string
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		ret = w.text(rt)
	}

	if classDef != nil && string(name) == "__init__" {
		sid := symbolID(semantic.DefConstructor, name, loc)
		d := &semantic.Definition{
			Kind: semantic.DefConstructor, SymbolID: sid, Name: name,
			DefiningScopeID: scope, Location: loc,
			Constructor: &semantic.ConstructorDef{Parameters: skipSelf(params)},
		}
		w.index.AddDefinition(d)
		classDef.Constructors = append(classDef.Constructors, sid)
		if body != nil {
			w.walkBody(body, fnScope, nil)
		}
		return
	}

	if classDef != nil {
		sid := symbolID(semantic.DefMethod, name, loc)
		static := hasDecoratorNamed(decorators, "staticmethod")
		d := &semantic.Definition{
			Kind: semantic.DefMethod, SymbolID: sid, Name: name,
			DefiningScopeID: scope, Location: loc,
			Method: &semantic.MethodDef{Parameters: skipSelfUnless(params, static), Decorators: decorators, BodyScopeID: &fnScope, Static: static},
		}
		w.index.AddDefinition(d)
		classDef.Methods = append(classDef.Methods, sid)
		if body != nil {
			w.walkBody(body, fnScope, nil)
		}
		return
	}

	d := &semantic.Definition{
		Kind: semantic.DefFunction, SymbolID: symbolID(semantic.DefFunction, name, loc),
		Name: name, DefiningScopeID: scope, Location: loc,
		Function: &semantic.FunctionDef{
			Signature:   semantic.Signature{Parameters: params, ReturnType: ret},
			BodyScopeID: fnScope,
			Decorators:  decorators,
		},
	}
	w.index.AddDefinition(d)
	if body != nil {
		w.walkBody(body, fnScope, nil)
	}
}

func skipSelf(params []semantic.Parameter) []semantic.Parameter {
	if len(params) > 0 && (params[0].Name == "self" || params[0].Name == "cls") {
		return params[1:]
	}
	return params
}

func skipSelfUnless(params []semantic.Parameter, static bool) []semantic.Parameter {
	if static {
		return params
	}
	return skipSelf(params)
}

func (w *pythonWalker) extractParameters(paramList *sitter.Node) []semantic.Parameter {
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
		case "typed_parameter":
			if id := p.NamedChild(0); id != nil {
				name = w.text(id)
			}
			if t := p.ChildByFieldName("type"); t != nil {
				typ = w.text(t)
			}
		case "default_parameter":
			left := p.ChildByFieldName("name")
			right := p.ChildByFieldName("value")
			name = w.text(left)
			def = w.text(right)
		case "typed_default_parameter":
			name = w.text(p.ChildByFieldName("name"))
			if t := p.ChildByFieldName("type"); t != nil {
				typ = w.text(t)
			}
			def = w.text(p.ChildByFieldName("value"))
		case "list_splat_pattern", "dictionary_splat_pattern":
			name = w.text(p)
		default:
			name = w.text(p)
		}
		params = append(params, semantic.Parameter{Name: name, Type: typ, DefaultValue: def})
	}
	return params
}

func (w *pythonWalker) extractClass(n *sitter.Node, scope ids.ScopeId, decorators []string) {
	nameNode := n.ChildByFieldName("name")
	name := ids.SymbolName(w.text(nameNode))
	body := n.ChildByFieldName("body")
	loc := w.loc(n)
	classScope := w.bodyScope(body)

	var extends []string
	if args := n.ChildByFieldName("superclasses"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			arg := args.NamedChild(i)
			if arg.Type() == "identifier" || arg.Type() == "attribute" {
				extends = append(extends, w.text(arg))
			}
		}
	}

	classDef := &semantic.ClassDef{Extends: extends, Decorators: decorators}
	d := &semantic.Definition{
		Kind: semantic.DefClass, SymbolID: symbolID(semantic.DefClass, name, loc),
		Name: name, DefiningScopeID: scope, Location: loc, Class: classDef,
	}

	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			stmt := body.NamedChild(i)
			switch stmt.Type() {
			case "decorated_definition", "function_definition":
				w.walkStatement(stmt, classScope, classDef)
			case "assignment":
				w.extractClassProperty(stmt, classScope, classDef)
			case "expression_statement":
				if named := stmt.NamedChild(0); named != nil && named.Type() == "string" {
					continue // class docstring, not a reference.
				}
				w.walkStatement(stmt, classScope, classDef)
			default:
				w.walkStatement(stmt, classScope, classDef)
			}
		}
	}
	w.index.AddDefinition(d)
}

func (w *pythonWalker) extractClassProperty(n *sitter.Node, classScope ids.ScopeId, classDef *semantic.ClassDef) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || left.Type() != "identifier" {
		w.walkStatement(n, classScope, nil)
		return
	}
	name := ids.SymbolName(w.text(left))
	loc := w.loc(n)
	var typ string
	if t := n.ChildByFieldName("type"); t != nil {
		typ = w.text(t)
	}
	sid := symbolID(semantic.DefProperty, name, loc)
	d := &semantic.Definition{
		Kind: semantic.DefProperty, SymbolID: sid, Name: name, DefiningScopeID: classScope, Location: loc,
		Property: &semantic.PropertyDef{Type: typ, InitialValue: w.text(right)},
	}
	w.index.AddDefinition(d)
	classDef.Properties = append(classDef.Properties, sid)
}

func (w *pythonWalker) extractImportStatement(n *sitter.Node, scope ids.ScopeId) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		part := n.NamedChild(i)
		switch part.Type() {
		case "dotted_name":
			name := ids.SymbolName(w.text(part))
			w.addImport(part, name, "", semantic.ImportNamed, w.text(part), scope)
		case "aliased_import":
			source := w.text(part.ChildByFieldName("name"))
			alias := part.ChildByFieldName("alias")
			w.addImport(alias, ids.SymbolName(w.text(alias)), ids.SymbolName(source), semantic.ImportNamed, source, scope)
		}
	}
}

func (w *pythonWalker) extractImportFrom(n *sitter.Node, scope ids.ScopeId) {
	moduleNode := n.ChildByFieldName("module_name")
	module := w.text(moduleNode)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		part := n.NamedChild(i)
		if part == moduleNode {
			continue
		}
		switch part.Type() {
		case "dotted_name", "identifier":
			name := ids.SymbolName(w.text(part))
			w.addImport(part, name, "", semantic.ImportNamed, module, scope)
		case "aliased_import":
			source := w.text(part.ChildByFieldName("name"))
			alias := part.ChildByFieldName("alias")
			w.addImport(alias, ids.SymbolName(w.text(alias)), ids.SymbolName(source), semantic.ImportNamed, module, scope)
		case "wildcard_import":
			w.addImport(part, ids.SymbolName("*"), "", semantic.ImportNamespace, module, scope)
		}
	}
}

func (w *pythonWalker) addImport(at *sitter.Node, local, original ids.SymbolName, kind semantic.ImportKind, module string, scope ids.ScopeId) {
	loc := w.loc(at)
	d := &semantic.Definition{
		Kind: semantic.DefImport, SymbolID: symbolID(semantic.DefImport, local, loc),
		Name: local, DefiningScopeID: scope, Location: loc,
		Import: &semantic.ImportDef{ImportKind: kind, SourcePath: module, OriginalName: original},
	}
	w.index.AddDefinition(d)
}

// extractAssignment handles top-level/function-body `x = ...`. A dict
// literal of function-valued entries becomes a FunctionCollection; a
// bare lambda/def-reference assignment becomes a function alias;
// anything else is a plain variable/constant (UPPER_CASE -> constant).
func (w *pythonWalker) extractAssignment(n *sitter.Node, scope ids.ScopeId, classDef *semantic.ClassDef) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	loc := w.loc(n)
	if left == nil || left.Type() != "identifier" {
		if right != nil {
			w.walkExpr(right, scope)
		}
		return
	}
	name := ids.SymbolName(w.text(left))
	var typeAnnotation string
	if t := n.ChildByFieldName("type"); t != nil {
		typeAnnotation = w.text(t)
	}

	w.index.AddReference(&semantic.Reference{
		Kind: semantic.RefAssignment, Name: name, Location: loc, ScopeID: scope,
		Assignment: &semantic.Assignment{TargetLocation: w.loc(left), AssignmentType: "="},
	})
	w.index.AddReference(&semantic.Reference{
		Kind: semantic.RefVariableRef, Name: name, Location: w.loc(left), ScopeID: scope,
		VariableReference: &semantic.VariableReference{AccessType: semantic.AccessWrite},
	})

	if right != nil && right.Type() == "dictionary" {
		if fc, ok := w.tryFunctionCollectionDict(right, name, loc); ok {
			kind := constantOrVariable(string(name))
			d := &semantic.Definition{
				Kind: kind, SymbolID: symbolID(kind, name, loc), Name: name, DefiningScopeID: scope, Location: loc,
				Variable: &semantic.VariableDef{InitialValue: w.text(right), TypeAnnotation: typeAnnotation, FunctionCollection: fc},
			}
			w.index.AddDefinition(d)
			return
		}
	}

	kind := constantOrVariable(string(name))
	d := &semantic.Definition{
		Kind: kind, SymbolID: symbolID(kind, name, loc), Name: name, DefiningScopeID: scope, Location: loc,
		Variable: &semantic.VariableDef{InitialValue: w.text(right), TypeAnnotation: typeAnnotation},
	}
	w.index.AddDefinition(d)
	if right != nil {
		w.walkExpr(right, scope)
	}
}

func constantOrVariable(name string) semantic.DefinitionKind {
	if name == strings.ToUpper(name) && strings.ContainsAny(name, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		return semantic.DefConstant
	}
	return semantic.DefVariable
}

func (w *pythonWalker) tryFunctionCollectionDict(dict *sitter.Node, varName ids.SymbolName, varLoc ids.Location) (*semantic.FunctionCollection, bool) {
	fc := &semantic.FunctionCollection{SymbolID: symbolID(semantic.DefVariable, varName, varLoc)}
	found := false
	for i := 0; i < int(dict.NamedChildCount()); i++ {
		pair := dict.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		value := pair.ChildByFieldName("value")
		if value == nil {
			continue
		}
		if value.Type() == "identifier" {
			fc.StoredReferences = append(fc.StoredReferences, ids.SymbolName(w.text(value)))
			found = true
		} else if value.Type() == "lambda" {
			loc := w.loc(value)
			name := ids.SymbolName("<lambda>")
			sid := symbolID(semantic.DefFunction, name, loc)
			bodyScope := w.scopeAt(loc)
			d := &semantic.Definition{
				Kind: semantic.DefFunction, SymbolID: sid, Name: name, DefiningScopeID: bodyScope, Location: loc,
				Function: &semantic.FunctionDef{BodyScopeID: bodyScope},
			}
			w.index.AddDefinition(d)
			fc.StoredFunctions = append(fc.StoredFunctions, sid)
			found = true
		}
	}
	return fc, found
}

// ---- Expressions / references -----------------------------------------

func (w *pythonWalker) walkExpr(n *sitter.Node, scope ids.ScopeId) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "call":
		w.extractCall(n, scope)
	case "attribute":
		w.extractAttribute(n, scope)
	case "lambda":
		body := n.ChildByFieldName("body")
		lambdaScope := w.scopeAt(w.loc(n))
		w.walkExpr(body, lambdaScope)
	default:
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			w.walkExpr(n.NamedChild(i), scope)
		}
	}
}

func (w *pythonWalker) extractCall(n *sitter.Node, scope ids.ScopeId) {
	callee := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")
	loc := w.loc(n)

	if callee != nil && callee.Type() == "attribute" {
		root, chain, dynamic := splitPropertyChain(callee, w.source, pyChainKinds, "object", "attribute")
		if root != nil && (root.Type() == "identifier") && isSelfLike(w.text(root)) {
			kw := SelfKeywordFor(w.text(root))
			w.index.AddReference(&semantic.Reference{
				Kind: semantic.RefSelfCall, Name: ids.SymbolName(lastOrEmpty(chain)), Location: loc, ScopeID: scope,
				SelfReferenceCall: &semantic.SelfReferenceCall{Keyword: kw, PropertyChain: chain},
			})
		} else if !dynamic && len(chain) > 0 {
			receiverLoc := loc
			if obj := callee.ChildByFieldName("object"); obj != nil {
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
		name := w.text(callee)
		// Python has no `new` keyword: a call whose callee is a
		// capitalized bare name is Phase 2's rewrite trigger from
		// function_call to constructor_call (see resolve/calls.go).
		potential := len(name) > 0 && strings.ToUpper(name[:1]) == name[:1]
		w.index.AddReference(&semantic.Reference{
			Kind: semantic.RefFunctionCall, Name: ids.SymbolName(name), Location: loc, ScopeID: scope,
			FunctionCall: &semantic.FunctionCall{PotentialConstructTarget: potential},
		})
	} else if callee != nil {
		w.walkExpr(callee, scope)
	}

	if args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			arg := args.NamedChild(i)
			if arg.Type() == "lambda" {
				body := arg.ChildByFieldName("body")
				lambdaScope := w.scopeAt(w.loc(arg))
				w.walkExpr(body, lambdaScope)
				continue
			}
			w.walkExpr(arg, scope)
		}
	}
}

func isSelfLike(name string) bool { return name == "self" || name == "cls" || name == "super" }

func SelfKeywordFor(name string) semantic.SelfKeyword {
	switch name {
	case "cls":
		return semantic.SelfCls
	case "super":
		return semantic.SelfSuper
	default:
		return semantic.SelfSelf
	}
}

func lastOrEmpty(chain []string) string {
	if len(chain) == 0 {
		return ""
	}
	return chain[len(chain)-1]
}

func (w *pythonWalker) extractAttribute(n *sitter.Node, scope ids.ScopeId) {
	if parent := n.Parent(); parent != nil {
		if parent.Type() == "call" && parent.ChildByFieldName("function") == n {
			return // handled by extractCall
		}
	}
	root, chain, dynamic := splitPropertyChain(n, w.source, pyChainKinds, "object", "attribute")
	if dynamic || len(chain) == 0 {
		if root != nil {
			w.walkExpr(root, scope)
		}
		return
	}
	loc := w.loc(n)
	receiverLoc := loc
	if obj := n.ChildByFieldName("object"); obj != nil {
		receiverLoc = w.loc(obj)
	}
	// The call-callee case is already handled by extractCall above, so
	// reaching here always means a plain read, never a self_reference_call,
	// even when the root is self/cls/super.
	w.index.AddReference(&semantic.Reference{
		Kind: semantic.RefPropertyAccess, Name: ids.SymbolName(chain[len(chain)-1]), Location: loc, ScopeID: scope,
		PropertyAccess: &semantic.PropertyAccess{ReceiverLocation: receiverLoc, PropertyChain: chain, AccessType: semantic.AccessProperty},
	})
	if root != nil {
		w.walkExpr(root, scope)
	}
}
