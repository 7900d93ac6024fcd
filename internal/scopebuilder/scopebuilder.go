// Package scopebuilder builds the per-file scope tree described in
// spec.md section 4.1: a strictly nested tree of module/class/function/
// method/constructor/block scopes, each with a stable ScopeId.
package scopebuilder

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/shivasurya/semindex/internal/capture"
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/semantic"
)

// rule describes how a syntax node kind introduces a scope.
type rule struct {
	scopeType   semantic.ScopeType
	bodyField   string // when set, the scope's Location is the named child's range, not the node's own range
	nameVisible bool   // when true, the scope's Location is the whole node's range so a preceding name child falls inside it (named function expressions, invariant iii)
}

var jsRules = map[string]rule{
	"class_declaration":  {scopeType: semantic.ScopeClass, bodyField: "body"},
	"class":              {scopeType: semantic.ScopeClass, bodyField: "body"},
	"function_declaration": {scopeType: semantic.ScopeFunction, bodyField: "body"},
	"generator_function_declaration": {scopeType: semantic.ScopeFunction, bodyField: "body"},
	"arrow_function":      {scopeType: semantic.ScopeFunction, bodyField: "body"},
	"method_definition":   {scopeType: semantic.ScopeMethod, bodyField: "body"},
}

// jsNamedExprs are node kinds that, when they carry a "name" child, must
// keep that name inside their own scope range (named function expressions
// self-referring from within their body).
var jsNamedExprs = map[string]semantic.ScopeType{
	"function_expression":           semantic.ScopeFunction,
	"generator_function":            semantic.ScopeFunction,
}

var jsBlockStatements = map[string][]string{
	"if_statement":     {"consequence", "alternative"},
	"for_statement":     {"body"},
	"for_in_statement":  {"body"},
	"while_statement":   {"body"},
	"do_statement":      {"body"},
	"try_statement":     {"body", "handler", "finalizer"},
	"catch_clause":      {"body"},
	"switch_statement":  {"body"},
}

var pythonRules = map[string]rule{
	"class_definition":    {scopeType: semantic.ScopeClass, bodyField: "body"},
	"function_definition": {scopeType: semantic.ScopeFunction, bodyField: "body"},
}

var rustRules = map[string]rule{
	"trait_item":  {scopeType: semantic.ScopeClass, bodyField: "body"},
	"impl_item":   {scopeType: semantic.ScopeClass, bodyField: "body"},
	"function_item": {scopeType: semantic.ScopeFunction, bodyField: "body"},
}

var rustBlockStatements = map[string][]string{
	"if_expression":    {"consequence", "alternative"},
	"for_expression":    {"body"},
	"while_expression":  {"body"},
	"loop_expression":   {"body"},
	"match_expression":  {"body"},
}

// Build walks tree.Root and returns the file's scope tree. Malformed or
// nil trees yield a single degenerate module scope rather than an error,
// per spec.md section 4.1's failure contract.
func Build(tree *capture.Tree) *semantic.ScopeTree {
	st := semantic.NewScopeTree()
	file := tree.FilePath

	if tree.Root == nil {
		st.Add(&semantic.Scope{
			ID:       ids.ScopeId(fmt.Sprintf("%s:module:0", file)),
			Type:     semantic.ScopeModule,
			Location: ids.Location{FilePath: file, StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 1},
		})
		return st
	}

	root := &semantic.Scope{
		ID:       rootScopeID(file),
		Type:     semantic.ScopeModule,
		Location: capture.NodeLocation(file, tree.Root),
	}
	st.Add(root)

	b := &builder{tree: st, file: file, lang: tree.Language}
	b.walkChildren(tree.Root, root.ID)
	return b.tree
}

func rootScopeID(file ids.FilePath) ids.ScopeId {
	return ids.ScopeId(fmt.Sprintf("%s:module", file))
}

type builder struct {
	tree *semantic.ScopeTree
	file ids.FilePath
	lang capture.Language
	seq  int
}

func (b *builder) nextID(kind string) ids.ScopeId {
	b.seq++
	return ids.ScopeId(fmt.Sprintf("%s:%s:%d", b.file, kind, b.seq))
}

// walkChildren recurses into every child of n, creating scopes for
// children whose node kind opens one, and continuing to recurse inside
// newly created scopes so nested constructs (a class defined inside a
// method body) are attached to the innermost enclosing scope.
func (b *builder) walkChildren(n *sitter.Node, parent ids.ScopeId) {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		b.visit(child, parent)
	}
}

func (b *builder) visit(n *sitter.Node, parent ids.ScopeId) {
	kind := n.Type()

	if r, ok := b.ruleFor(kind); ok {
		loc := capture.NodeLocation(b.file, n)
		if r.bodyField != "" {
			if body := n.ChildByFieldName(r.bodyField); body != nil {
				loc = capture.NodeLocation(b.file, body)
			}
		}
		scopeID := b.nextID(kind)
		parentCopy := parent
		b.tree.Add(&semantic.Scope{
			ID:       scopeID,
			Type:     r.scopeType,
			ParentID: &parentCopy,
			Location: loc,
		})
		b.walkChildren(n, scopeID)
		return
	}

	if scopeType, ok := b.namedExprFor(kind); ok && hasNameChild(n) {
		scopeID := b.nextID(kind)
		parentCopy := parent
		b.tree.Add(&semantic.Scope{
			ID:       scopeID,
			Type:     scopeType,
			ParentID: &parentCopy,
			Location: capture.NodeLocation(b.file, n), // whole-node range keeps the name inside the scope
		})
		b.walkChildren(n, scopeID)
		return
	}

	if fields, ok := b.blockFieldsFor(kind); ok {
		for _, field := range fields {
			body := n.ChildByFieldName(field)
			if body == nil {
				continue
			}
			scopeID := b.nextID(kind + ":" + field)
			parentCopy := parent
			b.tree.Add(&semantic.Scope{
				ID:       scopeID,
				Type:     semantic.ScopeBlock,
				ParentID: &parentCopy,
				Location: capture.NodeLocation(b.file, body),
			})
			b.walkChildren(body, scopeID)
		}
		// Still walk the rest of the statement's children (condition,
		// init, etc.) under the original parent scope.
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			child := n.Child(i)
			if child == nil || isNamedFieldChild(n, child, fields) {
				continue
			}
			b.visit(child, parent)
		}
		return
	}

	b.walkChildren(n, parent)
}

func (b *builder) ruleFor(kind string) (rule, bool) {
	switch b.lang {
	case capture.JavaScript, capture.TypeScript:
		r, ok := jsRules[kind]
		return r, ok
	case capture.Python:
		r, ok := pythonRules[kind]
		return r, ok
	case capture.Rust:
		r, ok := rustRules[kind]
		return r, ok
	}
	return rule{}, false
}

func (b *builder) namedExprFor(kind string) (semantic.ScopeType, bool) {
	if b.lang != capture.JavaScript && b.lang != capture.TypeScript {
		return "", false
	}
	t, ok := jsNamedExprs[kind]
	return t, ok
}

func (b *builder) blockFieldsFor(kind string) ([]string, bool) {
	switch b.lang {
	case capture.JavaScript, capture.TypeScript:
		f, ok := jsBlockStatements[kind]
		return f, ok
	case capture.Rust:
		f, ok := rustBlockStatements[kind]
		return f, ok
	}
	return nil, false
}

func hasNameChild(n *sitter.Node) bool {
	return n.ChildByFieldName("name") != nil
}

func isNamedFieldChild(parent, child *sitter.Node, fields []string) bool {
	for _, f := range fields {
		if named := parent.ChildByFieldName(f); named != nil && named == child {
			return true
		}
	}
	return false
}
