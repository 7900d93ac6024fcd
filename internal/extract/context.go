// Package extract implements spec.md's DefinitionExtractors and
// ReferenceExtractors: per-language handlers that fold a parsed file's
// syntax tree into typed Definition and Reference records bound to the
// scope tree scopebuilder already produced.
package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/shivasurya/semindex/internal/capture"
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/semantic"
)

// ctx carries the state every language walker threads through recursion:
// the source file identity, raw bytes, the scope tree built in the
// previous stage, the index being assembled, and the language. The
// innermost scope in effect is not stored here; each walker call takes
// it as an argument, so references emitted deep inside an expression
// still record the nearest function/method/block scope, not the module
// root.
type ctx struct {
	file   ids.FilePath
	source []byte
	scopes *semantic.ScopeTree
	index  *semantic.SemanticIndex
	lang   string
}

func (c *ctx) loc(n *sitter.Node) ids.Location {
	return capture.NodeLocation(c.file, n)
}

func (c *ctx) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(c.source)
}

// scopeAt returns the innermost (smallest-range) scope containing loc.
// Falls back to the root module scope if nothing more specific contains
// it — this only happens for malformed/degenerate trees.
func (c *ctx) scopeAt(loc ids.Location) ids.ScopeId {
	best := c.scopes.RootID
	bestSpan := -1
	for id, s := range c.scopes.Scopes {
		if !s.Location.Contains(loc) {
			continue
		}
		span := (s.Location.EndLine-s.Location.StartLine)*100000 + (s.Location.EndColumn - s.Location.StartColumn)
		if bestSpan == -1 || span < bestSpan {
			best = id
			bestSpan = span
		}
	}
	return best
}

// enclosingScopeOfKind walks from the scope containing loc up through
// parents looking for the nearest scope of one of the given types. Used
// to find the "enclosing class scope" for self/this/super/cls and the
// "nearest enclosing function/method/constructor body scope" for
// CallReference.CallerScopeID.
func (c *ctx) enclosingScopeOfKind(loc ids.Location, kinds ...semantic.ScopeType) (ids.ScopeId, bool) {
	id := c.scopeAt(loc)
	for {
		s := c.scopes.Get(id)
		if s == nil {
			return "", false
		}
		for _, k := range kinds {
			if s.Type == k {
				return id, true
			}
		}
		if s.ParentID == nil {
			return "", false
		}
		id = *s.ParentID
	}
}

func symbolID(kind semantic.DefinitionKind, name ids.SymbolName, loc ids.Location) ids.SymbolId {
	return ids.NewSymbolID(string(kind), name, loc.FilePath, loc.StartLine, loc.StartColumn, loc.EndLine, loc.EndColumn)
}

// splitPropertyChain walks a left-associative chain of member/attribute/
// field access nodes (obj.a.b.c) into its rooted name sequence
// (["obj", "a", "b", "c"]), stopping at the first node kind not in
// chainKinds. A plain identifier root (other than self/cls/super) or a
// Rust `self` root leads the sequence; a JS this/super root is returned
// but left out of it. Any other root is a dynamic boundary per spec.md
// 4.3 (e.g. a call result or literal) and is reported with dynamic set.
//
// objectField/propertyField name the tree-sitter fields that hold the
// receiver and the accessed name for the grammar in question.
func splitPropertyChain(n *sitter.Node, source []byte, chainKinds map[string]bool, objectField, propertyField string) (root *sitter.Node, chain []string, dynamic bool) {
	var names []string
	cur := n
	for cur != nil && chainKinds[cur.Type()] {
		prop := cur.ChildByFieldName(propertyField)
		if prop == nil {
			break
		}
		names = append([]string{prop.Content(source)}, names...)
		obj := cur.ChildByFieldName(objectField)
		if obj == nil {
			return cur, names, true
		}
		if !chainKinds[obj.Type()] && obj.Type() != "identifier" && obj.Type() != "self" {
			// Reached the syntactic root.
			return obj, names, obj.Type() != "this" && obj.Type() != "super"
		}
		cur = obj
	}
	if cur != nil && ((cur.Type() == "identifier" && !isSelfLike(cur.Content(source))) || cur.Type() == "self") {
		names = append([]string{cur.Content(source)}, names...)
	}
	return cur, names, false
}

// trimDecoratorName strips a leading "@" and any call-argument suffix
// from a decorator's textual form: "@app.route('/x')" -> "app.route".
func trimDecoratorName(text string) string {
	text = strings.TrimPrefix(strings.TrimSpace(text), "@")
	if idx := strings.Index(text, "("); idx != -1 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

func hasDecoratorNamed(decorators []string, suffixes ...string) bool {
	for _, d := range decorators {
		for _, suf := range suffixes {
			if d == suf || strings.HasSuffix(d, "."+suf) {
				return true
			}
		}
	}
	return false
}
