// Package capture is the project's only dependency on a concrete
// tree-sitter binding. It plays the role of the two external collaborators
// spec.md declares out of scope — parse(language, source) -> Tree and
// query(language, tree) -> ordered captures — giving the rest of the
// module (scopebuilder, extract) a small oracle interface instead of
// scattering tree-sitter setup across every language extractor.
package capture

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/shivasurya/semindex/internal/ids"
)

// Language identifies one of the grammars this package can drive.
type Language string

const (
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Python     Language = "python"
	Rust       Language = "rust"
)

// Capture is one named capture from a query match: the capture's name as
// declared in the query (e.g. "function.name"), the underlying syntax
// node, its kind, source text, and location. Extractors walk from Node
// when a single capture isn't enough (property chains, decorator lists,
// nested parameter lists).
type Capture struct {
	Name     string
	NodeKind string
	Text     string
	Location ids.Location
	Node     *sitter.Node
}

// Match groups the captures produced by a single query pattern match, in
// the order the query declared them. PatternName is the query's logical
// group (e.g. "function_declaration"), used by extractors to dispatch.
type Match struct {
	PatternName string
	Captures    []Capture
}

// Tree wraps a parsed file: its root node, source bytes, language, and
// originating file path.
type Tree struct {
	Language Language
	Source   []byte
	FilePath ids.FilePath
	Root     *sitter.Node
}

// QueryCaptures is the external oracle spec.md sections 1 and 6 describe
// as consumed, not implemented, by the core: parse produces a Tree, query
// runs per-language declarative capture queries against it and yields an
// ordered stream of named captures grouped by match.
type QueryCaptures interface {
	Parse(language Language, filePath ids.FilePath, source []byte) (*Tree, error)
	Query(language Language, tree *Tree) ([]Match, error)
}

// NodeLocation converts a tree-sitter node's range into our 1-indexed,
// end-column-exclusive Location.
func NodeLocation(file ids.FilePath, n *sitter.Node) ids.Location {
	start := n.StartPoint()
	end := n.EndPoint()
	return ids.Location{
		FilePath:    file,
		StartLine:   int(start.Row) + 1,
		StartColumn: int(start.Column) + 1,
		EndLine:     int(end.Row) + 1,
		EndColumn:   int(end.Column) + 1,
	}
}
