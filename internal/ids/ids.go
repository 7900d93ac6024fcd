// Package ids defines the opaque identifier newtypes shared across the
// semantic index and resolution registries: FilePath, ScopeId, SymbolId,
// and SymbolName. None of these carry behavior beyond identity and
// formatting; they exist so the rest of the codebase never passes a bare
// string where a specific kind of name is required.
package ids

import "fmt"

// FilePath is an absolute or project-relative path to a source file.
type FilePath string

// ScopeId is a stable per-file identifier for a lexical Scope.
type ScopeId string

// SymbolName is the bare, unqualified name of a definition or reference
// (e.g. "process", not "Handler.process").
type SymbolName string

// SymbolId is the stable, location-derived identifier for a Definition.
// Its shape is "kind:name:file:start_line:start_col:end_line:end_col",
// which keeps it stable under re-indexing of unchanged text and distinct
// across overloaded/shadowed names.
type SymbolId string

// NewSymbolID builds the canonical SymbolId for a definition at a location.
func NewSymbolID(kind string, name SymbolName, file FilePath, startLine, startCol, endLine, endCol int) SymbolId {
	return SymbolId(fmt.Sprintf("%s:%s:%s:%d:%d:%d:%d", kind, name, file, startLine, startCol, endLine, endCol))
}

// Location is a 1-indexed source range; EndColumn is exclusive.
type Location struct {
	FilePath    FilePath
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Contains reports whether l fully encloses other (inclusive of equal bounds).
func (l Location) Contains(other Location) bool {
	if l.FilePath != other.FilePath {
		return false
	}
	if other.StartLine < l.StartLine || (other.StartLine == l.StartLine && other.StartColumn < l.StartColumn) {
		return false
	}
	if other.EndLine > l.EndLine || (other.EndLine == l.EndLine && other.EndColumn > l.EndColumn) {
		return false
	}
	return true
}

// Disjoint reports whether l and other share no source range.
func (l Location) Disjoint(other Location) bool {
	if l.FilePath != other.FilePath {
		return true
	}
	if l.EndLine < other.StartLine || (l.EndLine == other.StartLine && l.EndColumn <= other.StartColumn) {
		return true
	}
	if other.EndLine < l.StartLine || (other.EndLine == l.StartLine && other.EndColumn <= l.StartColumn) {
		return true
	}
	return false
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d-%d:%d", l.FilePath, l.StartLine, l.StartColumn, l.EndLine, l.EndColumn)
}
