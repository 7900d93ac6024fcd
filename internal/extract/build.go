package extract

import (
	"github.com/shivasurya/semindex/internal/capture"
	"github.com/shivasurya/semindex/internal/scopebuilder"
	"github.com/shivasurya/semindex/internal/semantic"
)

// BuildSemanticIndex runs the scope builder and the language-appropriate
// definition/reference extractor over tree, producing the file's
// SemanticIndex. This is Phase 0 of the resolution pipeline: everything
// downstream (registry construction, Phase 1 name resolution, Phase 2
// call resolution) consumes only the SemanticIndex this returns, never
// the parse tree directly.
func BuildSemanticIndex(tree *capture.Tree) *semantic.SemanticIndex {
	scopes := scopebuilder.Build(tree)
	idx := semantic.NewSemanticIndex(tree.FilePath, string(tree.Language))
	idx.Scopes = scopes

	switch tree.Language {
	case capture.JavaScript:
		WalkJavaScript(tree, scopes, idx, false)
	case capture.TypeScript:
		WalkJavaScript(tree, scopes, idx, true)
	case capture.Python:
		WalkPython(tree, scopes, idx)
	case capture.Rust:
		WalkRust(tree, scopes, idx)
	}

	return idx
}
