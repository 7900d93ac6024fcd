package capture

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/shivasurya/semindex/internal/ids"
)

// namedQuery pairs a tree-sitter query source with the logical pattern
// name exposed to extractors as Match.PatternName.
type namedQuery struct {
	name string
	src  string
}

// Engine is the concrete QueryCaptures implementation, backed by
// smacker/go-tree-sitter. It compiles each language's queries once and
// caches parsed trees by content hash so re-submitting an unchanged file
// (spec.md section 5's idempotence requirement) never re-parses.
type Engine struct {
	parser       *sitter.Parser
	compiled     map[Language][]compiledQuery
	treeCache    *lru.Cache[string, *Tree]
}

type compiledQuery struct {
	name  string
	query *sitter.Query
}

// NewEngine builds an Engine with its queries compiled for all four
// supported languages and a bounded parse-tree cache.
func NewEngine() (*Engine, error) {
	cache, err := lru.New[string, *Tree](256)
	if err != nil {
		return nil, fmt.Errorf("capture: creating tree cache: %w", err)
	}
	e := &Engine{
		parser:    sitter.NewParser(),
		compiled:  make(map[Language][]compiledQuery),
		treeCache: cache,
	}
	for lang, queries := range map[Language][]namedQuery{
		JavaScript: javascriptQueries,
		TypeScript: typescriptQueries,
		Python:     pythonQueries,
		Rust:       rustQueries,
	} {
		grammar := grammarFor(lang)
		compiled := make([]compiledQuery, 0, len(queries))
		for _, q := range queries {
			query, err := sitter.NewQuery([]byte(q.src), grammar)
			if err != nil {
				return nil, fmt.Errorf("capture: compiling %s query %q: %w", lang, q.name, err)
			}
			compiled = append(compiled, compiledQuery{name: q.name, query: query})
		}
		e.compiled[lang] = compiled
	}
	return e, nil
}

func grammarFor(lang Language) *sitter.Language {
	switch lang {
	case JavaScript:
		return javascript.GetLanguage()
	case TypeScript:
		return typescript.GetLanguage()
	case Python:
		return python.GetLanguage()
	case Rust:
		return rust.GetLanguage()
	default:
		return nil
	}
}

// Parse lowers source bytes into a Tree. Parsing is cached by a hash of
// (language, file path, content) so callers may re-submit the same file
// across indexing runs without paying the parse cost twice.
func (e *Engine) Parse(language Language, filePath ids.FilePath, source []byte) (*Tree, error) {
	key := cacheKey(language, filePath, source)
	if cached, ok := e.treeCache.Get(key); ok {
		return cached, nil
	}

	grammar := grammarFor(language)
	if grammar == nil {
		return nil, fmt.Errorf("capture: unsupported language %q", language)
	}
	e.parser.SetLanguage(grammar)
	tree, err := e.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		// Malformed input: spec.md section 7 requires the extractor to
		// recover, not the parser. A Tree with a nil Root lets the scope
		// builder fall back to one degenerate module scope.
		return &Tree{Language: language, Source: source, FilePath: filePath, Root: nil}, nil
	}

	result := &Tree{Language: language, Source: source, FilePath: filePath, Root: tree.RootNode()}
	e.treeCache.Add(key, result)
	return result, nil
}

func cacheKey(language Language, filePath ids.FilePath, source []byte) string {
	sum := sha256.Sum256(source)
	return string(language) + ":" + string(filePath) + ":" + hex.EncodeToString(sum[:])
}

// Query runs every compiled query for tree.Language against tree.Root and
// returns the matches ordered by the position of their first capture,
// matching spec.md's "ordered captures" contract and preserving the
// in-source ordering that extraction and resolution depend on.
func (e *Engine) Query(language Language, tree *Tree) ([]Match, error) {
	if tree == nil || tree.Root == nil {
		return nil, nil
	}
	compiled, ok := e.compiled[language]
	if !ok {
		return nil, fmt.Errorf("capture: unsupported language %q", language)
	}

	matches := []Match{}
	for _, cq := range compiled {
		qc := sitter.NewQueryCursor()
		qc.Exec(cq.query, tree.Root)
		for {
			m, ok := qc.NextMatch()
			if !ok {
				break
			}
			captures := make([]Capture, 0, len(m.Captures))
			for _, c := range m.Captures {
				name := cq.query.CaptureNameForId(c.Index)
				captures = append(captures, Capture{
					Name:     name,
					NodeKind: c.Node.Type(),
					Text:     c.Node.Content(tree.Source),
					Location: NodeLocation(tree.FilePath, c.Node),
					Node:     c.Node,
				})
			}
			matches = append(matches, Match{PatternName: cq.name, Captures: captures})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		aLine, aCol := matchStart(matches[i])
		bLine, bCol := matchStart(matches[j])
		if aLine != bLine {
			return aLine < bLine
		}
		return aCol < bCol
	})
	return matches, nil
}

func matchStart(m Match) (int, int) {
	if len(m.Captures) == 0 {
		return 0, 0
	}
	loc := m.Captures[0].Location
	return loc.StartLine, loc.StartColumn
}
