package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivasurya/semindex/internal/ids"
)

func TestParseCachesByContentHash(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	src := []byte("function f() { return 1; }\n")
	file := ids.FilePath("a.js")

	first, err := e.Parse(JavaScript, file, src)
	require.NoError(t, err)
	require.NotNil(t, first.Root)

	second, err := e.Parse(JavaScript, file, src)
	require.NoError(t, err)

	// Same (language, file, content) hits the cache and returns the exact
	// same *Tree, not merely an equal one.
	assert.Same(t, first, second)
}

func TestParseDifferentContentMisses(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	file := ids.FilePath("a.js")
	first, err := e.Parse(JavaScript, file, []byte("function f() {}\n"))
	require.NoError(t, err)
	second, err := e.Parse(JavaScript, file, []byte("function g() {}\n"))
	require.NoError(t, err)

	assert.NotSame(t, first, second)
}

func TestParseUnsupportedLanguage(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	_, err = e.Parse(Language("cobol"), ids.FilePath("a.cbl"), []byte("IDENTIFICATION DIVISION.\n"))
	assert.Error(t, err)
}

func TestQueryJavaScriptFunctionDeclaration(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	src := []byte("function add(a, b) {\n  return a + b;\n}\n")
	tree, err := e.Parse(JavaScript, ids.FilePath("math.js"), src)
	require.NoError(t, err)
	require.NotNil(t, tree.Root)

	matches, err := e.Query(JavaScript, tree)
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	var found bool
	for _, m := range matches {
		if m.PatternName != "function_declaration" {
			continue
		}
		for _, c := range m.Captures {
			if c.Name == "name" && c.Text == "add" {
				found = true
			}
		}
	}
	assert.True(t, found, "expected a function_declaration match with a name capture for add")
}

func TestQueryMatchesAreOrderedBySourcePosition(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	src := []byte("function first() {}\nfunction second() {}\nfunction third() {}\n")
	tree, err := e.Parse(JavaScript, ids.FilePath("three.js"), src)
	require.NoError(t, err)

	matches, err := e.Query(JavaScript, tree)
	require.NoError(t, err)

	var lines []int
	for _, m := range matches {
		if len(m.Captures) > 0 {
			lines = append(lines, m.Captures[0].Location.StartLine)
		}
	}
	require.NotEmpty(t, lines)
	for i := 1; i < len(lines); i++ {
		assert.LessOrEqual(t, lines[i-1], lines[i], "matches must be ordered by source position")
	}
}

// TestParseMalformedInputRecovers covers spec.md section 7's contract:
// the parser itself never errors out on malformed input, since recovery
// is the extractor's job, not the parser's. A nil root is the degenerate
// signal scopebuilder falls back on.
func TestParseMalformedInputRecovers(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	tree, err := e.Parse(JavaScript, ids.FilePath("weird.js"), []byte("function ("))
	require.NoError(t, err)
	require.NotNil(t, tree)

	matches, err := e.Query(JavaScript, tree)
	require.NoError(t, err)
	assert.NotNil(t, matches) // empty is fine, but Query must not panic/error
}
