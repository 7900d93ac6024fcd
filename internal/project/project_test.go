package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivasurya/semindex/internal/capture"
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/semantic"
)

type diskReader struct{}

func (diskReader) ReadFile(path ids.FilePath) ([]byte, error) {
	return os.ReadFile(string(path))
}

type noopResolver struct{}

func (noopResolver) ResolveImportPath(ids.FilePath, string) (ids.FilePath, bool) {
	return "", false
}

func newTestProject() *Project {
	engine, err := capture.NewEngine()
	if err != nil {
		panic(err)
	}
	return New(engine, diskReader{}, noopResolver{}, nil)
}

func writeFile(t *testing.T, dir, name, src string) ids.FilePath {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return ids.FilePath(path)
}

// TestProcessFilesEndToEnd exercises the real Phase 0 -> 1 -> 2 pipeline
// over a small batch of real source files parsed by an actual
// capture.Engine, covering the concurrent Phase 0 fan-out (runPhase0's
// five-worker pool) and the serialized Phase 1/2 passes that follow.
func TestProcessFilesEndToEnd(t *testing.T) {
	proj := newTestProject()
	dir := t.TempDir()

	jsSrc := "function add(a, b) { return a + b; }\nfunction caller() { return add(1, 2); }\n"
	pySrc := "class Greeter:\n    def __init__(self, name):\n        self.name = name\n    def greet(self):\n        return self.name\n"

	jsFile := writeFile(t, dir, "math.js", jsSrc)
	pyFile := writeFile(t, dir, "greeter.py", pySrc)

	errs := proj.ProcessFiles([]ids.FilePath{jsFile, pyFile})
	require.Empty(t, errs)

	// Phase 0 populated the definition registry for both files.
	assert.NotEmpty(t, proj.Defs.ByFile[jsFile])
	assert.NotEmpty(t, proj.Defs.ByFile[pyFile])
	assert.ElementsMatch(t, []ids.FilePath{jsFile, pyFile}, proj.Defs.Files())

	// Phase 2 resolved the add() call inside caller().
	var callerCalls int
	for _, call := range proj.Resolution.GetAllCalls() {
		if call.Name == "add" {
			callerCalls++
			require.NotEmpty(t, call.Resolutions)
		}
	}
	assert.Equal(t, 1, callerCalls)

	// greet() resolves self.name as a property access, not a call; the
	// class/constructor pair are at least present as definitions.
	var sawGreeter bool
	for _, d := range proj.Defs.ByFile[pyFile] {
		if d.Kind == semantic.DefClass && d.Name == "Greeter" {
			sawGreeter = true
			require.NotNil(t, d.Class)
			assert.Len(t, d.Class.Constructors, 1)
			assert.NotContains(t, d.Class.Methods, d.Class.Constructors[0])
		}
	}
	assert.True(t, sawGreeter)
}

// TestProcessFilesSkipsUnreadableFile confirms a single Phase 0 failure
// (unsupported extension) is reported but doesn't block the rest of the
// batch from being processed.
func TestProcessFilesSkipsUnreadableFile(t *testing.T) {
	proj := newTestProject()
	dir := t.TempDir()

	jsFile := writeFile(t, dir, "ok.js", "function f() {}\n")
	badFile := writeFile(t, dir, "weird.unsupported", "garbage\n")

	errs := proj.ProcessFiles([]ids.FilePath{jsFile, badFile})
	require.Len(t, errs, 1)

	assert.NotEmpty(t, proj.Defs.ByFile[jsFile])
	assert.Empty(t, proj.Defs.ByFile[badFile])
}

// TestRemoveFileDegradesResolutions covers RemoveFile's contract: removing
// a file that another file's call resolved into makes that resolution
// disappear on the next resolve pass rather than point at a stale symbol.
func TestRemoveFileDegradesResolutions(t *testing.T) {
	proj := newTestProject()
	dir := t.TempDir()

	libSrc := "function helper() { return 1; }\n"
	mainSrc := "function main() { return helper(); }\n"

	libFile := writeFile(t, dir, "lib.js", libSrc)
	mainFile := writeFile(t, dir, "main.js", mainSrc)

	errs := proj.ProcessFiles([]ids.FilePath{libFile, mainFile})
	require.Empty(t, errs)

	var resolvedBefore bool
	for _, call := range proj.Resolution.GetAllCalls() {
		if call.Name == "helper" && len(call.Resolutions) > 0 {
			resolvedBefore = true
		}
	}
	assert.True(t, resolvedBefore, "helper() should resolve while lib.js is present")

	proj.RemoveFile(libFile)

	assert.Empty(t, proj.Defs.ByFile[libFile])
	assert.NotContains(t, proj.Defs.Files(), libFile)

	for _, call := range proj.Resolution.GetAllCalls() {
		if call.Name == "helper" {
			assert.Empty(t, call.Resolutions, "helper() must not resolve after its definition is removed")
		}
	}
}

// TestLanguageForExt covers the supported-extension table the CLI and
// file-watcher front ends both depend on for routing.
func TestLanguageForExt(t *testing.T) {
	proj := newTestProject()

	lang, ok := proj.LanguageForExt(".ts")
	require.True(t, ok)
	assert.Equal(t, capture.TypeScript, lang)

	_, ok = proj.LanguageForExt(".unsupported")
	assert.False(t, ok)
}
