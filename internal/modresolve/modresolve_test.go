package modresolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shivasurya/semindex/internal/ids"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("// stub"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveJSRelativeWithExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "util.ts"))
	r := New(root)

	got, ok := r.ResolveImportPath(ids.FilePath(filepath.Join(root, "src", "main.ts")), "./util.ts")
	if !ok || got != ids.FilePath(filepath.Join(root, "src", "util.ts")) {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestResolveJSRelativeExtensionless(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "util.js"))
	r := New(root)

	got, ok := r.ResolveImportPath(ids.FilePath(filepath.Join(root, "src", "main.js")), "./util")
	if !ok || got != ids.FilePath(filepath.Join(root, "src", "util.js")) {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestResolveJSIndexFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "widgets", "index.ts"))
	r := New(root)

	got, ok := r.ResolveImportPath(ids.FilePath(filepath.Join(root, "src", "main.ts")), "./widgets")
	if !ok || got != ids.FilePath(filepath.Join(root, "src", "widgets", "index.ts")) {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestResolveJSBarePackageUnresolved(t *testing.T) {
	root := t.TempDir()
	r := New(root)

	_, ok := r.ResolveImportPath(ids.FilePath(filepath.Join(root, "src", "main.ts")), "react")
	if ok {
		t.Fatal("expected bare package specifier to be unresolved")
	}
}

func TestResolvePythonSiblingModule(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "helpers.py"))
	r := New(root)

	got, ok := r.ResolveImportPath(ids.FilePath(filepath.Join(root, "pkg", "main.py")), ".helpers")
	if !ok || got != ids.FilePath(filepath.Join(root, "pkg", "helpers.py")) {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestResolvePythonPackageInit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "sub", "__init__.py"))
	r := New(root)

	got, ok := r.ResolveImportPath(ids.FilePath(filepath.Join(root, "pkg", "main.py")), ".sub")
	if !ok || got != ids.FilePath(filepath.Join(root, "pkg", "sub", "__init__.py")) {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestResolvePythonAbsoluteFromRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app", "models.py"))
	r := New(root)

	got, ok := r.ResolveImportPath(ids.FilePath(filepath.Join(root, "app", "main.py")), "app.models")
	if !ok || got != ids.FilePath(filepath.Join(root, "app", "models.py")) {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestResolveRustSiblingMod(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "util.rs"))
	r := New(root)

	got, ok := r.ResolveImportPath(ids.FilePath(filepath.Join(root, "src", "main.rs")), "util")
	if !ok || got != ids.FilePath(filepath.Join(root, "src", "util.rs")) {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestResolveRustCratePath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "shapes", "circle.rs"))
	r := New(root)

	got, ok := r.ResolveImportPath(ids.FilePath(filepath.Join(root, "src", "main.rs")), "crate::shapes::circle")
	if !ok || got != ids.FilePath(filepath.Join(root, "src", "shapes", "circle.rs")) {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestResolveRustExternalCrateUnresolved(t *testing.T) {
	root := t.TempDir()
	r := New(root)

	_, ok := r.ResolveImportPath(ids.FilePath(filepath.Join(root, "src", "main.rs")), "serde::Deserialize")
	if ok {
		t.Fatal("expected external crate path to be unresolved")
	}
}
