package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverFilesDefaultExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.ts"))
	writeFile(t, filepath.Join(root, "src", "util.py"))
	writeFile(t, filepath.Join(root, "README.md"))

	files, err := DiscoverFiles(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 matched files, got %v", files)
	}
}

func TestDiscoverFilesExcludesNodeModules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.js"))
	writeFile(t, filepath.Join(root, "node_modules", "dep", "index.js"))

	files, err := DiscoverFiles(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "main.js" {
		t.Fatalf("expected only src/main.js, got %v", files)
	}
}

func TestDiscoverFilesCustomInclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.rs"))
	writeFile(t, filepath.Join(root, "b.py"))

	files, err := DiscoverFiles(root, Options{Include: []string{"**/*.rs"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "a.rs" {
		t.Fatalf("expected only a.rs, got %v", files)
	}
}

func TestDiscoverFilesSortedDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "z.py"))
	writeFile(t, filepath.Join(root, "a.py"))

	files, err := DiscoverFiles(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.py" {
		t.Fatalf("expected sorted order, got %v", files)
	}
}

func TestDiscoverFilesInvalidPattern(t *testing.T) {
	root := t.TempDir()
	_, err := DiscoverFiles(root, Options{Include: []string{"["}})
	if err == nil {
		t.Fatal("expected error for invalid glob pattern")
	}
}
