package filecache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shivasurya/semindex/internal/ids"
)

func TestCacheReadFileAndHit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(DefaultConfig())
	defer c.Close()

	data, err := c.ReadFile(ids.FilePath(path))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "package main\n" {
		t.Errorf("got %q", data)
	}

	if _, err := c.ReadFile(ids.FilePath(path)); err != nil {
		t.Fatal(err)
	}
	if stats := c.Stats(); stats.CacheHits != 1 || stats.CacheMisses != 1 {
		t.Errorf("expected 1 hit, 1 miss, got %+v", stats)
	}
}

func TestCacheFetchCodeByteRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snippet.go")
	content := "func foo() {}\nfunc bar() {}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(DefaultConfig())
	defer c.Close()

	code, err := c.FetchCode(ids.FilePath(path), 0, 13)
	if err != nil {
		t.Fatal(err)
	}
	if code != "func foo() {}" {
		t.Errorf("got %q", code)
	}
}

func TestCacheFetchCodeInvalidRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snippet.go")
	if err := os.WriteFile(path, []byte("short"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(DefaultConfig())
	defer c.Close()

	if _, err := c.FetchCode(ids.FilePath(path), 0, 1000); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestCacheMaxFilesLimit(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.go")
	b := filepath.Join(dir, "b.go")
	os.WriteFile(a, []byte("a"), 0o644)
	os.WriteFile(b, []byte("b"), 0o644)

	c := New(Config{MaxFiles: 1})
	defer c.Close()

	if _, err := c.ReadFile(ids.FilePath(a)); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ReadFile(ids.FilePath(b)); err == nil {
		t.Fatal("expected limit error on second distinct file")
	}
}

func TestCacheInvalidateReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	os.WriteFile(path, []byte("v1"), 0o644)

	c := New(DefaultConfig())
	defer c.Close()

	data, _ := c.ReadFile(ids.FilePath(path))
	if string(data) != "v1" {
		t.Fatalf("got %q", data)
	}

	os.WriteFile(path, []byte("v2-longer"), 0o644)
	c.Invalidate(ids.FilePath(path))

	data, err := c.ReadFile(ids.FilePath(path))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "v2-longer" {
		t.Errorf("expected reload to see v2-longer, got %q", data)
	}
}

func TestCacheEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.go")
	os.WriteFile(path, []byte{}, 0o644)

	c := New(DefaultConfig())
	defer c.Close()

	data, err := c.ReadFile(ids.FilePath(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty data, got %q", data)
	}
}
