package cache

import (
	"testing"

	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/semantic"
)

func TestCacheMissThenHit(t *testing.T) {
	c, err := New(10)
	if err != nil {
		t.Fatal(err)
	}
	file := ids.FilePath("a.js")
	content := []byte("function a() {}")

	if _, ok := c.Get(file, content); ok {
		t.Fatal("expected miss on empty cache")
	}

	idx := semantic.NewSemanticIndex(file, "javascript")
	c.Put(file, content, idx)

	got, ok := c.Get(file, content)
	if !ok || got != idx {
		t.Fatalf("expected cache hit returning same index, got %v %v", got, ok)
	}
}

func TestCacheStaleContentMisses(t *testing.T) {
	c, err := New(10)
	if err != nil {
		t.Fatal(err)
	}
	file := ids.FilePath("a.js")
	idx := semantic.NewSemanticIndex(file, "javascript")
	c.Put(file, []byte("v1"), idx)

	if _, ok := c.Get(file, []byte("v2")); ok {
		t.Fatal("expected miss when content hash changed")
	}
	if c.Len() != 0 {
		t.Errorf("expected stale entry evicted, Len()=%d", c.Len())
	}
}

func TestCacheRemove(t *testing.T) {
	c, err := New(10)
	if err != nil {
		t.Fatal(err)
	}
	file := ids.FilePath("a.js")
	content := []byte("x")
	c.Put(file, content, semantic.NewSemanticIndex(file, "javascript"))

	c.Remove(file)
	if _, ok := c.Get(file, content); ok {
		t.Fatal("expected removed entry to miss")
	}
}
