// Package cache memoizes Phase 0's most expensive step — parse,
// capture, and extract — keyed by a file's content hash, so
// project.Project can skip re-extraction for a file whose bytes are
// unchanged even though its path was handed to ProcessFiles again (a
// watcher debounce firing on a no-op save, or a full reindex after a
// narrow edit elsewhere). This is distinct from capture.Engine's
// internal tree cache, which memoizes the raw parsed syntax tree, not
// the extracted SemanticIndex.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/semantic"
)

// entry pairs a cached SemanticIndex with the content hash it was
// built from, so a hit can be confirmed before being trusted.
type entry struct {
	hash string
	idx  *semantic.SemanticIndex
}

// SemanticCache is an LRU cache of per-file SemanticIndex results that
// is safe for concurrent use (Phase 0 workers call Get/Put concurrently;
// the underlying golang-lru cache does its own locking).
type SemanticCache struct {
	byFile *lru.Cache[ids.FilePath, entry]
}

// New creates a SemanticCache holding at most maxFiles entries.
func New(maxFiles int) (*SemanticCache, error) {
	if maxFiles <= 0 {
		maxFiles = 2000
	}
	c, err := lru.New[ids.FilePath, entry](maxFiles)
	if err != nil {
		return nil, err
	}
	return &SemanticCache{byFile: c}, nil
}

// Get returns the cached SemanticIndex for file if its content hash
// still matches content, skipping a stale entry left by a prior
// revision of the same path.
func (c *SemanticCache) Get(file ids.FilePath, content []byte) (*semantic.SemanticIndex, bool) {
	e, ok := c.byFile.Get(file)
	if !ok {
		return nil, false
	}
	if e.hash != hashOf(content) {
		c.byFile.Remove(file)
		return nil, false
	}
	return e.idx, true
}

// Put stores idx as the extraction result for file at content's hash.
func (c *SemanticCache) Put(file ids.FilePath, content []byte, idx *semantic.SemanticIndex) {
	c.byFile.Add(file, entry{hash: hashOf(content), idx: idx})
}

// Remove evicts file's cached entry, e.g. after project.Project.RemoveFile.
func (c *SemanticCache) Remove(file ids.FilePath) {
	c.byFile.Remove(file)
}

// Len returns the number of files currently cached.
func (c *SemanticCache) Len() int {
	return c.byFile.Len()
}

func hashOf(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
