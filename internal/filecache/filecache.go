// Package filecache provides memory-mapped file access for the one
// blocking I/O point project.Project's core delegates out:
// project.SourceReader. Mapping instead of copying lets callers fetch a
// Definition or Reference's source snippet by byte offset in O(1),
// without re-reading the file from disk.
package filecache

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/edsrzf/mmap-go"

	"github.com/shivasurya/semindex/internal/ids"
)

// Config controls Cache behavior.
type Config struct {
	// MaxFiles caps the number of files kept mapped. 0 means unlimited,
	// unless MaxMemoryMB is also 0 (see New).
	MaxFiles int
	// MaxMemoryMB caps total virtual memory mapped. 0 means unlimited,
	// unless MaxFiles is also 0 (see New).
	MaxMemoryMB int
}

// DefaultConfig covers small-to-medium repositories.
func DefaultConfig() Config {
	return Config{MaxFiles: 10000, MaxMemoryMB: 2048}
}

// mappedFile is one cached file, either truly mmap'd or, if mmap
// failed (e.g. on a filesystem that doesn't support it), held as a
// plain byte slice wrapped in the same mmap.MMap type for uniform
// slicing.
type mappedFile struct {
	data     mmap.MMap
	file     *os.File
	size     int64
	mappedAt time.Time
}

// Stats reports cache activity.
type Stats struct {
	FilesLoaded   int64
	FilesCached   int
	CacheHits     int64
	CacheMisses   int64
	MmapFailures  int64
	TotalMappedMB float64
}

// Cache is a thread-safe, lazily-populated memory-mapped file cache. It
// implements project.SourceReader so a Project can be wired directly to
// one, and additionally exposes byte-range fetches for snippet
// retrieval (e.g. the MCP server's source-preview tool).
type Cache struct {
	config Config

	mu    sync.RWMutex
	files map[ids.FilePath]*mappedFile

	statsMu sync.Mutex
	stats   Stats
}

// New creates a Cache. A zero Config falls back to DefaultConfig.
func New(config Config) *Cache {
	if config.MaxFiles == 0 && config.MaxMemoryMB == 0 {
		config = DefaultConfig()
	}
	return &Cache{config: config, files: make(map[ids.FilePath]*mappedFile)}
}

// ReadFile implements project.SourceReader, returning the full mapped
// contents of path, loading it on first access.
func (c *Cache) ReadFile(path ids.FilePath) ([]byte, error) {
	mf, err := c.get(path)
	if err != nil {
		return nil, err
	}
	return []byte(mf.data), nil
}

// FetchCode extracts the bytes in [startByte, endByte) from path
// without re-reading the whole file, for use against an ids.Location's
// byte offsets.
func (c *Cache) FetchCode(path ids.FilePath, startByte, endByte uint32) (string, error) {
	mf, err := c.get(path)
	if err != nil {
		return "", err
	}
	if endByte > uint32(len(mf.data)) || endByte < startByte {
		return "", fmt.Errorf("filecache: invalid byte range [%d,%d) for %s (size %d)", startByte, endByte, path, len(mf.data))
	}
	return string(mf.data[startByte:endByte]), nil
}

// Size returns the number of currently cached files.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

// Stats returns a snapshot of cache metrics.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	total := int64(0)
	for _, mf := range c.files {
		total += mf.size
	}
	cached := len(c.files)
	c.mu.RUnlock()

	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	s := c.stats
	s.FilesCached = cached
	s.TotalMappedMB = float64(total) / (1024 * 1024)
	return s
}

// Invalidate drops path from the cache, unmapping it if mapped. The
// next ReadFile/FetchCode call reloads from disk. Call this after a
// file watcher observes a write so stale mapped pages aren't served.
func (c *Cache) Invalidate(path ids.FilePath) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if mf, ok := c.files[path]; ok {
		c.unmap(mf)
		delete(c.files, path)
	}
}

// Close unmaps every cached file and releases its file descriptor.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for path, mf := range c.files {
		if err := c.unmap(mf); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("filecache: unmap %s: %w", path, err)
		}
	}
	c.files = make(map[ids.FilePath]*mappedFile)
	return firstErr
}

func (c *Cache) get(path ids.FilePath) (*mappedFile, error) {
	c.mu.RLock()
	if mf, ok := c.files[path]; ok {
		c.mu.RUnlock()
		c.recordHit()
		return mf, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if mf, ok := c.files[path]; ok {
		c.recordHit()
		return mf, nil
	}
	c.recordMiss()

	if err := c.checkLimitsLocked(); err != nil {
		return nil, err
	}

	mf, err := c.load(path)
	if err != nil {
		return nil, err
	}
	c.files[path] = mf
	c.recordLoad()
	return mf, nil
}

func (c *Cache) checkLimitsLocked() error {
	if c.config.MaxFiles > 0 && len(c.files) >= c.config.MaxFiles {
		return fmt.Errorf("filecache: limit reached: %d files cached (max %d)", len(c.files), c.config.MaxFiles)
	}
	if c.config.MaxMemoryMB > 0 {
		var total int64
		for _, mf := range c.files {
			total += mf.size
		}
		if float64(total)/(1024*1024) >= float64(c.config.MaxMemoryMB) {
			return fmt.Errorf("filecache: memory limit reached (max %d MB)", c.config.MaxMemoryMB)
		}
	}
	return nil
}

func (c *Cache) load(path ids.FilePath) (*mappedFile, error) {
	file, err := os.Open(string(path))
	if err != nil {
		return nil, fmt.Errorf("filecache: open %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("filecache: stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		file.Close()
		return &mappedFile{data: mmap.MMap{}, mappedAt: time.Now()}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		c.recordMmapFailure()
		raw, readErr := os.ReadFile(string(path))
		file.Close()
		if readErr != nil {
			return nil, fmt.Errorf("filecache: mmap %s failed (%v) and fallback read failed: %w", path, err, readErr)
		}
		return &mappedFile{data: mmap.MMap(raw), size: int64(len(raw)), mappedAt: time.Now()}, nil
	}

	return &mappedFile{data: data, file: file, size: info.Size(), mappedAt: time.Now()}, nil
}

func (c *Cache) unmap(mf *mappedFile) error {
	var err error
	if mf.file != nil {
		err = mf.data.Unmap()
		if closeErr := mf.file.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}

func (c *Cache) recordHit() {
	c.statsMu.Lock()
	c.stats.CacheHits++
	c.statsMu.Unlock()
}

func (c *Cache) recordMiss() {
	c.statsMu.Lock()
	c.stats.CacheMisses++
	c.statsMu.Unlock()
}

func (c *Cache) recordLoad() {
	c.statsMu.Lock()
	c.stats.FilesLoaded++
	c.statsMu.Unlock()
}

func (c *Cache) recordMmapFailure() {
	c.statsMu.Lock()
	c.stats.MmapFailures++
	c.statsMu.Unlock()
}
