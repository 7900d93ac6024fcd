// Package project orchestrates the full pipeline spec.md section 2's data
// flow describes: per file, parse -> capture -> extract -> SemanticIndex,
// pushed into the registries; then, serialized over the whole change set,
// Phase 1 name resolution -> TypeRegistry update -> Phase 2 call
// resolution -> indirect reachability. Phase 0 may run one goroutine per
// file; phases 1 and 2 never do, since they read registries every other
// file's Phase 0 just wrote to.
package project

import (
	"fmt"
	"sync"

	"github.com/shivasurya/semindex/internal/cache"
	"github.com/shivasurya/semindex/internal/capture"
	"github.com/shivasurya/semindex/internal/extract"
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/registry"
	"github.com/shivasurya/semindex/internal/resolve"
	"github.com/shivasurya/semindex/internal/semantic"
)

// SourceReader is the file-read collaborator: the core itself never
// touches a filesystem (spec.md section 5 — "no blocking I/O points
// inside the core").
type SourceReader interface {
	ReadFile(path ids.FilePath) ([]byte, error)
}

// StatusReporter receives best-effort progress updates during a batch
// run. Implementations must not block; a nil StatusReporter is valid and
// silently discards updates.
type StatusReporter interface {
	FileStarted(workerID int, file ids.FilePath)
	FileDone(workerID int, file ids.FilePath)
}

// Project is the project-level orchestrator: owns the registries and the
// parse/capture engine, and exposes the file-lifecycle operations
// (RemoveFile) and the batch entry point (ProcessFiles)
// external callers (CLI, file-watcher, MCP server) drive.
type Project struct {
	engine   *capture.Engine
	reader   SourceReader
	status   StatusReporter
	resolver registry.ImportResolver

	mu         sync.Mutex
	Defs       *registry.DefinitionRegistry
	Resolution *resolve.ResolutionRegistry

	languages map[string]capture.Language
	semCache  *cache.SemanticCache
}

// SetSemanticCache wires a content-hash-keyed SemanticIndex cache into
// Phase 0, so buildOne can skip re-parsing and re-extracting a file
// whose bytes haven't changed since the last time it was processed. A
// nil cache (the default) disables this and always re-extracts.
func (p *Project) SetSemanticCache(c *cache.SemanticCache) {
	p.semCache = c
}

// New builds a Project. resolver resolves import specifiers to files —
// the one external collaborator spec.md's core declares out of scope
// that this orchestrator must supply for resolution to produce anything.
func New(engine *capture.Engine, reader SourceReader, resolver registry.ImportResolver, status StatusReporter) *Project {
	defs := registry.NewDefinitionRegistry()
	return &Project{
		engine:     engine,
		reader:     reader,
		status:     status,
		resolver:   resolver,
		Defs:       defs,
		Resolution: resolve.NewResolutionRegistry(defs, resolver),
		languages:  defaultLanguageMap(),
	}
}

func defaultLanguageMap() map[string]capture.Language {
	return map[string]capture.Language{
		".js":  capture.JavaScript,
		".jsx": capture.JavaScript,
		".mjs": capture.JavaScript,
		".cjs": capture.JavaScript,
		".ts":  capture.TypeScript,
		".tsx": capture.TypeScript,
		".py":  capture.Python,
		".rs":  capture.Rust,
	}
}

// LanguageForExt resolves a file extension (including the leading dot,
// e.g. ".ts") to the language used to parse it, or false if unsupported.
func (p *Project) LanguageForExt(ext string) (capture.Language, bool) {
	lang, ok := p.languages[ext]
	return lang, ok
}

// phase0Result is one file's Phase 0 outcome, carried back from a worker
// goroutine to the serializing collector.
type phase0Result struct {
	file ids.FilePath
	idx  *semantic.SemanticIndex
	err  error
}

// ProcessFiles runs the full pipeline over files: Phase 0 fans out across
// goroutines (one per file, capped by a worker pool sized like the
// teacher's fixed five-worker pool); phases 1 and 2 then run serialized
// exactly once over the whole batch, per spec.md's strict ordering
// contract. Returns every Phase 0 read/parse error encountered, one per
// failed file — a failed file is simply skipped, not fatal to the batch.
func (p *Project) ProcessFiles(files []ids.FilePath) []error {
	p.mu.Lock()
	defer p.mu.Unlock()

	results := p.runPhase0(files)

	var errs []error
	var succeeded []ids.FilePath
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("project: %s: %w", r.file, r.err))
			continue
		}
		p.Defs.UpdateFile(r.file, r.idx)
		succeeded = append(succeeded, r.file)
	}

	if len(succeeded) == 0 {
		return errs
	}

	p.Resolution.ResolveNames(succeeded)
	p.Resolution.UpdateTypes(succeeded)
	p.Resolution.ResolveCallsForFiles(succeeded)

	return errs
}

const numWorkers = 5

// runPhase0 parses and extracts every file concurrently, grounded on the
// teacher's fixed worker-pool + channel collection pattern.
func (p *Project) runPhase0(files []ids.FilePath) []phase0Result {
	fileChan := make(chan ids.FilePath, len(files))
	resultChan := make(chan phase0Result, len(files))
	var wg sync.WaitGroup

	worker := func(workerID int) {
		defer wg.Done()
		for file := range fileChan {
			if p.status != nil {
				p.status.FileStarted(workerID, file)
			}
			idx, err := p.buildOne(file)
			resultChan <- phase0Result{file: file, idx: idx, err: err}
			if p.status != nil {
				p.status.FileDone(workerID, file)
			}
		}
	}

	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go worker(i + 1)
	}
	for _, f := range files {
		fileChan <- f
	}
	close(fileChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	out := make([]phase0Result, 0, len(files))
	for r := range resultChan {
		out = append(out, r)
	}
	return out
}

func (p *Project) buildOne(file ids.FilePath) (*semantic.SemanticIndex, error) {
	source, err := p.reader.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading: %w", err)
	}
	if p.semCache != nil {
		if idx, ok := p.semCache.Get(file, source); ok {
			return idx, nil
		}
	}
	lang, ok := p.languages[extOf(string(file))]
	if !ok {
		return nil, fmt.Errorf("unsupported file extension")
	}
	tree, err := p.engine.Parse(lang, file, source)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	idx := extract.BuildSemanticIndex(tree)
	if p.semCache != nil {
		p.semCache.Put(file, source, idx)
	}
	return idx, nil
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i:]
		}
		if path[i] == '/' {
			break
		}
	}
	return ""
}

// RemoveFile drops file's contribution from every registry and
// re-serializes phases 1 and 2 over the remaining touched files, so
// resolutions that depended on the removed file's exports degrade to
// unresolved rather than pointing at stale symbols.
func (p *Project) RemoveFile(file ids.FilePath) {
	p.mu.Lock()
	defer p.mu.Unlock()

	remaining := p.Defs.Files()
	kept := remaining[:0]
	for _, f := range remaining {
		if f != file {
			kept = append(kept, f)
		}
	}

	p.Defs.RemoveFile(file)
	if p.semCache != nil {
		p.semCache.Remove(file)
	}

	if len(kept) == 0 {
		return
	}
	p.Resolution.ResolveNames(kept)
	p.Resolution.UpdateTypes(kept)
	p.Resolution.ResolveCallsForFiles(kept)
}
