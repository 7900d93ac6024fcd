// Package watch provides an fsnotify-based file watcher that
// incrementally reindexes a project.Project as source files change on
// disk, debouncing rapid-fire edits into a single reindex per file.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/output"
	"github.com/shivasurya/semindex/internal/project"
)

// Options configures a Watcher.
type Options struct {
	DebounceMs     int
	IgnorePatterns []string
}

// DefaultOptions returns sane defaults: a 200ms debounce window and no
// extra ignore patterns beyond the built-in dependency/VCS directories.
func DefaultOptions() Options {
	return Options{DebounceMs: 200}
}

// Watcher watches a root directory and keeps a project.Project's index
// in sync with the filesystem.
type Watcher struct {
	fsw     *fsnotify.Watcher
	project *project.Project
	logger  *output.Logger
	options Options

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// New creates a Watcher that reindexes proj on fsnotify events.
func New(proj *project.Project, logger *output.Logger, options Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if options.DebounceMs == 0 {
		options.DebounceMs = 200
	}
	return &Watcher{
		fsw:            fsw,
		project:        proj,
		logger:         logger,
		options:        options,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start watches rootPath and every subdirectory not covered by an
// ignore pattern, then runs the event loop in a background goroutine.
func (w *Watcher) Start(rootPath string) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("watch: watcher already stopped")
	}
	w.mu.Unlock()

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warning("watch: failed to watch %s: %v", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: setup watches: %w", err)
	}

	w.logger.Progress("Watching %s for changes", rootPath)
	go w.eventLoop()
	return nil
}

// Stop shuts the watcher down. Idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	w.debounceMu.Unlock()

	return w.fsw.Close()
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch: fsnotify error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if w.shouldIgnore(path) {
		return
	}
	if _, ok := w.project.LanguageForExt(filepath.Ext(path)); !ok {
		return
	}

	switch {
	case event.Op&fsnotify.Write == fsnotify.Write, event.Op&fsnotify.Create == fsnotify.Create:
		w.debounceReindex(path)
	case event.Op&fsnotify.Remove == fsnotify.Remove, event.Op&fsnotify.Rename == fsnotify.Rename:
		w.project.RemoveFile(ids.FilePath(path))
	}
}

func (w *Watcher) debounceReindex(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
	}
	w.debounceTimers[path] = time.AfterFunc(
		time.Duration(w.options.DebounceMs)*time.Millisecond,
		func() {
			w.reindexFile(path)
			w.debounceMu.Lock()
			delete(w.debounceTimers, path)
			w.debounceMu.Unlock()
		},
	)
}

func (w *Watcher) reindexFile(path string) {
	if errs := w.project.ProcessFiles([]ids.FilePath{ids.FilePath(path)}); len(errs) > 0 {
		for _, err := range errs {
			w.logger.Warning("watch: reindex %s: %v", path, err)
		}
		return
	}
	w.logger.Debug("watch: reindexed %s", path)
}

func (w *Watcher) shouldIgnore(path string) bool {
	for _, pattern := range w.options.IgnorePatterns {
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}
	switch filepath.Base(path) {
	case "node_modules", ".git", "dist", "build", "target", "__pycache__", "vendor":
		return true
	}
	return false
}

// Stats reports the watcher's current activity.
type Stats struct {
	PendingReindexes int
	Running          bool
}

// GetStats returns the watcher's current activity snapshot.
func (w *Watcher) GetStats() Stats {
	w.debounceMu.Lock()
	pending := len(w.debounceTimers)
	w.debounceMu.Unlock()

	w.mu.Lock()
	running := !w.stopped
	w.mu.Unlock()

	return Stats{PendingReindexes: pending, Running: running}
}
