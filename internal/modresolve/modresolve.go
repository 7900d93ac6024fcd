// Package modresolve implements the one external collaborator spec.md
// section 6 calls resolve_import_path: (importer_file, specifier) ->
// FilePath?. It is a pure function over the filesystem with no
// dependency on the core — registry.ImportGraph calls it at most once
// per import Definition and caches the result.
package modresolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shivasurya/semindex/internal/ids"
)

// jsCandidateExtensions is tried, in order, for a relative JS/TS
// specifier with no extension of its own.
var jsCandidateExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// jsIndexFiles is tried when a specifier resolves to a directory.
var jsIndexFiles = []string{"index.ts", "index.tsx", "index.js", "index.jsx"}

// Resolver resolves import specifiers to files on disk, rooted at a
// fixed project root. It implements registry.ImportResolver.
type Resolver struct {
	Root string
	stat func(string) (os.FileInfo, error)
}

// New creates a Resolver rooted at projectRoot (used to resolve Python
// absolute-looking package specifiers back to a file under the project).
// Rust `crate::`, `self::` and `super::` paths do not use the root: the
// prefix is stripped and the rest is resolved from the importer's own
// directory.
func New(projectRoot string) *Resolver {
	return &Resolver{Root: projectRoot, stat: os.Stat}
}

// ResolveImportPath implements registry.ImportResolver. Non-relative
// specifiers (bare package names: "react", "numpy", external crates) are
// intentionally left unresolved — spec.md scopes this collaborator to
// project-local resolution; unresolved imports degrade to "skipped"
// per section 7, never an error.
func (r *Resolver) ResolveImportPath(importer ids.FilePath, specifier string) (ids.FilePath, bool) {
	switch languageOf(string(importer)) {
	case "rust":
		return r.resolveRust(importer, specifier)
	case "python":
		return r.resolvePython(importer, specifier)
	default:
		return r.resolveJS(importer, specifier)
	}
}

func languageOf(file string) string {
	switch filepath.Ext(file) {
	case ".rs":
		return "rust"
	case ".py":
		return "python"
	default:
		return "js"
	}
}

func (r *Resolver) resolveJS(importer ids.FilePath, specifier string) (ids.FilePath, bool) {
	if !isRelative(specifier) {
		return "", false
	}
	base := filepath.Join(filepath.Dir(string(importer)), filepath.FromSlash(specifier))

	if filepath.Ext(base) != "" {
		if r.isFile(base) {
			return ids.FilePath(base), true
		}
		return "", false
	}
	for _, ext := range jsCandidateExtensions {
		if candidate := base + ext; r.isFile(candidate) {
			return ids.FilePath(candidate), true
		}
	}
	for _, idx := range jsIndexFiles {
		if candidate := filepath.Join(base, idx); r.isFile(candidate) {
			return ids.FilePath(candidate), true
		}
	}
	return "", false
}

func (r *Resolver) resolvePython(importer ids.FilePath, specifier string) (ids.FilePath, bool) {
	dots := leadingDots(specifier)
	rest := strings.TrimLeft(specifier, ".")
	parts := strings.Split(rest, ".")

	var base string
	if dots > 0 {
		dir := filepath.Dir(string(importer))
		for i := 1; i < dots; i++ {
			dir = filepath.Dir(dir)
		}
		base = filepath.Join(append([]string{dir}, parts...)...)
	} else {
		if r.Root == "" {
			return "", false
		}
		base = filepath.Join(append([]string{r.Root}, parts...)...)
	}

	if candidate := base + ".py"; r.isFile(candidate) {
		return ids.FilePath(candidate), true
	}
	if candidate := filepath.Join(base, "__init__.py"); r.isFile(candidate) {
		return ids.FilePath(candidate), true
	}
	return "", false
}

func (r *Resolver) resolveRust(importer ids.FilePath, specifier string) (ids.FilePath, bool) {
	if strings.HasPrefix(specifier, "crate::") || strings.HasPrefix(specifier, "self::") || strings.HasPrefix(specifier, "super::") {
		dir := filepath.Dir(string(importer))
		trimmed := strings.TrimPrefix(strings.TrimPrefix(strings.TrimPrefix(specifier, "crate::"), "self::"), "super::")
		segments := strings.Split(trimmed, "::")
		base := filepath.Join(append([]string{dir}, segments...)...)
		if candidate := base + ".rs"; r.isFile(candidate) {
			return ids.FilePath(candidate), true
		}
		if candidate := filepath.Join(base, "mod.rs"); r.isFile(candidate) {
			return ids.FilePath(candidate), true
		}
		return "", false
	}
	// Bare `mod foo;` declarations are sibling-relative.
	dir := filepath.Dir(string(importer))
	if candidate := filepath.Join(dir, specifier+".rs"); r.isFile(candidate) {
		return ids.FilePath(candidate), true
	}
	if candidate := filepath.Join(dir, specifier, "mod.rs"); r.isFile(candidate) {
		return ids.FilePath(candidate), true
	}
	return "", false
}

func (r *Resolver) isFile(p string) bool {
	stat := r.stat
	if stat == nil {
		stat = os.Stat
	}
	info, err := stat(p)
	return err == nil && !info.IsDir()
}

func isRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") || specifier == "." || specifier == ".."
}

func leadingDots(specifier string) int {
	n := 0
	for n < len(specifier) && specifier[n] == '.' {
		n++
	}
	return n
}
