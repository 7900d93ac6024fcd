// Package discovery walks a project root and returns the source files
// project.Project should index, honoring include/exclude glob patterns.
package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions are the file extensions project.Project knows how to
// parse (see project.defaultLanguageMap).
var DefaultExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".py", ".rs"}

// DefaultExclude skips the directories that are never project source:
// dependency trees, VCS metadata, and build output.
var DefaultExclude = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/vendor/**",
	"**/target/**",
	"**/dist/**",
	"**/build/**",
	"**/__pycache__/**",
	"**/*.min.js",
}

// Options controls DiscoverFiles. A nil Include matches every one of
// DefaultExtensions; a nil Exclude uses DefaultExclude.
type Options struct {
	Include []string
	Exclude []string
}

// DiscoverFiles walks rootDir applying Include/Exclude glob patterns,
// returning a sorted slice of absolute file paths for deterministic
// indexing order.
func DiscoverFiles(rootDir string, opts Options) ([]string, error) {
	include := opts.Include
	if include == nil {
		include = extensionGlobs(DefaultExtensions)
	}
	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}

	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("discovery: invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("discovery: invalid include pattern: %s", pattern)
		}
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("discovery: resolve root: %w", err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range exclude {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		matched := false
		for _, pattern := range include {
			if m, _ := doublestar.PathMatch(pattern, relPath); m {
				matched = true
				break
			}
		}
		if !matched {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func extensionGlobs(extensions []string) []string {
	globs := make([]string, len(extensions))
	for i, ext := range extensions {
		globs[i] = "**/*" + ext
	}
	return globs
}
