package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// compiledInclude holds an include pattern with its root-level variant, so
// "**/*.py" matches both "main.py" and "pkg/util.py".
type compiledInclude struct {
	pattern string
	full    glob.Glob
	rootTop glob.Glob
}

// Discovery walks a directory tree and returns the relative paths of source
// files to outline, in lexicographic order. Ignored directories are pruned
// so their contents are never visited.
type Discovery struct {
	rootDir string
	include []compiledInclude
	ignore  *Matcher
}

// NewDiscovery creates a Discovery for the given root. Include patterns are
// globs over root-relative paths; ignore may be nil.
func NewDiscovery(rootDir string, includePatterns []string, ignore *Matcher) (*Discovery, error) {
	d := &Discovery{
		rootDir: rootDir,
		ignore:  ignore,
	}

	for _, pattern := range includePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		ci := compiledInclude{pattern: pattern, full: g}
		if trimmed, ok := strings.CutPrefix(pattern, "**/"); ok {
			top, err := glob.Compile(trimmed, '/')
			if err != nil {
				return nil, err
			}
			ci.rootTop = top
		}
		d.include = append(d.include, ci)
	}
	return d, nil
}

// Discover returns the sorted root-relative paths of all included files.
func (d *Discovery) Discover() ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(d.rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			// Version control metadata is never outline material.
			if entry.Name() == ".git" || d.ignore.Match(rel, true) {
				return fs.SkipDir
			}
			return nil
		}

		if d.ignore.Match(rel, false) {
			return nil
		}
		if d.matchesInclude(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// matchesInclude checks a path against the include patterns, falling back to
// the root-level variant for paths without a directory component.
func (d *Discovery) matchesInclude(relPath string) bool {
	for _, ci := range d.include {
		if ci.full.Match(relPath) {
			return true
		}
		if ci.rootTop != nil && !strings.Contains(relPath, "/") && ci.rootTop.Match(relPath) {
			return true
		}
	}
	return false
}
