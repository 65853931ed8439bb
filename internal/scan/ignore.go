// Package scan is the driver around the outline core: it discovers source
// files under a root directory, applies gitignore-style exclusion, parses
// the survivors, and hands the collated results to the renderer.
package scan

import (
	"fmt"
	"os"
	"strings"

	"github.com/gobwas/glob"
)

// ignoreRule is one compiled line of an ignore file.
type ignoreRule struct {
	pattern  string
	negate   bool
	dirOnly  bool
	anchored bool
	root     glob.Glob // matches the pattern as written, relative to the root
	anyDepth glob.Glob // unanchored patterns also match at any depth
}

// Matcher applies gitignore-syntax exclusion rules: blank and comment lines
// are skipped, "!" negates, a trailing "/" restricts the rule to
// directories, and a pattern containing a "/" is anchored to the scan root.
// The last matching rule wins.
type Matcher struct {
	rules []ignoreRule
}

// ParsePatterns compiles ignore-file lines into a Matcher.
func ParsePatterns(lines []string) (*Matcher, error) {
	m := &Matcher{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rule := ignoreRule{}
		if strings.HasPrefix(line, "!") {
			rule.negate = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			rule.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		// A leading slash anchors to the scan root even after it is trimmed
		// away, so record the anchor before trimming.
		rule.anchored = strings.HasPrefix(line, "/") || strings.Contains(strings.TrimPrefix(line, "/"), "/")
		line = strings.TrimPrefix(line, "/")
		rule.pattern = line

		g, err := glob.Compile(line, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", rule.pattern, err)
		}
		rule.root = g

		if !rule.anchored {
			// "*.log" should match "logs/debug.log" too; gobwas globs are
			// whole-path matches, so compile a nested variant alongside.
			deep, err := glob.Compile("**/"+line, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid ignore pattern %q: %w", rule.pattern, err)
			}
			rule.anyDepth = deep
		}

		m.rules = append(m.rules, rule)
	}
	return m, nil
}

// Load reads an ignore file and compiles its patterns.
func Load(path string) (*Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePatterns(strings.Split(string(data), "\n"))
}

// Match reports whether a root-relative slash-separated path is excluded.
// A nil Matcher never matches.
func (m *Matcher) Match(relPath string, isDir bool) bool {
	if m == nil {
		return false
	}
	matched := false
	for _, rule := range m.rules {
		if rule.dirOnly && !isDir {
			continue
		}
		if rule.matches(relPath) {
			matched = !rule.negate
		}
	}
	return matched
}

func (r *ignoreRule) matches(relPath string) bool {
	if r.root.Match(relPath) {
		return true
	}
	return r.anyDepth != nil && r.anyDepth.Match(relPath)
}
