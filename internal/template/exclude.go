package template

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type excludeRule struct {
	glob    string
	negate  bool
	dirOnly bool
}

// excludeMatcher applies gitignore-style patterns to slash-separated paths
// relative to the template root. The last matching pattern wins; a leading
// "!" re-includes, a trailing "/" matches directories only, and a pattern
// without an inner "/" matches at any depth.
type excludeMatcher []excludeRule

func compileExcludes(patterns []string) (excludeMatcher, error) {
	m := make(excludeMatcher, 0, len(patterns))
	for _, pattern := range patterns {
		p := strings.TrimSpace(pattern)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}

		var r excludeRule
		if strings.HasPrefix(p, "!") {
			r.negate = true
			p = p[1:]
		}
		if strings.HasSuffix(p, "/") {
			r.dirOnly = true
			p = strings.TrimRight(p, "/")
		}
		if strings.Contains(p, "/") {
			p = strings.TrimPrefix(p, "/")
		} else {
			p = "**/" + p
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
		r.glob = p
		m = append(m, r)
	}
	return m, nil
}

// Match reports whether rel is excluded.
func (m excludeMatcher) Match(rel string, isDir bool) bool {
	excluded := false
	for _, r := range m {
		if r.dirOnly && !isDir {
			continue
		}
		if ok, _ := doublestar.Match(r.glob, rel); ok {
			excluded = !r.negate
		}
	}
	return excluded
}
