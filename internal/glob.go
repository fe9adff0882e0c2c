// Package internal contains helpers shared by the commands and archive readers.
package internal

import (
	"fmt"
	"path"
	"strings"
)

// MatchGlobParents is like path.Match, but will match if any component matches
// with optional anchoring. Backslashes are treated as separators and matching
// ignores ASCII case, since Source engine paths are case-insensitive.
func MatchGlobParents(pattern string, name string) (matched bool, err error) {
	pattern = normalizePath(pattern)
	name = normalizePath(name)

	pattern, anchor := strings.CutPrefix(pattern, "/")
	pattern = strings.Trim(pattern, "/")
	name = strings.Trim(name, "/")

	// anchored but empty matches everything
	if anchor && pattern == "" {
		return true, nil
	}

	for name != "" {
		if m, err := path.Match(pattern, name); m || err != nil {
			return m, err
		}
		parent, base := path.Split(name)
		if !anchor {
			if m, err := path.Match(pattern, base); m || err != nil {
				return m, err
			}
		}
		name = strings.TrimRight(parent, "/")
	}
	return false, nil
}

// normalizePath lower-cases p, converts backslashes, and collapses repeated
// slashes (keeping a leading one).
func normalizePath(p string) string {
	p = strings.ToLower(strings.ReplaceAll(p, "\\", "/"))
	lead := strings.HasPrefix(p, "/")
	p = strings.Join(strings.FieldsFunc(p, func(r rune) bool { return r == '/' }), "/")
	if lead {
		p = "/" + p
	}
	return p
}

// Filter selects paths using exclude globs, with include globs taking
// precedence. If there are only includes, everything else is excluded. If
// there are neither, nothing is excluded.
type Filter struct {
	Exclude []string
	Include []string
}

// Excluded checks whether name is filtered out.
func (f Filter) Excluded(name string) (bool, error) {
	excluded := len(f.Exclude) == 0 && len(f.Include) != 0
	for _, x := range f.Exclude {
		if m, err := MatchGlobParents(x, name); err != nil {
			return false, fmt.Errorf("process excludes: match %q against glob %q: %w", name, x, err)
		} else if m {
			excluded = true
			break
		}
	}
	for _, x := range f.Include {
		if m, err := MatchGlobParents(x, name); err != nil {
			return false, fmt.Errorf("process includes: match %q against glob %q: %w", name, x, err)
		} else if m {
			excluded = false
			break
		}
	}
	return excluded, nil
}
