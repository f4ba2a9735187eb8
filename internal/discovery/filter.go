package discovery

import (
	"path/filepath"
	"strings"

	"diagtest/internal/domain"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter filters test cases by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps the cases whose name matches pattern.
// Supports patterns like "*gvariant*" or "*section 3"; a wildcard pattern
// must match the whole name, a pattern without wildcards matches as a
// substring. Case names contain the fixture path, so
// the base name of the fixture is tried as well.
func (f *Filter) FilterByName(cases []*domain.TestCase, pattern string) []*domain.TestCase {
	if pattern == "" {
		return cases
	}

	var filtered []*domain.TestCase
	for _, tc := range cases {
		if f.matches(pattern, tc.Name) || f.matches(pattern, filepath.Base(tc.Name)) {
			filtered = append(filtered, tc)
		}
	}
	return filtered
}

func (f *Filter) matches(pattern, name string) bool {
	if !strings.ContainsAny(pattern, "*?[{") {
		return strings.Contains(name, pattern)
	}

	matched, err := doublestar.Match(pattern, name)
	return err == nil && matched
}
