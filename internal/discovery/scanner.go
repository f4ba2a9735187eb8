package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions are the fixture file extensions picked up from directories
var DefaultExtensions = []string{".c", ".cpp"}

// Scanner expands fixture arguments into fixture files
type Scanner struct {
	extensions map[string]bool
}

// NewScanner creates a new Scanner accepting the given extensions
func NewScanner(extensions []string) *Scanner {
	extMap := make(map[string]bool)
	for _, ext := range extensions {
		extMap[ext] = true
	}
	return &Scanner{extensions: extMap}
}

// Expand resolves each argument, which may be a file, a directory or a
// doublestar glob, into fixture files. Explicit files are kept as given,
// directory and glob matches are sorted; duplicates are dropped.
func (s *Scanner) Expand(args []string) ([]string, error) {
	var fixtures []string
	seen := make(map[string]bool)
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			fixtures = append(fixtures, path)
		}
	}

	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil {
			if !info.IsDir() {
				add(arg)
				continue
			}
			found, err := s.Scan(arg)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
			continue
		}

		if !strings.ContainsAny(arg, "*?[{") {
			return nil, fmt.Errorf("fixture does not exist: %s", arg)
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern '%s': %w", arg, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if s.isFixture(m) {
				add(m)
			}
		}
	}

	return fixtures, nil
}

// Scan finds all fixture files in the given root directory
func (s *Scanner) Scan(root string) ([]string, error) {
	var fixtures []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("fixture path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixture path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories (starting with .)
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isFixture(path) {
			fixtures = append(fixtures, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(fixtures)
	return fixtures, nil
}

// isFixture accepts files with a fixture extension that are not template
// head or tail files
func (s *Scanner) isFixture(path string) bool {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if !s.extensions[ext] {
		return false
	}
	stem := strings.TrimSuffix(name, ext)
	return !strings.HasSuffix(stem, ".head") && !strings.HasSuffix(stem, ".tail")
}
