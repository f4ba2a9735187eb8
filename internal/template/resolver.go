package template

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"diagtest/internal/domain"
)

// ErrNotFound is returned when a template head or tail file is missing
var ErrNotFound = errors.New("template not found")

// Resolver locates the head and tail boilerplate of named templates
type Resolver struct {
	dir    string
	suffix string
	cache  map[string]domain.Template
}

// NewResolver creates a Resolver reading <dir>/<name>.head<suffix> and
// <dir>/<name>.tail<suffix>
func NewResolver(dir, suffix string) *Resolver {
	return &Resolver{
		dir:    dir,
		suffix: suffix,
		cache:  make(map[string]domain.Template),
	}
}

// Dir returns the directory templates are read from
func (r *Resolver) Dir() string {
	return r.dir
}

// Resolve returns the head and tail text of the named template
func (r *Resolver) Resolve(name string) (domain.Template, error) {
	if tmpl, ok := r.cache[name]; ok {
		return tmpl, nil
	}

	head, err := r.read(name, "head")
	if err != nil {
		return domain.Template{}, err
	}
	tail, err := r.read(name, "tail")
	if err != nil {
		return domain.Template{}, err
	}

	tmpl := domain.Template{Name: name, Head: head, Tail: tail}
	r.cache[name] = tmpl
	return tmpl, nil
}

// Paths returns the head and tail file paths for a template name
func (r *Resolver) Paths(name string) (head, tail string) {
	return r.path(name, "head"), r.path(name, "tail")
}

func (r *Resolver) path(name, part string) string {
	return filepath.Join(r.dir, fmt.Sprintf("%s.%s%s", name, part, r.suffix))
}

func (r *Resolver) read(name, part string) (string, error) {
	path := r.path(name, part)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s %s (%s)", ErrNotFound, name, part, path)
		}
		return "", fmt.Errorf("read template %s: %w", path, err)
	}
	return string(data), nil
}
