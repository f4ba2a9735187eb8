package domain

import (
	"errors"
	"strings"
)

// ErrNotFinalized is returned when a case's source is read before its
// template tail has been appended.
var ErrNotFinalized = errors.New("test case source is not finalized")

// Template is the boilerplate wrapped around every case of a fixture
type Template struct {
	Name string
	Head string
	Tail string
}

// TestCase is one section of a fixture: template-wrapped code plus the
// diagnostics it is expected to produce.
type TestCase struct {
	Ordinal      int    // Position within the fixture, starting at 0
	Name         string // "<fixture> section <ordinal>"
	FixturePath  string // Fixture the case was read from
	Extension    string // Fixture extension, selects the language mode
	TemplateName string

	// ExpectedErrors are substrings that must each appear in some
	// diagnostic line. Empty means no diagnostics are expected.
	ExpectedErrors []string

	source    strings.Builder
	finalized bool
}

// NewTestCase opens a case whose source starts with the template head
func NewTestCase(ordinal int, name, fixturePath, ext string, tmpl Template) *TestCase {
	tc := &TestCase{
		Ordinal:      ordinal,
		Name:         name,
		FixturePath:  fixturePath,
		Extension:    ext,
		TemplateName: tmpl.Name,
	}
	tc.source.WriteString(tmpl.Head)
	tc.source.WriteString("\n")
	return tc
}

// AddSource appends one fixture line to the case source
func (tc *TestCase) AddSource(line string) {
	if tc.finalized {
		return
	}
	tc.source.WriteString(line)
	tc.source.WriteString("\n")
}

// AddError records an expected diagnostic fragment
func (tc *TestCase) AddError(line string) {
	tc.ExpectedErrors = append(tc.ExpectedErrors, line)
}

// Finalize appends the template tail. The source is immutable afterwards.
func (tc *TestCase) Finalize(tail string) {
	if tc.finalized {
		return
	}
	tc.source.WriteString(tail)
	tc.finalized = true
}

// Finalized reports whether the template tail has been appended
func (tc *TestCase) Finalized() bool {
	return tc.finalized
}

// Source returns the complete compilable unit
func (tc *TestCase) Source() (string, error) {
	if !tc.finalized {
		return "", ErrNotFinalized
	}
	return tc.source.String(), nil
}

// ExpectsError reports whether the case wants at least one diagnostic
func (tc *TestCase) ExpectsError() bool {
	return len(tc.ExpectedErrors) > 0
}
