package parser

import (
	"regexp"
	"strconv"
	"strings"

	"diagtest/internal/domain"
)

// file:line:col: severity: message [-Wflag]
var diagnosticLine = regexp.MustCompile(`^(.+?):(\d+):(?:(\d+):)?\s*(fatal error|error|warning|note|remark):\s*(.*)$`)

var flagSuffix = regexp.MustCompile(`\s*\[([^\[\]]+)\]$`)

// ClangParser parses clang-style diagnostic lines
type ClangParser struct{}

// NewClangParser creates a new ClangParser
func NewClangParser() *ClangParser {
	return &ClangParser{}
}

// ParseLines extracts the diagnostics found in lines. Lines that are not
// diagnostics (source excerpts, carets, summaries) are skipped.
func (p *ClangParser) ParseLines(lines []string) []domain.Diagnostic {
	var diagnostics []domain.Diagnostic
	for _, line := range lines {
		if d, ok := p.ParseLine(line); ok {
			diagnostics = append(diagnostics, d)
		}
	}
	return diagnostics
}

// ParseLine parses a single diagnostic line
func (p *ClangParser) ParseLine(line string) (domain.Diagnostic, bool) {
	m := diagnosticLine.FindStringSubmatch(strings.TrimRight(line, " \t"))
	if m == nil {
		return domain.Diagnostic{}, false
	}

	d := domain.Diagnostic{
		File:     m[1],
		Severity: domain.Severity(m[4]),
		Message:  m[5],
	}
	d.Line, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		d.Column, _ = strconv.Atoi(m[3])
	}
	if f := flagSuffix.FindStringSubmatch(d.Message); f != nil {
		d.Flag = f[1]
		d.Message = strings.TrimSuffix(d.Message, f[0])
	}
	return d, true
}

// Count returns the number of diagnostics of each severity
func Count(diagnostics []domain.Diagnostic) map[domain.Severity]int {
	counts := make(map[domain.Severity]int)
	for _, d := range diagnostics {
		counts[d.Severity]++
	}
	return counts
}
