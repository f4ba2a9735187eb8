package parser

import (
	"testing"

	"diagtest/internal/domain"
)

var _ Parser = (*ClangParser)(nil)

func TestClangParser_ParseLine(t *testing.T) {
	p := NewClangParser()

	tests := []struct {
		name     string
		line     string
		ok       bool
		expected domain.Diagnostic
	}{
		{
			name: "warning with flag",
			line: "/tmp/diagtest-1.c:10:3: warning: Expected a GVariant variadic argument of type ‘char *’ but saw NULL instead. [-Wgnome]",
			ok:   true,
			expected: domain.Diagnostic{
				File:     "/tmp/diagtest-1.c",
				Line:     10,
				Column:   3,
				Severity: domain.SeverityWarning,
				Message:  "Expected a GVariant variadic argument of type ‘char *’ but saw NULL instead.",
				Flag:     "-Wgnome",
			},
		},
		{
			name: "error without column",
			line: "a.c:4: error: use of undeclared identifier 'x'",
			ok:   true,
			expected: domain.Diagnostic{
				File:     "a.c",
				Line:     4,
				Severity: domain.SeverityError,
				Message:  "use of undeclared identifier 'x'",
			},
		},
		{
			name: "fatal error",
			line: "a.c:1:10: fatal error: 'glib.h' file not found",
			ok:   true,
			expected: domain.Diagnostic{
				File:     "a.c",
				Line:     1,
				Column:   10,
				Severity: domain.SeverityFatal,
				Message:  "'glib.h' file not found",
			},
		},
		{name: "source excerpt", line: "  g_variant_new (\"(s)\", NULL);", ok: false},
		{name: "caret", line: "  ^", ok: false},
		{name: "summary", line: "1 warning generated.", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := p.ParseLine(tt.line)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && d != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, d)
			}
		})
	}
}

func TestClangParser_ParseLines(t *testing.T) {
	lines := []string{
		"a.c:3:5: warning: first [-Wgnome]",
		"  foo();",
		"    ^",
		"a.c:3:5: note: declared here",
		"a.c:7:1: warning: second",
		"2 warnings generated.",
	}

	diagnostics := NewClangParser().ParseLines(lines)
	if len(diagnostics) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(diagnostics))
	}

	counts := Count(diagnostics)
	if counts[domain.SeverityWarning] != 2 || counts[domain.SeverityNote] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}

	if got := diagnostics[0].Location(); got != "a.c:3:5" {
		t.Errorf("expected location a.c:3:5, got %s", got)
	}
}
