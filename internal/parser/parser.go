package parser

import "diagtest/internal/domain"

// Parser parses analysis tool output into diagnostics
type Parser interface {
	ParseLine(line string) (domain.Diagnostic, bool)
	ParseLines(lines []string) []domain.Diagnostic
}
