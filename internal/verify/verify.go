package verify

import (
	"strings"

	"diagtest/internal/domain"
)

// Reasons a case can fail
const (
	ReasonMissingExpected  = "expected compiler error was not seen"
	ReasonUnexpectedOutput = "compiler error when none was expected"
	ReasonToolFailure      = "analysis tool failed"
)

// Strictness decides how the tool's exit status is treated
type Strictness int

const (
	// StrictnessLenient judges a case by its diagnostic lines only
	StrictnessLenient Strictness = iota
	// StrictnessStrict also fails cases whose tool could not be launched,
	// or exited non-zero while no diagnostic was expected
	StrictnessStrict
)

// StrictnessFrom maps the --strict flag to a Strictness
func StrictnessFrom(strict bool) Strictness {
	if strict {
		return StrictnessStrict
	}
	return StrictnessLenient
}

// Verdict is the outcome of verifying one case
type Verdict struct {
	Passed     bool
	Mismatches []string
	Reason     string
}

// Verify compares expected diagnostic fragments with the actual lines.
//
// With expected lines, every fragment must be a substring of at least one
// actual line; extra actual lines are allowed. Without expected lines, any
// actual line fails the case.
func Verify(expected, actual []string) Verdict {
	if len(expected) == 0 {
		if len(actual) > 0 {
			return Verdict{Reason: ReasonUnexpectedOutput}
		}
		return Verdict{Passed: true}
	}

	mismatches := NonMatchingLines(expected, actual)
	if len(mismatches) > 0 {
		return Verdict{Mismatches: mismatches, Reason: ReasonMissingExpected}
	}
	return Verdict{Passed: true}
}

// NonMatchingLines returns the expected fragments that no actual line contains
func NonMatchingLines(expected, actual []string) []string {
	var missing []string
	for _, e := range expected {
		if !containedInAny(e, actual) {
			missing = append(missing, e)
		}
	}
	return missing
}

func containedInAny(fragment string, lines []string) bool {
	for _, line := range lines {
		if strings.Contains(line, fragment) {
			return true
		}
	}
	return false
}

// Classify verifies an invocation against the expected fragments, applying
// the exit-status strictness on top of line matching.
func Classify(expected []string, inv domain.Invocation, strictness Strictness) Verdict {
	if strictness == StrictnessStrict {
		if !inv.Launched() {
			return Verdict{Reason: ReasonToolFailure}
		}
		if len(expected) == 0 && inv.ExitCode != 0 {
			return Verdict{Reason: ReasonToolFailure}
		}
	}
	return Verify(expected, inv.Lines)
}

// SplitLines splits a diagnostic stream into lines. Any non-empty stream
// yields at least one line, so a lone newline still counts as output.
func SplitLines(stream string) []string {
	if stream == "" {
		return nil
	}
	stream = strings.ReplaceAll(stream, "\r\n", "\n")
	stream = strings.TrimSuffix(stream, "\n")
	return strings.Split(stream, "\n")
}
