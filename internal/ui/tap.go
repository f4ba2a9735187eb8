package ui

import (
	"fmt"
	"io"
	"strings"

	"diagtest/internal/domain"
	"diagtest/internal/verify"

	"github.com/fatih/color"
)

// TAPWriter renders case outcomes as a Test Anything Protocol stream
type TAPWriter struct {
	w       io.Writer
	verbose bool
	ok      *color.Color
	notOK   *color.Color
	comment *color.Color
}

// NewTAPWriter creates a TAPWriter. colored enables ANSI colours on the
// result lines, which only makes sense when w is a terminal.
func NewTAPWriter(w io.Writer, verbose, colored bool) *TAPWriter {
	t := &TAPWriter{
		w:       w,
		verbose: verbose,
		ok:      color.New(color.FgGreen),
		notOK:   color.New(color.FgRed, color.Bold),
		comment: color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{t.ok, t.notOK, t.comment} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

// Plan writes the plan line with the total case count
func (t *TAPWriter) Plan(count int) {
	fmt.Fprintf(t.w, "1..%d\n", count)
}

// Comment writes a diagnostic comment line
func (t *TAPWriter) Comment(format string, args ...any) {
	t.comment.Fprintf(t.w, "# "+format+"\n", args...)
}

// Verbose writes a comment only in verbose mode
func (t *TAPWriter) Verbose(format string, args ...any) {
	if t.verbose {
		t.Comment(format, args...)
	}
}

// Block writes indented multi-line text as comments
func (t *TAPWriter) Block(lines []string) {
	if len(lines) == 0 {
		t.Comment("    ")
		return
	}
	for _, line := range lines {
		t.Comment("    %s", line)
	}
}

// Result writes the detail block of a case followed by its result line
func (t *TAPWriter) Result(number int, result domain.CaseResult) {
	inv := result.Invocation
	t.Verbose("compiling %s", strings.Join(inv.Args, " "))

	if !result.Passed {
		t.failureDetails(result)
		if inv.TempPath != "" {
			t.Verbose("not deleting %s", inv.TempPath)
		}
	}

	if result.Passed {
		t.ok.Fprintf(t.w, "ok %d %s\n", number, result.Case.Name)
	} else {
		t.notOK.Fprintf(t.w, "not ok %d %s\n", number, result.Case.Name)
	}
}

// Skip writes a result line for a case that was not executed
func (t *TAPWriter) Skip(number int, tc *domain.TestCase, reason string) {
	t.ok.Fprintf(t.w, "ok %d %s # SKIP %s\n", number, tc.Name, reason)
}

func (t *TAPWriter) failureDetails(result domain.CaseResult) {
	inv := result.Invocation

	switch result.Reason {
	case verify.ReasonMissingExpected:
		for _, line := range result.Mismatches {
			t.Comment("Non-matching line: %s", line)
		}
		t.Comment("Error: %s.", result.Reason)
		t.Comment("Expected:")
		t.Block(result.Case.ExpectedErrors)
		t.Comment("Actual:")
		t.Block(inv.Lines)
	case verify.ReasonUnexpectedOutput:
		t.Comment("Error: %s.", result.Reason)
		t.Block(inv.Lines)
	case verify.ReasonToolFailure:
		if inv.LaunchErr != "" {
			t.Comment("Error: %s: %s", result.Reason, inv.LaunchErr)
		} else {
			t.Comment("Error: %s (exit status %d).", result.Reason, inv.ExitCode)
		}
		if len(inv.Lines) > 0 {
			t.Block(inv.Lines)
		}
	default:
		t.Comment("Error: %s", result.Reason)
	}
}
