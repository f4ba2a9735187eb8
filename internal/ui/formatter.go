package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"diagtest/internal/config"
	"diagtest/internal/domain"

	"github.com/fatih/color"
)

// Formatter formats and displays human-oriented output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(cfg *config.Config, out io.Writer) *Formatter {
	return &Formatter{
		config: cfg,
		out:    out,
	}
}

// PrintSummary displays the statistics of a run as a table
func (f *Formatter) PrintSummary(output *domain.RunOutput) {
	meta := output.Meta
	cyan := color.New(color.FgCyan)
	white := color.New(color.FgWhite)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	fmt.Fprint(f.out, "\n")
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                 Diagnostic Conformance Summary                ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	f.row("Fixtures", white, fmt.Sprintf("%d", len(meta.Fixtures)))
	f.separator()
	f.row("Total Cases", white, fmt.Sprintf("%d", meta.TotalCases))
	f.separator()
	f.row("Passed Cases", green, fmt.Sprintf("%d", meta.PassedCases))
	f.separator()
	f.row("Failed Cases", red, fmt.Sprintf("%d", meta.FailedCases))
	f.separator()
	f.row("Skipped Cases", yellow, fmt.Sprintf("%d", meta.SkippedCases))
	f.separator()
	f.row("Strict Exit Status", white, fmt.Sprintf("%t", meta.Strict))
	f.separator()
	f.row("Duration", white, fmt.Sprintf("%.2fs", meta.DurationSeconds))
	f.separator()
	f.row("Timestamp", white, meta.Timestamp)
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if meta.FailedCases == 0 {
		green.Fprintln(f.out, "✓ All cases passed!")
		return
	}

	red.Fprintf(f.out, "✗ %d case(s) failed\n", meta.FailedCases)
	fmt.Fprintln(f.out)
	f.printFailureTree(output.Details)
}

func (f *Formatter) row(label string, c *color.Color, value string) {
	fmt.Fprintf(f.out, "│ %-31s │ ", label)
	c.Fprintf(f.out, "%-27s", value)
	fmt.Fprint(f.out, " │\n")
}

func (f *Formatter) separator() {
	fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
}

// printFailureTree prints failed cases grouped by fixture, in run order
func (f *Formatter) printFailureTree(failures []domain.CaseFailure) {
	var fixtures []string
	byFixture := make(map[string][]domain.CaseFailure)
	for _, failure := range failures {
		if _, ok := byFixture[failure.Fixture]; !ok {
			fixtures = append(fixtures, failure.Fixture)
		}
		byFixture[failure.Fixture] = append(byFixture[failure.Fixture], failure)
	}

	for i, fixture := range fixtures {
		isLastFixture := i == len(fixtures)-1
		f.branch(isLastFixture, "", color.New(color.FgCyan), f.relative(fixture))

		prefix := "│   "
		if isLastFixture {
			prefix = "    "
		}
		cases := byFixture[fixture]
		for j, failure := range cases {
			label := failure.Name
			if failure.TempPath != "" {
				label += color.HiBlackString(" (kept %s)", failure.TempPath)
			}
			f.branch(j == len(cases)-1, prefix, color.New(color.FgRed), label)
		}
	}
}

// PrintCaseList prints the parsed cases of each fixture. With showCases the
// expected diagnostics of every case are listed too.
func (f *Formatter) PrintCaseList(fixtures []FixtureListing, showCases bool) {
	total := 0
	for _, fx := range fixtures {
		total += len(fx.Cases)
	}
	color.New(color.FgGreen).Fprintf(f.out, "Found %d case(s) in %d fixture(s):\n\n", total, len(fixtures))

	for i, fx := range fixtures {
		isLastFixture := i == len(fixtures)-1
		f.branch(isLastFixture, "", color.New(color.FgCyan),
			fmt.Sprintf("%s %s", f.relative(fx.Path), color.HiBlackString("[template: %s]", fx.Template)))

		prefix := "│   "
		if isLastFixture {
			prefix = "    "
		}
		if len(fx.Cases) == 0 {
			f.branch(true, prefix, color.New(color.FgRed), "(no sections found)")
			continue
		}

		for j, tc := range fx.Cases {
			isLastCase := j == len(fx.Cases)-1
			f.branch(isLastCase, prefix, color.New(color.FgYellow), fmt.Sprintf("section %d", tc.Ordinal))
			if !showCases {
				continue
			}

			casePrefix := prefix + "│   "
			if isLastCase {
				casePrefix = prefix + "    "
			}
			if !tc.ExpectsError() {
				f.branch(true, casePrefix, color.New(color.FgGreen), "No error")
				continue
			}
			for k, line := range tc.ExpectedErrors {
				f.branch(k == len(tc.ExpectedErrors)-1, casePrefix, color.New(color.FgWhite), strings.TrimSpace(line))
			}
		}
	}
}

// FixtureListing is the input of PrintCaseList
type FixtureListing struct {
	Path     string
	Template string
	Cases    []*domain.TestCase
}

func (f *Formatter) branch(isLast bool, prefix string, c *color.Color, text string) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	fmt.Fprint(f.out, prefix+connector)
	c.Fprintln(f.out, text)
}

// relative returns path relative to the work dir for cleaner display
func (f *Formatter) relative(path string) string {
	base, err := filepath.Abs(f.config.WorkDir)
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
