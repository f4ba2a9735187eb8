package ui

import (
	"bytes"
	"testing"

	"diagtest/internal/config"
	"diagtest/internal/domain"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestFormatter_PrintSummary(t *testing.T) {
	noColor(t)
	cfg := &config.Config{WorkDir: "/project"}

	t.Run("all passed", func(t *testing.T) {
		var buf bytes.Buffer
		NewFormatter(cfg, &buf).PrintSummary(&domain.RunOutput{
			Meta: domain.RunMeta{Fixtures: []string{"/project/tests/a.c"}, TotalCases: 3, PassedCases: 3},
		})
		out := buf.String()
		assert.Contains(t, out, "Diagnostic Conformance Summary")
		assert.Contains(t, out, "All cases passed!")
	})

	t.Run("failures grouped by fixture", func(t *testing.T) {
		var buf bytes.Buffer
		NewFormatter(cfg, &buf).PrintSummary(&domain.RunOutput{
			Meta: domain.RunMeta{TotalCases: 3, PassedCases: 1, FailedCases: 2},
			Details: []domain.CaseFailure{
				{Name: "tests/a.c section 1", Fixture: "/project/tests/a.c", TempPath: "/tmp/diagtest-1.c"},
				{Name: "tests/b.c section 0", Fixture: "/project/tests/b.c"},
			},
		})
		out := buf.String()
		assert.Contains(t, out, "2 case(s) failed")
		assert.Contains(t, out, "├── tests/a.c\n")
		assert.Contains(t, out, "│   └── tests/a.c section 1 (kept /tmp/diagtest-1.c)\n")
		assert.Contains(t, out, "└── tests/b.c\n")
		assert.Contains(t, out, "    └── tests/b.c section 0\n")
	})
}

func TestFormatter_PrintCaseList(t *testing.T) {
	noColor(t)
	cfg := &config.Config{WorkDir: "/project"}

	withError := domain.NewTestCase(0, "a.c section 0", "/project/a.c", ".c", domain.Template{Name: "gsignal"})
	withError.AddError("  bad signal name")
	withError.Finalize("")
	clean := domain.NewTestCase(1, "a.c section 1", "/project/a.c", ".c", domain.Template{Name: "gsignal"})
	clean.Finalize("")

	fixtures := []FixtureListing{
		{Path: "/project/a.c", Template: "gsignal", Cases: []*domain.TestCase{withError, clean}},
		{Path: "/project/empty.c", Template: "generic"},
	}

	t.Run("sections only", func(t *testing.T) {
		var buf bytes.Buffer
		NewFormatter(cfg, &buf).PrintCaseList(fixtures, false)
		out := buf.String()
		assert.Contains(t, out, "Found 2 case(s) in 2 fixture(s)")
		assert.Contains(t, out, "├── a.c [template: gsignal]\n")
		assert.Contains(t, out, "│   ├── section 0\n")
		assert.Contains(t, out, "│   └── section 1\n")
		assert.Contains(t, out, "    └── (no sections found)\n")
		assert.NotContains(t, out, "bad signal name")
	})

	t.Run("with expected diagnostics", func(t *testing.T) {
		var buf bytes.Buffer
		NewFormatter(cfg, &buf).PrintCaseList(fixtures, true)
		out := buf.String()
		assert.Contains(t, out, "│   │   └── bad signal name\n")
		assert.Contains(t, out, "│       └── No error\n")
	})
}
