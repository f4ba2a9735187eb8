package ui

import (
	"fmt"
	"strings"

	"diagtest/internal/config"
	"diagtest/internal/domain"
	"diagtest/internal/parser"
	"diagtest/internal/storage"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var diagnostics parser.Parser = parser.NewClangParser()

// ErrorViewer displays failed cases in an interactive TUI
type ErrorViewer struct {
	config  *config.Config
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(cfg *config.Config, st storage.Storage) *ErrorViewer {
	return &ErrorViewer{
		config:  cfg,
		storage: st,
	}
}

// View displays failed cases in an interactive TUI. Resolved markers are
// written back through the storage backend on every toggle.
func (ev *ErrorViewer) View(results *domain.RunOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No failed cases found!")
		return nil
	}

	var saveErr error
	saveResolvedStatus := func() {
		if ev.storage == nil {
			return
		}
		if err := ev.storage.SaveOutput(results); err != nil {
			saveErr = err
		}
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	updateListItem := func(index int) {
		if index < 0 || index >= list.GetItemCount() {
			return
		}
		list.SetItemText(index, listItemText(results.Details[index], index), "")
	}

	for i := range results.Details {
		list.AddItem(listItemText(results.Details[i], i), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	// List on the left (1/3), details on the right (2/3)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		headerView.SetText(fmt.Sprintf(" Failed Cases (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ",
			len(results.Details), countUnresolved(results.Details)))
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(results.Details) {
			failure := results.Details[index]
			statsView.SetText(formatFailureStats(failure, index+1))
			detailsView.SetText(formatFailureDetails(failure))
			detailsView.ScrollToBeginning()
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(results.Details) {
					results.Details[index].Resolved = !results.Details[index].Resolved
					updateListItem(index)
					updateHeader()
					updateDetails()
					saveResolvedStatus()
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("failed to save resolved status: %w", saveErr)
	}
	return nil
}

func countUnresolved(failures []domain.CaseFailure) int {
	count := 0
	for _, f := range failures {
		if !f.Resolved {
			count++
		}
	}
	return count
}

func listItemText(failure domain.CaseFailure, index int) string {
	name := failure.Name
	if name == "" {
		name = fmt.Sprintf("Case %d", index+1)
	}
	name = tview.Escape(name)
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, name)
}

// formatFailureDetails formats a failed case using tview color tags
func formatFailureDetails(failure domain.CaseFailure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ %s[white]\n\n", tview.Escape(failure.Name))
	fmt.Fprintf(&b, "[cyan]Fixture:[white] %s\n", tview.Escape(failure.Fixture))
	fmt.Fprintf(&b, "[cyan]Template:[white] %s\n", tview.Escape(failure.Template))
	if failure.TempPath != "" {
		fmt.Fprintf(&b, "[cyan]Source:[white] %s\n", tview.Escape(failure.TempPath))
	}
	if len(failure.Command) > 0 {
		fmt.Fprintf(&b, "[cyan]Command:[white] %s\n", tview.Escape(strings.Join(failure.Command, " ")))
	}
	fmt.Fprintf(&b, "[cyan]Exit status:[white] %d\n\n", failure.ExitCode)

	fmt.Fprintf(&b, "[yellow]Error:[white] %s\n\n", tview.Escape(failure.Reason))

	if len(failure.Mismatches) > 0 {
		b.WriteString("[yellow]Non-matching lines:[white]\n")
		writeLines(&b, failure.Mismatches, "[red]")
		b.WriteString("\n")
	}

	b.WriteString("[yellow]Expected:[white]\n")
	if len(failure.Expected) == 0 {
		b.WriteString("    [gray]No error[white]\n")
	} else {
		writeLines(&b, failure.Expected, "")
	}
	b.WriteString("\n[yellow]Actual:[white]\n")
	if len(failure.Actual) == 0 {
		b.WriteString("    [gray](no output)[white]\n")
	}
	for _, line := range failure.Actual {
		tag := ""
		if d, ok := diagnostics.ParseLine(line); ok {
			tag = severityTag(d.Severity)
		}
		writeLines(&b, []string{line}, tag)
	}
	return b.String()
}

func severityTag(s domain.Severity) string {
	switch s {
	case domain.SeverityFatal, domain.SeverityError:
		return "[red]"
	case domain.SeverityWarning:
		return "[orange]"
	case domain.SeverityNote, domain.SeverityRemark:
		return "[gray]"
	}
	return ""
}

func writeLines(b *strings.Builder, lines []string, tag string) {
	for _, line := range lines {
		b.WriteString("    ")
		b.WriteString(tag)
		b.WriteString(tview.Escape(line))
		if tag != "" {
			b.WriteString("[white]")
		}
		b.WriteString("\n")
	}
}

// formatFailureStats formats the header line of a failed case
func formatFailureStats(failure domain.CaseFailure, number int) string {
	fixture := failure.Fixture
	if fixture == "" {
		fixture = "Unknown fixture"
	}
	name := failure.Name
	if name == "" {
		name = fmt.Sprintf("Case %d", number)
	}
	status := "[red]unresolved[white]"
	if failure.Resolved {
		status = "[green]resolved[white]"
	}
	counts := parser.Count(diagnostics.ParseLines(failure.Actual))
	return fmt.Sprintf("[cyan]fixture:[white] [yellow]%s[white]::[yellow]%s[white] (%s)\n[cyan]diagnostics:[white] %d error(s), %d warning(s), %d note(s)\n",
		tview.Escape(fixture), tview.Escape(name), status,
		counts[domain.SeverityError]+counts[domain.SeverityFatal], counts[domain.SeverityWarning], counts[domain.SeverityNote])
}
