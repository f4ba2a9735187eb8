package commands

import (
	"os"

	"diagtest/internal/config"
	"diagtest/internal/discovery"
	"diagtest/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ListCommand handles the list command
type ListCommand struct {
	config  *config.Config
	scanner *discovery.Scanner
	filter  *discovery.Filter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
) *ListCommand {
	return &ListCommand{
		config:  cfg,
		scanner: scanner,
		filter:  filter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	fixtures, err := loadFixtures(lc.config, lc.scanner, args)
	if err != nil {
		return err
	}

	var listings []ui.FixtureListing
	for _, fx := range fixtures {
		cases := fx.Cases
		if lc.config.Flags.NameFilter != "" {
			cases = lc.filter.FilterByName(cases, lc.config.Flags.NameFilter)
			if len(cases) == 0 {
				continue
			}
		}
		listings = append(listings, ui.FixtureListing{Path: fx.Path, Template: fx.TemplateName, Cases: cases})
	}

	if len(listings) == 0 {
		color.Yellow("No fixtures found")
		return nil
	}

	formatter := ui.NewFormatter(lc.config, os.Stdout)
	formatter.PrintCaseList(listings, lc.config.Flags.ShowCases)
	return nil
}
