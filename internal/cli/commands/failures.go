package commands

import (
	"diagtest/internal/config"
	"diagtest/internal/storage"
	"diagtest/internal/ui"

	"github.com/spf13/cobra"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	config *config.Config
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(cfg *config.Config) *FailuresCommand {
	return &FailuresCommand{config: cfg}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	st, err := storage.New(fc.config)
	if err != nil {
		return err
	}
	defer closeStorage(st)

	results, err := st.Load()
	if err != nil {
		return err
	}

	return newViewer(fc.config, st).View(results)
}

func newViewer(cfg *config.Config, st storage.Storage) ui.Viewer {
	return ui.NewErrorViewer(cfg, st)
}
