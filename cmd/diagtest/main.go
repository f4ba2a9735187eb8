package main

import (
	"fmt"
	"os"

	"diagtest/internal/cli"
	"diagtest/internal/cli/commands"
	"diagtest/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "diagtest",
		Short:         "Conformance test driver for compiler diagnostic plugins",
		Long:          `Runs annotated C and C++ fixtures through a static analysis tool with a diagnostic plugin loaded, checks the diagnostics each section produces against its annotations and reports the results as TAP.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults, loaded fully before each command
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	cmds := commands.NewCommands(cfg)
	cmds.Register(rootCmd, &flags, cfg)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
