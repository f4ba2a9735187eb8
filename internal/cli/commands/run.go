package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"diagtest/internal/config"
	"diagtest/internal/discovery"
	"diagtest/internal/execution"
	"diagtest/internal/includes"
	"diagtest/internal/storage"
	"diagtest/internal/ui"
	"diagtest/internal/verify"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ErrCasesFailed is returned by run when at least one case failed
var ErrCasesFailed = errors.New("cases failed")

// RunCommand handles the run command
type RunCommand struct {
	config     *config.Config
	scanner    *discovery.Scanner
	filter     *discovery.Filter
	discoverer *includes.Discoverer
	newStorage func(cfg *config.Config) (storage.Storage, error)
	stdout     io.Writer
	stderr     io.Writer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	discoverer *includes.Discoverer,
) *RunCommand {
	return &RunCommand{
		config:     cfg,
		scanner:    scanner,
		filter:     filter,
		discoverer: discoverer,
		newStorage: storage.New,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := rc.config.Flags

	fixtures, err := loadFixtures(rc.config, rc.scanner, args)
	if err != nil {
		return err
	}

	cases := rc.filter.FilterByName(allCases(fixtures), flags.NameFilter)

	tap := ui.NewTAPWriter(rc.stdout, flags.Verbose, !color.NoColor)
	if len(cases) == 0 {
		color.New(color.FgYellow).Fprintln(rc.stderr, "No cases to execute")
		tap.Plan(0)
		return nil
	}

	includeFlags, err := rc.discoverer.Discover(ctx, rc.config.PkgConfigPackages, rc.config.SystemIncludes)
	if err != nil {
		return fmt.Errorf("failed to discover include flags: %w", err)
	}

	runner := execution.NewRunner(rc.config)
	runner.SetIncludes(includeFlags)

	for _, fx := range fixtures {
		tap.Verbose("reading input from %s", fx.Path)
		tap.Verbose("using template %s", fx.TemplateName)
	}
	tap.Verbose("using tool from %s", rc.config.GetToolPath())
	tap.Verbose("using plugin from %s", rc.config.GetPluginPath())
	if len(includeFlags) > 0 {
		tap.Verbose("include flags: %s", strings.Join(includeFlags, " "))
	}
	tap.Plan(len(cases))

	executor := execution.NewSequential(runner, verify.StrictnessFrom(rc.config.Strict), tap)
	executor.SetFailFast(flags.FailFast)
	if flags.Progress {
		executor.SetProgress(ui.NewProgressBar(len(cases)))
	}

	results, duration, err := executor.Execute(ctx, cases)
	if err != nil {
		return err
	}

	st, err := rc.newStorage(rc.config)
	if err != nil {
		return err
	}
	defer closeStorage(st)

	fixtureList := fixturePaths(fixtures)
	if err := st.Save(results, fixtureList, duration, rc.config.Strict); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	// Other runs may share the results database, so this run's outcome is
	// taken from its own results
	output := storage.BuildOutput(results, fixtureList, duration, rc.config.Strict)

	if flags.Summary {
		ui.NewFormatter(rc.config, rc.stderr).PrintSummary(output)
	}

	if output.Meta.FailedCases == 0 {
		return nil
	}

	if flags.OpenFailures {
		stored, err := st.Load()
		if err != nil {
			return fmt.Errorf("failed to load results: %w", err)
		}
		if err := newViewer(rc.config, st).View(stored); err != nil {
			return err
		}
	}
	return fmt.Errorf("%d of %d case(s) failed: %w", output.Meta.FailedCases, output.Meta.TotalCases, ErrCasesFailed)
}

func closeStorage(st storage.Storage) {
	if c, ok := st.(io.Closer); ok {
		_ = c.Close()
	}
}
