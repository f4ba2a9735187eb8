package commands

import (
	"diagtest/internal/cli"
	"diagtest/internal/config"
	"diagtest/internal/discovery"
	"diagtest/internal/includes"
	"diagtest/internal/migration"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Migrate  *MigrateCommand
	Failures *FailuresCommand
}

// NewCommands creates all commands with dependencies. cfg is filled in by
// the root command's PersistentPreRunE before any command executes.
func NewCommands(cfg *config.Config) *Commands {
	scanner := discovery.NewScanner(discovery.DefaultExtensions)
	filter := discovery.NewFilter()
	discoverer := includes.NewDiscoverer()
	dbManager := migration.NewDatabaseManager(cfg)
	migrator := migration.NewSchemaMigrator(dbManager)

	return &Commands{
		Run:      NewRunCommand(cfg, scanner, filter, discoverer),
		List:     NewListCommand(cfg, scanner, filter),
		Migrate:  NewMigrateCommand(cfg, migrator),
		Failures: NewFailuresCommand(cfg),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to the TOML config file (default ./diagtest.toml)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.ConfigFile)
		if err != nil {
			return err
		}
		*cfg = *loaded
		if f := cmd.Flags().Lookup("template-suffix"); f != nil {
			flags.TemplateSuffixSet = f.Changed
		}
		return cfg.ApplyFlags(flags.ToConfigFlags())
	}

	// Run command
	runCmd := &cobra.Command{
		Use:   "run [fixtures...]",
		Short: "Run diagnostic conformance fixtures",
		Long:  "Split fixtures into cases, compile each one with the analysis tool and report the outcome as TAP",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.Run.Execute,
	}
	runCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Print the tool command of every case and keep failing sources")
	runCmd.Flags().StringVar(&flags.TargetCC, "target-cc", "", "Compiler exported to the tool as TARTAN_CC")
	runCmd.Flags().StringVar(&flags.Tool, "tool", "", "Path to the analysis tool wrapper")
	runCmd.Flags().StringVar(&flags.Plugin, "plugin", "", "Path to the diagnostic plugin library")
	runCmd.Flags().StringVar(&flags.PluginOptions, "plugin-options", "", "Options passed to the plugin (default --quiet)")
	runCmd.Flags().StringVar(&flags.TemplatesDir, "templates-dir", "", "Directory holding <name>.head/.tail templates (default: next to each fixture)")
	runCmd.Flags().StringVar(&flags.TemplateSuffix, "template-suffix", "", "Suffix of template files (default .c, empty for bare <name>.head/.tail)")
	runCmd.Flags().StringVar(&flags.ExtraArgs, "extra-args", "", "Extra tool arguments, split like a shell command line")
	runCmd.Flags().StringSliceVar(&flags.Packages, "pkg", nil, "pkg-config packages whose cflags are passed to the tool (default glib-2.0)")
	runCmd.Flags().BoolVar(&flags.NoSystemIncludes, "no-system-includes", false, "Do not pass the C++ preprocessor's system include dirs")
	runCmd.Flags().BoolVar(&flags.Strict, "strict", false, "Fail cases whose tool could not start or exited non-zero unexpectedly")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Skip the remaining cases after the first failure")
	runCmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Per-case timeout for the analysis tool (0 disables)")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter cases by name pattern (supports wildcards, e.g. '*gvariant*' or '*section 3')")
	runCmd.Flags().BoolVar(&flags.Progress, "progress", false, "Show a progress bar on stderr")
	runCmd.Flags().BoolVar(&flags.Summary, "summary", false, "Print a summary table on stderr when the run finishes")
	runCmd.Flags().BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failures viewer when the run finishes with failures")
	runCmd.Flags().StringVar(&flags.ResultsDSN, "results-dsn", "", "Store results in MySQL instead of the JSON file")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list [fixtures...]",
		Short: "List fixture cases",
		Long:  "Parse fixtures and list their cases without running the analysis tool",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter cases by name pattern (supports wildcards)")
	listCmd.Flags().StringVar(&flags.TemplatesDir, "templates-dir", "", "Directory holding <name>.head/.tail templates")
	listCmd.Flags().StringVar(&flags.TemplateSuffix, "template-suffix", "", "Suffix of template files (default .c, empty for bare <name>.head/.tail)")
	listCmd.Flags().BoolVarP(&flags.ShowCases, "cases", "c", false, "Also list the expected diagnostics of every case")
	rootCmd.AddCommand(listCmd)

	// Migrate command
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Prepare the MySQL results database",
		Long:  "Create the results database and its tables for --results-dsn storage",
		RunE:  c.Migrate.Execute,
	}
	migrateCmd.Flags().StringVar(&flags.ResultsDSN, "results-dsn", "", "MySQL DSN (default: built from DB_* environment variables)")
	rootCmd.AddCommand(migrateCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View failed cases interactively",
		Long:  "Display failed cases from the last run in an interactive viewer",
		RunE:  c.Failures.Execute,
	}
	failuresCmd.Flags().StringVar(&flags.ResultsDSN, "results-dsn", "", "Read results from MySQL instead of the JSON file")
	rootCmd.AddCommand(failuresCmd)
}
