package cli

import (
	"time"

	"diagtest/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	ConfigFile        string
	Verbose           bool
	Tool              string
	Plugin            string
	PluginOptions     string
	TargetCC          string
	TemplatesDir      string
	TemplateSuffix    string
	TemplateSuffixSet bool
	ExtraArgs         string
	Packages          []string
	NoSystemIncludes  bool
	Strict            bool
	FailFast          bool
	Timeout           time.Duration
	NameFilter        string
	Progress          bool
	Summary           bool
	OpenFailures      bool
	ResultsDSN        string
	ShowCases         bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile:        f.ConfigFile,
		Verbose:           f.Verbose,
		Tool:              f.Tool,
		Plugin:            f.Plugin,
		PluginOptions:     f.PluginOptions,
		TargetCC:          f.TargetCC,
		TemplatesDir:      f.TemplatesDir,
		TemplateSuffix:    f.TemplateSuffix,
		TemplateSuffixSet: f.TemplateSuffixSet,
		ExtraArgs:         f.ExtraArgs,
		Packages:          f.Packages,
		NoSystemIncludes:  f.NoSystemIncludes,
		Strict:            f.Strict,
		FailFast:          f.FailFast,
		Timeout:           f.Timeout,
		NameFilter:        f.NameFilter,
		Progress:          f.Progress,
		Summary:           f.Summary,
		OpenFailures:      f.OpenFailures,
		ResultsDSN:        f.ResultsDSN,
		ShowCases:         f.ShowCases,
	}
}
