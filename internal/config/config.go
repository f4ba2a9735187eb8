package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	shlex "github.com/anmitsu/go-shlex"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Directory relative paths are resolved against
	WorkDir string

	// Tool invocation
	ToolPath      string
	PluginPath    string
	PluginOptions string
	TargetCC      string
	ExtraArgs     []string
	Timeout       time.Duration

	// Names of the environment variables handed to the tool
	PluginEnvVar  string
	OptionsEnvVar string
	CCEnvVar      string

	// Templates
	TemplatesDir    string
	TemplateSuffix  string
	DefaultTemplate string

	// Include discovery
	SystemIncludes    bool
	PkgConfigPackages []string

	// Directory for generated sources, empty means os.TempDir
	TempDir string

	// Verification
	Strict bool

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string
	ResultsDSN     string

	// Command flags
	Flags Flags
}

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
	TemplateSuffixSet bool // --template-suffix was given, possibly empty
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

// fileConfig mirrors the keys accepted in diagtest.toml
type fileConfig struct {
	Tool           string   `toml:"tool"`
	Plugin         string   `toml:"plugin"`
	PluginOptions  *string  `toml:"plugin_options"`
	TargetCC       string   `toml:"target_cc"`
	ExtraArgs      []string `toml:"extra_args"`
	Timeout        string   `toml:"timeout"`
	TemplatesDir   string   `toml:"templates_dir"`
	TemplateSuffix *string  `toml:"template_suffix"`
	SystemIncludes *bool    `toml:"system_includes"`
	PkgConfig      []string `toml:"pkg_config"`
	TempDir        string   `toml:"temp_dir"`
	Strict         bool     `toml:"strict"`
	OutputDir      string   `toml:"output_dir"`
	ResultsDSN     string   `toml:"results_dsn"`
	Env            struct {
		Plugin  string `toml:"plugin"`
		Options string `toml:"options"`
		CC      string `toml:"cc"`
	} `toml:"env"`
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		WorkDir:         DefaultWorkDir,
		ToolPath:        DefaultToolPath,
		PluginPath:      DefaultPluginPath,
		PluginOptions:   DefaultPluginOptions,
		PluginEnvVar:    DefaultPluginEnvVar,
		OptionsEnvVar:   DefaultOptionsEnvVar,
		CCEnvVar:        DefaultCCEnvVar,
		TemplateSuffix:  DefaultTemplateSuffix,
		DefaultTemplate: DefaultTemplateName,
		SystemIncludes:  true,
		OutputJSONFile:  DefaultOutputJSONFile,
		OutputJSONDir:   DefaultOutputJSONDir,
	}
	cfg.PkgConfigPackages = make([]string, len(DefaultPkgConfigPackages))
	copy(cfg.PkgConfigPackages, DefaultPkgConfigPackages)
	return cfg
}

// Load builds a config from defaults, the TOML file, the .env file and the
// process environment, in that order.
func Load(configFile string) (*Config, error) {
	cfg := New()

	path := configFile
	if path == "" {
		path = filepath.Join(cfg.WorkDir, DefaultConfigFile)
	}
	if err := cfg.LoadFile(path); err != nil {
		if configFile != "" || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	// .env file might not exist, that's okay - use environment variables
	_ = godotenv.Load(filepath.Join(cfg.WorkDir, DefaultEnvFile))

	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile merges a TOML config file into the config
func (c *Config) LoadFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.ToolPath, fc.Tool)
	setString(&c.PluginPath, fc.Plugin)
	if fc.PluginOptions != nil {
		c.PluginOptions = *fc.PluginOptions
	}
	setString(&c.TargetCC, fc.TargetCC)
	if len(fc.ExtraArgs) > 0 {
		c.ExtraArgs = append(c.ExtraArgs, fc.ExtraArgs...)
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("parse timeout %q: %w", fc.Timeout, err)
		}
		c.Timeout = d
	}
	setString(&c.TemplatesDir, fc.TemplatesDir)
	if fc.TemplateSuffix != nil {
		c.TemplateSuffix = *fc.TemplateSuffix
	}
	if fc.SystemIncludes != nil {
		c.SystemIncludes = *fc.SystemIncludes
	}
	if fc.PkgConfig != nil {
		c.PkgConfigPackages = fc.PkgConfig
	}
	setString(&c.TempDir, fc.TempDir)
	c.Strict = c.Strict || fc.Strict
	setString(&c.OutputJSONDir, fc.OutputDir)
	setString(&c.ResultsDSN, fc.ResultsDSN)
	setString(&c.PluginEnvVar, fc.Env.Plugin)
	setString(&c.OptionsEnvVar, fc.Env.Options)
	setString(&c.CCEnvVar, fc.Env.CC)
	return nil
}

// LoadEnv applies DIAGTEST_* environment variables
func (c *Config) LoadEnv() error {
	setString(&c.ToolPath, os.Getenv(EnvTool))
	setString(&c.PluginPath, os.Getenv(EnvPlugin))
	if v, ok := os.LookupEnv(EnvPluginOptions); ok {
		c.PluginOptions = v
	}
	setString(&c.TargetCC, os.Getenv(EnvTargetCC))
	setString(&c.TemplatesDir, os.Getenv(EnvTemplatesDir))
	if v, ok := os.LookupEnv(EnvTemplateSuffix); ok {
		c.TemplateSuffix = v
	}
	setString(&c.ResultsDSN, os.Getenv(EnvResultsDSN))

	if v := os.Getenv(EnvTestOptions); v != "" {
		args, err := shlex.Split(v, true)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvTestOptions, err)
		}
		c.ExtraArgs = append(c.ExtraArgs, args...)
	}
	if v := os.Getenv(EnvPkgConfigNames); v != "" {
		c.PkgConfigPackages = strings.Fields(v)
	}
	if v := os.Getenv(EnvStrict); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvStrict, err)
		}
		c.Strict = strict
	}
	return nil
}

// ApplyFlags applies command-line overrides; flags win over every other source
func (c *Config) ApplyFlags(flags Flags) error {
	c.Flags = flags

	setString(&c.ToolPath, flags.Tool)
	setString(&c.PluginPath, flags.Plugin)
	setString(&c.PluginOptions, flags.PluginOptions)
	setString(&c.TargetCC, flags.TargetCC)
	setString(&c.TemplatesDir, flags.TemplatesDir)
	if flags.TemplateSuffixSet {
		c.TemplateSuffix = flags.TemplateSuffix
	} else {
		setString(&c.TemplateSuffix, flags.TemplateSuffix)
	}
	setString(&c.ResultsDSN, flags.ResultsDSN)

	if flags.ExtraArgs != "" {
		args, err := shlex.Split(flags.ExtraArgs, true)
		if err != nil {
			return fmt.Errorf("parse --extra-args: %w", err)
		}
		c.ExtraArgs = append(c.ExtraArgs, args...)
	}
	if len(flags.Packages) > 0 {
		c.PkgConfigPackages = flags.Packages
	}
	if flags.NoSystemIncludes {
		c.SystemIncludes = false
	}
	if flags.Strict {
		c.Strict = true
	}
	if flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
	return nil
}

// GetToolPath returns the absolute path of the analysis tool. Bare command
// names are left for PATH lookup.
func (c *Config) GetToolPath() string {
	if !strings.ContainsRune(c.ToolPath, filepath.Separator) {
		return c.ToolPath
	}
	return c.abs(c.ToolPath)
}

// GetPluginPath returns the absolute path of the diagnostic plugin
func (c *Config) GetPluginPath() string {
	return c.abs(c.PluginPath)
}

// GetTemplatesDir returns the directory templates are read from for the
// given fixture. Templates live next to the fixture unless configured.
func (c *Config) GetTemplatesDir(fixturePath string) string {
	if c.TemplatesDir != "" {
		return c.abs(c.TemplatesDir)
	}
	return filepath.Dir(fixturePath)
}

// GetOutputPath returns the full path to the output JSON file.
// Resolves to an absolute path so run and failures always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	return c.abs(filepath.Join(c.OutputJSONDir, c.OutputJSONFile))
}

func (c *Config) abs(p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.WorkDir, p)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
