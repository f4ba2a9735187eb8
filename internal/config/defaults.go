package config

const (
	// DefaultWorkDir is the directory relative paths are resolved against
	DefaultWorkDir = "."
	// DefaultToolPath is the analysis wrapper invoked for every case
	DefaultToolPath = "scripts/tartan"
	// DefaultPluginPath is the diagnostic plugin handed to the tool
	DefaultPluginPath = "clang-plugin/libtartan.so"
	// DefaultPluginOptions keeps the plugin quiet unless a check fires
	DefaultPluginOptions = "--quiet"
	// DefaultTemplateName is used when a fixture has no template header
	DefaultTemplateName = "generic"
	// DefaultTemplateSuffix is appended to <name>.head and <name>.tail
	DefaultTemplateSuffix = ".c"
	// DefaultConfigFile is looked up in the working directory
	DefaultConfigFile = "diagtest.toml"
	// DefaultEnvFile is loaded from the working directory if present
	DefaultEnvFile = ".env"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "diagtest-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".diagtest"
)

// Names of the variables that carry the plugin contract to the tool.
const (
	DefaultPluginEnvVar  = "TARTAN_PLUGIN"
	DefaultOptionsEnvVar = "TARTAN_OPTIONS"
	DefaultCCEnvVar      = "TARTAN_CC"
)

// Environment variables read by the driver itself.
const (
	EnvTool           = "DIAGTEST_TOOL"
	EnvPlugin         = "DIAGTEST_PLUGIN"
	EnvPluginOptions  = "DIAGTEST_PLUGIN_OPTIONS"
	EnvTargetCC       = "DIAGTEST_TARGET_CC"
	EnvTemplatesDir   = "DIAGTEST_TEMPLATES_DIR"
	EnvTemplateSuffix = "DIAGTEST_TEMPLATE_SUFFIX"
	EnvTestOptions    = "DIAGTEST_TEST_OPTIONS"
	EnvResultsDSN     = "DIAGTEST_RESULTS_DSN"
	EnvStrict         = "DIAGTEST_STRICT"
	EnvPkgConfigNames = "DIAGTEST_PKG_CONFIG"
)

// DefaultPkgConfigPackages are queried with pkg-config --cflags
var DefaultPkgConfigPackages = []string{
	"glib-2.0",
}
