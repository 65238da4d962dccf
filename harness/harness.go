// Package harness holds the declarative test-runner configuration attached
// to a workspace. chatspace does not run tests itself; it owns, validates
// and applies the configuration record the external runner consumes.
package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default timeout budgets in milliseconds, chosen generously to tolerate
// slow external calls during a test run.
const (
	DefaultTestTimeoutMs = 30000
	DefaultHookTimeoutMs = 30000
)

// Known option values accepted by the runner.
var (
	KnownEnvironments = []string{"node", "jsdom", "happy-dom", "edge-runtime"}
	KnownProviders    = []string{"v8", "istanbul"}
	KnownReporters    = []string{"text", "text-summary", "json", "json-summary", "html", "lcov"}
)

// CoverageConfig selects the coverage provider, the ordered report formats
// to emit, and the glob patterns excluded from coverage accounting.
type CoverageConfig struct {
	Provider  string   `mapstructure:"provider" json:"provider"`
	Reporters []string `mapstructure:"reporters" json:"reporters"`
	Exclude   []string `mapstructure:"exclude" json:"exclude"`
}

// RunnerConfig is the full test-runner configuration record.
type RunnerConfig struct {
	// Environment selects the execution context ("node" for a server-side
	// style context rather than a browser-like one).
	Environment string `mapstructure:"environment" json:"environment"`

	// Globals makes test-framework identifiers available without import.
	Globals bool `mapstructure:"globals" json:"globals"`

	// SetupFiles are executed in order before the suite to establish
	// environment preconditions. Dotenv files are loaded into the process
	// environment.
	SetupFiles []string `mapstructure:"setup_files" json:"setup_files"`

	// Per-test and per-hook timeout budgets in milliseconds.
	TestTimeoutMs int `mapstructure:"test_timeout_ms" json:"test_timeout_ms"`
	HookTimeoutMs int `mapstructure:"hook_timeout_ms" json:"hook_timeout_ms"`

	Coverage CoverageConfig `mapstructure:"coverage" json:"coverage"`
}

// DefaultRunnerConfig returns the stock configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Environment:   "node",
		Globals:       true,
		SetupFiles:    []string{".env.test"},
		TestTimeoutMs: DefaultTestTimeoutMs,
		HookTimeoutMs: DefaultHookTimeoutMs,
		Coverage: CoverageConfig{
			Provider:  "v8",
			Reporters: []string{"text", "json", "html"},
			Exclude: []string{
				"node_modules/**",
				"dist/**",
				"**/*.d.ts",
				"**/*.config.*",
				"**/*.test.*",
				"tests/**",
			},
		},
	}
}

// Load reads chatspace-harness.yaml|yml|json from dir, falling back to the
// defaults when no file exists.
func Load(dir string) (*RunnerConfig, error) {
	v := viper.New()

	defaults := DefaultRunnerConfig()
	v.SetDefault("environment", defaults.Environment)
	v.SetDefault("globals", defaults.Globals)
	v.SetDefault("setup_files", defaults.SetupFiles)
	v.SetDefault("test_timeout_ms", defaults.TestTimeoutMs)
	v.SetDefault("hook_timeout_ms", defaults.HookTimeoutMs)
	v.SetDefault("coverage.provider", defaults.Coverage.Provider)
	v.SetDefault("coverage.reporters", defaults.Coverage.Reporters)
	v.SetDefault("coverage.exclude", defaults.Coverage.Exclude)

	v.SetConfigName("chatspace-harness")
	v.AddConfigPath(dir)

	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		// If YAML fails, try JSON; when both fail we continue with defaults
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read harness config: %w", err)
			}
		}
	}

	var config RunnerConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode harness config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks every recognized option against its known values.
func (c *RunnerConfig) Validate() error {
	if !contains(KnownEnvironments, c.Environment) {
		return fmt.Errorf("unknown environment %q (known: %s)", c.Environment, strings.Join(KnownEnvironments, ", "))
	}
	if c.TestTimeoutMs <= 0 {
		return fmt.Errorf("test timeout must be positive, got %d", c.TestTimeoutMs)
	}
	if c.HookTimeoutMs <= 0 {
		return fmt.Errorf("hook timeout must be positive, got %d", c.HookTimeoutMs)
	}
	if !contains(KnownProviders, c.Coverage.Provider) {
		return fmt.Errorf("unknown coverage provider %q (known: %s)", c.Coverage.Provider, strings.Join(KnownProviders, ", "))
	}
	if len(c.Coverage.Reporters) == 0 {
		return fmt.Errorf("at least one coverage reporter is required")
	}
	for _, reporter := range c.Coverage.Reporters {
		if !contains(KnownReporters, reporter) {
			return fmt.Errorf("unknown coverage reporter %q (known: %s)", reporter, strings.Join(KnownReporters, ", "))
		}
	}
	return nil
}

// ApplySetup applies the setup files in order relative to dir. Dotenv files
// are loaded into the process environment; missing files are skipped.
// Returns the files that were actually applied.
func (c *RunnerConfig) ApplySetup(dir string) ([]string, error) {
	var applied []string

	for _, file := range c.SetupFiles {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, file)
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		if err := godotenv.Load(path); err != nil {
			return applied, fmt.Errorf("failed to load setup file %s: %w", file, err)
		}
		applied = append(applied, file)
	}

	return applied, nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
