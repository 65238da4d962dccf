package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRunnerConfig(t *testing.T) {
	config := DefaultRunnerConfig()

	assert.Equal(t, "node", config.Environment)
	assert.True(t, config.Globals)
	assert.Equal(t, []string{".env.test"}, config.SetupFiles)
	assert.Equal(t, 30000, config.TestTimeoutMs)
	assert.Equal(t, 30000, config.HookTimeoutMs)

	assert.Equal(t, "v8", config.Coverage.Provider)
	assert.Equal(t, []string{"text", "json", "html"}, config.Coverage.Reporters)
	assert.Contains(t, config.Coverage.Exclude, "node_modules/**")
	assert.Contains(t, config.Coverage.Exclude, "**/*.test.*")

	require.NoError(t, config.Validate())
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	config, err := Load(t.TempDir())
	require.NoError(t, err)

	defaults := DefaultRunnerConfig()
	assert.Equal(t, defaults, *config)
}

func TestLoad_YamlOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := `environment: jsdom
globals: false
test_timeout_ms: 5000
coverage:
  provider: istanbul
  reporters:
    - lcov
    - text-summary
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chatspace-harness.yaml"), []byte(yaml), 0644))

	config, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "jsdom", config.Environment)
	assert.False(t, config.Globals)
	assert.Equal(t, 5000, config.TestTimeoutMs)
	// Unset keys keep their defaults
	assert.Equal(t, 30000, config.HookTimeoutMs)
	assert.Equal(t, "istanbul", config.Coverage.Provider)
	assert.Equal(t, []string{"lcov", "text-summary"}, config.Coverage.Reporters)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	yaml := "environment: browser\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chatspace-harness.yaml"), []byte(yaml), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown environment")
}

func TestValidate(t *testing.T) {
	base := DefaultRunnerConfig()

	bad := base
	bad.Environment = "deno"
	assert.Error(t, bad.Validate())

	bad = base
	bad.TestTimeoutMs = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.HookTimeoutMs = -1
	assert.Error(t, bad.Validate())

	bad = base
	bad.Coverage.Provider = "c8"
	assert.Error(t, bad.Validate())

	bad = base
	bad.Coverage.Reporters = nil
	assert.Error(t, bad.Validate())

	bad = base
	bad.Coverage.Reporters = []string{"text", "xml"}
	assert.Error(t, bad.Validate())

	good := base
	good.Environment = "edge-runtime"
	good.Coverage.Reporters = []string{"json-summary"}
	assert.NoError(t, good.Validate())
}

func TestApplySetup(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"),
		[]byte("CHATSPACE_HARNESS_PROBE=loaded\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("CHATSPACE_HARNESS_PROBE") })

	config := DefaultRunnerConfig()
	config.SetupFiles = []string{".env.test", ".env.missing"}

	applied, err := config.ApplySetup(dir)
	require.NoError(t, err)

	// Missing files are skipped, present files applied in order
	assert.Equal(t, []string{".env.test"}, applied)
	assert.Equal(t, "loaded", os.Getenv("CHATSPACE_HARNESS_PROBE"))
}

func TestApplySetup_NothingToApply(t *testing.T) {
	config := DefaultRunnerConfig()
	config.SetupFiles = []string{"does-not-exist.env"}

	applied, err := config.ApplySetup(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, applied)
}
