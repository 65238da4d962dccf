package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigFileType(t *testing.T) {
	assert.Equal(t, "json", GetConfigFileType("chatspace-config.json"))
	assert.Equal(t, "yaml", GetConfigFileType("chatspace-config.yaml"))
	assert.Equal(t, "yaml", GetConfigFileType("chatspace-config.yml"))
	assert.Equal(t, "", GetConfigFileType("chatspace-config.toml"))
}

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, "dracula", DefaultConfig.Theme)
	assert.Equal(t, "gpt-4o", DefaultConfig.DefaultModel)
	assert.True(t, DefaultConfig.EnableIndex)
	assert.Empty(t, DefaultConfig.WorkspaceRoot)
}

func TestConfigCache_Invalidate(t *testing.T) {
	ClearConfigCache()

	configCache["/tmp/chatspace-config.yml"] = &configCacheEntry{config: &Config{Theme: "dark"}}
	InvalidateConfigCache("/tmp/chatspace-config.yml")
	assert.Empty(t, configCache)

	configCache["/tmp/a.yml"] = &configCacheEntry{config: &Config{}}
	configCache["/tmp/b.yml"] = &configCacheEntry{config: &Config{}}
	ClearConfigCache()
	assert.Empty(t, configCache)
}
