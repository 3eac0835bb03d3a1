package main

import (
	"testing"

	"github.com/elee1766/decky-plugin/src/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigValue(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Legacy.Runtime = []string{".cache/decky-clipboard"}

	level, err := getConfigValue(cfg, "logging.level")
	require.NoError(t, err)
	assert.Equal(t, "info", level)

	runtime, err := getConfigValue(cfg, "legacy.runtime")
	require.NoError(t, err)
	assert.Equal(t, []string{".cache/decky-clipboard"}, runtime)

	_, err = getConfigValue(cfg, "logging.colour")
	assert.Error(t, err)

	_, err = getConfigValue(cfg, "logging.level.deeper")
	assert.Error(t, err)
}

func TestSetConfigValue(t *testing.T) {
	cfg := config.DefaultConfig()

	require.NoError(t, setConfigValue(cfg, "logging.format", "text"))
	assert.Equal(t, "text", cfg.Logging.Format)

	require.NoError(t, setConfigValue(cfg, "journal.disabled", "true"))
	assert.True(t, cfg.Journal.Disabled)

	require.NoError(t, setConfigValue(cfg, "legacy.settings", "a, b,,c"))
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Legacy.Settings)

	assert.Error(t, setConfigValue(cfg, "journal.disabled", "maybe"))
	assert.Error(t, setConfigValue(cfg, "plugin.missing", "x"))
}
