package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// DefaultEnvironment returns the layout the loader uses on a Steam Deck for
// the given plugin. It is the fallback when the process is not started by
// the loader.
func DefaultEnvironment(pluginName string) Environment {
	home := filepath.Join(xdg.Home, "homebrew")

	return Environment{
		Home:        home,
		UserHome:    xdg.Home,
		PluginName:  pluginName,
		LogDir:      filepath.Join(home, "logs", pluginName),
		SettingsDir: filepath.Join(home, "settings", pluginName),
		RuntimeDir:  filepath.Join(home, "data", pluginName),
	}
}

// GetUserConfigPath returns the user configuration file path using XDG base directories
func GetUserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "decky-plugin", "config.json")
}

// JournalPath returns the journal database path for the configuration,
// or "" when the journal is disabled. The default lives under the XDG state
// directory, outside every root the migration writes to.
func JournalPath(cfg *Config, env Environment) string {
	if cfg.Journal.Disabled {
		return ""
	}
	if cfg.Journal.Path != "" {
		return cfg.Journal.Path
	}
	return filepath.Join(xdg.StateHome, "decky-plugin", cfg.Plugin.Name, "migrations.db")
}

// LogFilePath returns a log file in the canonical log directory named after
// the time the process started, so it never collides with a migrated log
func LogFilePath(env Environment, started time.Time) string {
	return filepath.Join(env.LogDir, started.Format("2006-01-02_15-04-05")+".log")
}
