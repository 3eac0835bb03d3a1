package plugin

import (
	"path/filepath"

	"github.com/elee1766/decky-plugin/src/config"
)

// LegacyLayout lists where older versions of a plugin kept their data
type LegacyLayout struct {
	// Logs are legacy log files, e.g. ~/.config/<name>/<name>.log
	Logs []string `json:"logs"`

	// Settings are the legacy settings file followed by settings directories
	Settings []string `json:"settings"`

	// Runtime directories in precedence order: the loader-home location
	// first, then ~/.local/share/<name>
	Runtime []string `json:"runtime"`
}

// DefaultLegacyLayout returns the locations the template used before the
// loader exported canonical directories.
func DefaultLegacyLayout(env config.Environment, name string) LegacyLayout {
	userConfig := filepath.Join(env.UserHome, ".config", name)

	return LegacyLayout{
		Logs: []string{
			filepath.Join(userConfig, name+".log"),
		},
		Settings: []string{
			filepath.Join(env.Home, "settings", name+".json"),
			userConfig,
		},
		Runtime: []string{
			filepath.Join(env.Home, name),
			filepath.Join(env.UserHome, ".local", "share", name),
		},
	}
}

// WithExtra appends configured extra legacy paths after the defaults, so the
// defaults keep precedence. resolve turns relative paths into absolute ones.
func (l LegacyLayout) WithExtra(extra config.LegacyConfig, resolve func(string) string) LegacyLayout {
	out := LegacyLayout{
		Logs:     append([]string(nil), l.Logs...),
		Settings: append([]string(nil), l.Settings...),
		Runtime:  append([]string(nil), l.Runtime...),
	}
	for _, p := range extra.Logs {
		out.Logs = append(out.Logs, resolve(p))
	}
	for _, p := range extra.Settings {
		out.Settings = append(out.Settings, resolve(p))
	}
	for _, p := range extra.Runtime {
		out.Runtime = append(out.Runtime, resolve(p))
	}
	return out
}
