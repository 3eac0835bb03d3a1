package config

// Config represents the plugin's own configuration file. Everything here is
// optional; the host environment supplies the canonical roots.
type Config struct {
	// Version of the configuration format
	Version string `json:"version"`

	// Plugin identity
	Plugin PluginConfig `json:"plugin"`

	// Logging configuration
	Logging LoggingConfig `json:"logging,omitempty"`

	// Journal configuration for the migration audit database
	Journal JournalConfig `json:"journal,omitempty"`

	// Legacy lists additional legacy locations to migrate
	Legacy LegacyConfig `json:"legacy,omitempty"`
}

// PluginConfig identifies the plugin
type PluginConfig struct {
	// Name is used to derive legacy paths and default canonical roots
	Name string `json:"name" validate:"required,plugin_name" description:"Plugin name used to derive legacy and canonical paths"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level,omitempty" validate:"log_level" enum:"debug,info,warn,error"`

	// Format is the output format of the plugin log file (text, json)
	Format string `json:"format,omitempty" validate:"log_format" enum:"text,json"`
}

// JournalConfig controls the migration journal
type JournalConfig struct {
	Disabled bool `json:"disabled,omitempty" description:"Do not record migration steps in the SQLite journal"`

	// Path of the journal database; defaults to <runtime dir>/migrations.db
	Path string `json:"path,omitempty" validate:"abs_or_empty"`
}

// LegacyConfig lists extra legacy sources per category. Relative paths are
// resolved against the user home directory.
type LegacyConfig struct {
	Logs     []string `json:"logs,omitempty"`
	Settings []string `json:"settings,omitempty"`
	Runtime  []string `json:"runtime,omitempty"`
}

// Environment holds the values the host loader exports to the plugin
// process. It replaces the loader's module-level constants.
type Environment struct {
	// Home is the loader's root, e.g. ~/homebrew
	Home string `json:"home" env:"DECKY_HOME" validate:"required,abs_path"`

	// UserHome is the home directory of the user running the loader
	UserHome string `json:"user_home" env:"DECKY_USER_HOME" validate:"required,abs_path"`

	// User is the user name the loader runs as
	User string `json:"user,omitempty" env:"DECKY_USER"`

	// PluginName as reported by the loader
	PluginName string `json:"plugin_name,omitempty" env:"DECKY_PLUGIN_NAME"`

	// PluginDir is the installation directory of the plugin
	PluginDir string `json:"plugin_dir,omitempty" env:"DECKY_PLUGIN_DIR" validate:"abs_or_empty"`

	LogDir      string `json:"log_dir" env:"DECKY_PLUGIN_LOG_DIR" validate:"required,abs_path"`
	SettingsDir string `json:"settings_dir" env:"DECKY_PLUGIN_SETTINGS_DIR" validate:"required,abs_path"`
	RuntimeDir  string `json:"runtime_dir" env:"DECKY_PLUGIN_RUNTIME_DIR" validate:"required,abs_path"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
