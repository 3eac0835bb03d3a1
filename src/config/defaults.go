package config

// DefaultPluginName is the name the template ships with
const DefaultPluginName = "decky-clipboard"

// DefaultConfig returns a default configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Plugin: PluginConfig{
			Name: DefaultPluginName,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// MergeWithDefaults fills zero values of a partial configuration from the
// defaults. Slices in the partial configuration replace the defaults.
func MergeWithDefaults(partial *Config) *Config {
	result := DefaultConfig()
	if partial == nil {
		return result
	}

	if partial.Version != "" {
		result.Version = partial.Version
	}
	if partial.Plugin.Name != "" {
		result.Plugin.Name = partial.Plugin.Name
	}
	if partial.Logging.Level != "" {
		result.Logging.Level = partial.Logging.Level
	}
	if partial.Logging.Format != "" {
		result.Logging.Format = partial.Logging.Format
	}
	if partial.Journal.Path != "" {
		result.Journal.Path = partial.Journal.Path
	}
	result.Journal.Disabled = partial.Journal.Disabled
	result.Legacy = partial.Legacy

	return result
}
