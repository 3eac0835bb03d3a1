package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Loader handles loading the configuration file and environment overrides
type Loader struct {
	path      string
	env       *ConfigEnvironment
	validator *Validator
}

// NewLoader creates a new configuration loader. An empty path means the
// user configuration path.
func NewLoader(path string, env *ConfigEnvironment) *Loader {
	if path == "" {
		path = GetUserConfigPath()
	}
	if env == nil {
		env = NewConfigEnvironment()
	}
	return &Loader{
		path:      path,
		env:       env,
		validator: NewValidator(),
	}
}

// Path returns the configuration file path
func (l *Loader) Path() string {
	return l.path
}

// Load reads the configuration file, merges it over the defaults and
// applies environment overrides. A missing file is not an error.
func (l *Loader) Load() (*Config, error) {
	partial, err := l.loadFile(l.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", l.path, err)
	}

	var config *Config
	if partial != nil {
		config = MergeWithDefaults(partial)
	} else {
		config = DefaultConfig()
	}

	l.applyEnvironmentOverrides(config)

	// Validate the final configuration
	if err := l.validator.Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFile loads a single configuration file
func (l *Loader) loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &config, nil
}

// SaveFile saves configuration to a file
func (l *Loader) SaveFile(config *Config, path string) error {
	// Validate before saving
	if err := l.validator.Validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides applies environment variable overrides to config
func (l *Loader) applyEnvironmentOverrides(config *Config) {
	if name, ok := l.env.lookup("DECKY_PLUGIN_NAME"); ok && name != "" {
		config.Plugin.Name = name
	}

	if level, ok := l.env.lookup("DECKY_PLUGIN_LOG_LEVEL"); ok && level != "" {
		config.Logging.Level = level
	}

	if journal, ok := l.env.lookup("DECKY_PLUGIN_JOURNAL"); ok && journal != "" {
		config.Journal.Disabled = journal == "0" || journal == "false"
	}
}
