package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
)

// ConfigEnvironment fills structs from environment variables named by
// their `env` struct tags.
type ConfigEnvironment struct {
	lookup func(string) (string, bool)
}

// NewConfigEnvironment reads from the process environment
func NewConfigEnvironment() *ConfigEnvironment {
	return &ConfigEnvironment{
		lookup: os.LookupEnv,
	}
}

// NewConfigEnvironmentFromMap reads from a fixed set of variables
func NewConfigEnvironmentFromMap(vars map[string]string) *ConfigEnvironment {
	return &ConfigEnvironment{
		lookup: func(key string) (string, bool) {
			v, ok := vars[key]
			return v, ok
		},
	}
}

// LoadFromEnv overwrites each tagged field whose variable is set and non-empty
func (ce *ConfigEnvironment) LoadFromEnv(config interface{}) error {
	val := reflect.ValueOf(config)

	// Handle pointer to struct
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return fmt.Errorf("config must be a struct or pointer to struct")
	}

	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		envKey := fieldType.Tag.Get("env")
		if envKey == "" {
			continue
		}

		envValue, ok := ce.lookup(envKey)
		if !ok || envValue == "" {
			continue
		}

		if err := ce.setFieldFromString(field, envValue); err != nil {
			return fmt.Errorf("failed to set field %s from env %s: %w", fieldType.Name, envKey, err)
		}
	}

	return nil
}

func (ce *ConfigEnvironment) setFieldFromString(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(intValue)
	case reflect.Bool:
		boolValue := strings.ToLower(value) == "true" || value == "1"
		field.SetBool(boolValue)
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// LoadEnvironment resolves the host environment for a plugin. Values the
// loader exports win; anything missing falls back to DefaultEnvironment,
// re-rooted under DECKY_HOME when only that is set.
func LoadEnvironment(ce *ConfigEnvironment, pluginName string) (Environment, error) {
	var env Environment
	if err := ce.LoadFromEnv(&env); err != nil {
		return Environment{}, err
	}

	if env.PluginName == "" {
		env.PluginName = pluginName
	}

	defaults := DefaultEnvironment(env.PluginName)
	if env.Home != "" {
		defaults.Home = env.Home
		defaults.LogDir = filepath.Join(env.Home, "logs", env.PluginName)
		defaults.SettingsDir = filepath.Join(env.Home, "settings", env.PluginName)
		defaults.RuntimeDir = filepath.Join(env.Home, "data", env.PluginName)
	}

	fillDefault(&env.Home, defaults.Home)
	fillDefault(&env.UserHome, defaults.UserHome)
	fillDefault(&env.LogDir, defaults.LogDir)
	fillDefault(&env.SettingsDir, defaults.SettingsDir)
	fillDefault(&env.RuntimeDir, defaults.RuntimeDir)

	if err := NewValidator().Validate(&env); err != nil {
		return Environment{}, fmt.Errorf("invalid host environment: %w", err)
	}

	return env, nil
}

func fillDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
