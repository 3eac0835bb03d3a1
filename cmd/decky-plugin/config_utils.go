package main

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/elee1766/decky-plugin/src/config"
)

// getConfigValue retrieves a configuration value by its JSON key, e.g.
// "logging.level"
func getConfigValue(cfg *config.Config, key string) (interface{}, error) {
	v := reflect.ValueOf(cfg).Elem()
	return getNestedValue(v, key)
}

// setConfigValue sets a configuration value by its JSON key from a string
func setConfigValue(cfg *config.Config, key string, value string) error {
	v := reflect.ValueOf(cfg).Elem()
	return setNestedValue(v, key, value)
}

// getNestedValue retrieves a nested value from a struct using dot notation
func getNestedValue(v reflect.Value, key string) (interface{}, error) {
	for _, part := range strings.Split(key, ".") {
		field, err := fieldByJSONName(v, part)
		if err != nil {
			return nil, err
		}
		v = field
	}

	return v.Interface(), nil
}

// setNestedValue sets a nested value in a struct using dot notation
func setNestedValue(v reflect.Value, key string, value string) error {
	parts := strings.Split(key, ".")

	for i, part := range parts {
		field, err := fieldByJSONName(v, part)
		if err != nil {
			return err
		}

		if i < len(parts)-1 {
			v = field
			continue
		}

		if !field.CanSet() {
			return fmt.Errorf("field %s cannot be set", part)
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(value)
		case reflect.Bool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean for %s: %w", key, err)
			}
			field.SetBool(b)
		case reflect.Slice:
			if field.Type().Elem().Kind() != reflect.String {
				return fmt.Errorf("unsupported slice type for %s", key)
			}
			var items []string
			for _, item := range strings.Split(value, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			field.Set(reflect.ValueOf(items))
		default:
			return fmt.Errorf("cannot set %s: unsupported type %s", key, field.Type())
		}
	}

	return nil
}

// fieldByJSONName finds a struct field by the name used in the config file
func fieldByJSONName(v reflect.Value, name string) (reflect.Value, error) {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("cannot access field %s: not a struct", name)
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("json"), ",")[0]
		if tag == name {
			return v.Field(i), nil
		}
	}

	return reflect.Value{}, fmt.Errorf("field %s not found", name)
}
