package config

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var pluginNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Validator validates configuration values using go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	v := validator.New()

	// Register custom validation functions
	v.RegisterValidation("plugin_name", validatePluginName)
	v.RegisterValidation("log_level", validateLogLevel)
	v.RegisterValidation("log_format", validateLogFormat)
	v.RegisterValidation("abs_path", validateAbsPath)
	v.RegisterValidation("abs_or_empty", validateAbsOrEmpty)

	return &Validator{
		validate: v,
	}
}

// Validate validates a Config or an Environment
func (v *Validator) Validate(config interface{}) error {
	if c, ok := config.(*Config); ok && c.Version == "" {
		c.Version = "1.0"
	}

	if err := v.validate.Struct(config); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			// Report the first failure only
			for _, e := range validationErrors {
				return ValidationError{
					Field:   e.Namespace(),
					Message: fmt.Sprintf("validation failed on tag '%s' with value '%v'", e.Tag(), e.Value()),
					Value:   e.Value(),
				}
			}
		}
		return err
	}

	return nil
}

func validatePluginName(fl validator.FieldLevel) bool {
	return pluginNamePattern.MatchString(fl.Field().String())
}

func validateLogLevel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return contains([]string{"debug", "info", "warn", "warning", "error"}, value)
}

func validateLogFormat(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return contains([]string{"json", "text"}, value)
}

func validateAbsPath(fl validator.FieldLevel) bool {
	return filepath.IsAbs(fl.Field().String())
}

func validateAbsOrEmpty(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	return path == "" || filepath.IsAbs(path)
}

// contains checks if a string is in a slice
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
