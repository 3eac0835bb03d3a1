package config

import (
	"encoding/json"
	"fmt"

	jsonschema "github.com/swaggest/jsonschema-go"
)

// Schema returns the JSON schema of the configuration file
func Schema() (*jsonschema.Schema, error) {
	r := jsonschema.Reflector{}

	s, err := r.Reflect(Config{}, jsonschema.InlineRefs)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect config schema: %w", err)
	}

	title := "decky plugin configuration"
	s.Title = &title

	return &s, nil
}

// SchemaJSON returns the indented JSON schema of the configuration file
func SchemaJSON() ([]byte, error) {
	s, err := Schema()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(s, "", "  ")
}
