package schema

import (
	jsonschema "github.com/swaggest/jsonschema-go"
)

// String creates a JSON schema for a string value
func String(description string) *jsonschema.Schema {
	return simple("string", description)
}

// Integer creates a JSON schema for an integer value
func Integer(description string) *jsonschema.Schema {
	return simple("integer", description)
}

// Bool creates a JSON schema for a boolean value with a default
func Bool(description string, defaultValue bool) *jsonschema.Schema {
	s := simple("boolean", description)
	defVal := interface{}(defaultValue)
	s.Default = &defVal
	return s
}

// Null describes a method that returns nothing
func Null() *jsonschema.Schema {
	nullType := jsonschema.SimpleType("null")
	return &jsonschema.Schema{
		Type: &jsonschema.Type{SimpleTypes: &nullType},
	}
}

// Object creates a JSON schema for an object with properties and required fields
func Object(properties map[string]*jsonschema.Schema, required []string) *jsonschema.Schema {
	schemaProps := make(map[string]jsonschema.SchemaOrBool, len(properties))
	for name, prop := range properties {
		schemaProps[name] = jsonschema.SchemaOrBool{TypeObject: prop}
	}

	objType := jsonschema.SimpleType("object")
	return &jsonschema.Schema{
		Type:       &jsonschema.Type{SimpleTypes: &objType},
		Properties: schemaProps,
		Required:   required,
	}
}

func simple(t, description string) *jsonschema.Schema {
	st := jsonschema.SimpleType(t)
	s := &jsonschema.Schema{
		Type: &jsonschema.Type{SimpleTypes: &st},
	}
	if description != "" {
		s.Description = &description
	}
	return s
}
