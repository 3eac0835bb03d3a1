// Package schema builds the JSON Schema fragments that describe the
// arguments and results of plugin methods callable from the frontend.
//
// Example usage:
//
//	params := schema.Object(map[string]*jsonschema.Schema{
//		"left":  schema.Integer("First operand"),
//		"right": schema.Integer("Second operand"),
//	}, []string{"left", "right"})
package schema
