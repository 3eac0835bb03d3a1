package plugin

import (
	"github.com/elee1766/decky-plugin/src/schema"
	jsonschema "github.com/swaggest/jsonschema-go"
)

// Method describes a plugin method the frontend can call
type Method struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Params      *jsonschema.Schema `json:"params"`
	Result      *jsonschema.Schema `json:"result"`
}

// Methods lists the methods exposed by the template
func (t *Template) Methods() []Method {
	return []Method{
		{
			Name:        "add",
			Description: "Add two integers",
			Params: schema.Object(map[string]*jsonschema.Schema{
				"left":  schema.Integer("First operand"),
				"right": schema.Integer("Second operand"),
			}, []string{"left", "right"}),
			Result: schema.Integer("Sum of the operands"),
		},
		{
			Name:        "migrate",
			Description: "Move legacy logs, settings and runtime data into the loader directories",
			Params:      schema.Object(nil, nil),
			Result:      schema.Null(),
		},
	}
}
