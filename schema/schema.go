// Package schema describes tool input schemas as plain data and validates
// call arguments against them.
package schema

import "sync"

// Schema type names.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Schema is a JSON Schema document. The same value is advertised in
// tools/list and compiled for argument validation, so the two cannot drift.
type Schema struct {
	Type                 string             `json:"type,omitempty"`
	Description          string             `json:"description,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Default              any                `json:"default,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	Minimum              *float64           `json:"minimum,omitempty"`
	Maximum              *float64           `json:"maximum,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`

	compileOnce sync.Once
	compiled    compiledSchema
	compileErr  error
}

// Property is a named member of an object schema.
type Property struct {
	Name     string
	Schema   *Schema
	Required bool
}

// Prop declares an optional object property.
func Prop(name string, s *Schema) Property {
	return Property{Name: name, Schema: s}
}

// Required declares a required object property.
func Required(name string, s *Schema) Property {
	return Property{Name: name, Schema: s, Required: true}
}

// Object builds an object schema. Required names keep declaration order.
func Object(props ...Property) *Schema {
	s := &Schema{Type: TypeObject}
	if len(props) == 0 {
		return s
	}
	s.Properties = make(map[string]*Schema, len(props))
	for _, p := range props {
		s.Properties[p.Name] = p.Schema
		if p.Required {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s
}

// String builds a string schema.
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// Integer builds an integer schema.
func Integer(description string) *Schema {
	return &Schema{Type: TypeInteger, Description: description}
}

// Number builds a number schema.
func Number(description string) *Schema {
	return &Schema{Type: TypeNumber, Description: description}
}

// Boolean builds a boolean schema.
func Boolean(description string) *Schema {
	return &Schema{Type: TypeBoolean, Description: description}
}

// Array builds an array schema with the given item schema.
func Array(description string, items *Schema) *Schema {
	return &Schema{Type: TypeArray, Description: description, Items: items}
}

// Min sets the inclusive minimum and returns s.
func (s *Schema) Min(v float64) *Schema {
	s.Minimum = &v
	return s
}

// Max sets the inclusive maximum and returns s.
func (s *Schema) Max(v float64) *Schema {
	s.Maximum = &v
	return s
}

// WithDefault records the value used when the property is omitted.
func (s *Schema) WithDefault(v any) *Schema {
	s.Default = v
	return s
}

// OneOf restricts the value to the given options.
func (s *Schema) OneOf(values ...any) *Schema {
	s.Enum = values
	return s
}

// Strict forbids properties that are not declared.
func (s *Schema) Strict() *Schema {
	f := false
	s.AdditionalProperties = &f
	return s
}
