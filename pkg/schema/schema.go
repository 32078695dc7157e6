package schema

// Type names the JSON type a property value must have.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeNull    Type = "null"
)

// Property describes one allowed payload property. Object properties may
// declare nested Properties/Required; array properties may declare Items.
type Property struct {
	Type                 Type                `json:"type"`
	Properties           map[string]Property `json:"properties,omitempty"`
	Required             []string            `json:"required,omitempty"`
	Items                *Property           `json:"items,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties,omitempty"`
}

// Schema is the structural description of an allowed payload shape.
// A Schema is immutable once handed to an event definition.
type Schema struct {
	Title                string              `json:"title,omitempty"`
	Type                 Type                `json:"type"`
	Properties           map[string]Property `json:"properties,omitempty"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

// Object is a convenience constructor for the common case: an object schema
// with the given properties, required list, and no additional properties.
func Object(properties map[string]Property, required ...string) Schema {
	return Schema{
		Type:       TypeObject,
		Properties: properties,
		Required:   required,
	}
}
