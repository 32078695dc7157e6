package schema

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Violation records a single failed constraint with context.
type Violation struct {
	Field   string
	Message string
	Value   interface{}
}

func (v Violation) String() string {
	return fmt.Sprintf("field '%s': %s (value: %v)", v.Field, v.Message, v.Value)
}

// ValidationError aggregates every constraint a payload violated, so callers
// see the complete report in one pass rather than the first mismatch only.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("payload validation failed: %s", strings.Join(msgs, "; "))
}

// Validate checks payload against the schema and returns a *ValidationError
// listing every violated constraint, or nil when the payload conforms.
// The payload is not modified.
func (s Schema) Validate(payload map[string]interface{}) error {
	violations := validateObject("", s.Properties, s.Required, s.AdditionalProperties, payload)
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

func validateObject(path string, props map[string]Property, required []string, additional bool, payload map[string]interface{}) []Violation {
	var violations []Violation

	for _, name := range required {
		if _, ok := payload[name]; !ok {
			violations = append(violations, Violation{
				Field:   join(path, name),
				Message: "required property is missing",
				Value:   nil,
			})
		}
	}

	// Deterministic report order for the declared properties.
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value, ok := payload[name]
		if !ok {
			continue
		}
		violations = append(violations, validateValue(join(path, name), props[name], value)...)
	}

	if !additional {
		extras := make([]string, 0)
		for key := range payload {
			if _, ok := props[key]; !ok {
				extras = append(extras, key)
			}
		}
		sort.Strings(extras)
		for _, key := range extras {
			violations = append(violations, Violation{
				Field:   join(path, key),
				Message: "additional property is not allowed",
				Value:   payload[key],
			})
		}
	}

	return violations
}

func validateValue(path string, prop Property, value interface{}) []Violation {
	if !matchesType(prop.Type, value) {
		return []Violation{{
			Field:   path,
			Message: fmt.Sprintf("expected type %s", prop.Type),
			Value:   value,
		}}
	}

	switch prop.Type {
	case TypeObject:
		if prop.Properties == nil && len(prop.Required) == 0 {
			return nil
		}
		obj, ok := value.(map[string]interface{})
		if !ok {
			return nil
		}
		additional := prop.AdditionalProperties || prop.Properties == nil
		return validateObject(path, prop.Properties, prop.Required, additional, obj)
	case TypeArray:
		if prop.Items == nil {
			return nil
		}
		var violations []Violation
		for i, item := range value.([]interface{}) {
			violations = append(violations, validateValue(fmt.Sprintf("%s[%d]", path, i), *prop.Items, item)...)
		}
		return violations
	}
	return nil
}

// matchesType maps JSON types onto the Go values produced by decoding
// arbitrary JSON (string, bool, float64, map, slice, nil). Integer payloads
// constructed in Go directly are accepted as well.
func matchesType(t Type, value interface{}) bool {
	switch t {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeNumber:
		return isNumber(value)
	case TypeInteger:
		f, ok := asFloat(value)
		return ok && f == math.Trunc(f)
	case TypeObject:
		_, ok := value.(map[string]interface{})
		return ok
	case TypeArray:
		_, ok := value.([]interface{})
		return ok
	case TypeNull:
		return value == nil
	}
	return false
}

func isNumber(value interface{}) bool {
	_, ok := asFloat(value)
	return ok
}

func asFloat(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
