package schema

import (
	"fmt"
	"sort"
)

// Field describes a single argument: its type, whether the caller must supply
// it, an optional default applied when absent, and a human-readable
// description surfaced in capability listings.
type Field struct {
	Type        Type
	Description string
	Required    bool
	Default     any
}

// Fields maps argument names to their descriptors.
// Field names within one object are unique by construction.
type Fields map[string]Field

// Object is the declared shape of a tool's arguments.
// When Strict is false (the default), unknown fields are accepted and ignored
// for forward compatibility. When true, unknown fields are violations.
type Object struct {
	Fields Fields
	Strict bool
}

// Check verifies the object declaration itself is well formed:
// every field has a type, required fields carry no default, and declared
// defaults conform to their field's type.
func (o Object) Check() error {
	for name, f := range o.Fields {
		if f.Type == nil {
			return fmt.Errorf("field %q: type is nil", name)
		}
		if f.Default != nil {
			if f.Required {
				return fmt.Errorf("field %q: required fields cannot declare defaults", name)
			}
			if err := f.Type.Validate(f.Default); err != nil {
				return fmt.Errorf("field %q: default does not match type: %w", name, err)
			}
		}
	}
	return nil
}

// Validate checks args against the declared shape and returns a new map with
// defaults applied for absent optional fields. It never mutates args and
// collects every violation rather than stopping at the first. Validating the
// same arguments twice yields identical results.
func (o Object) Validate(args map[string]any) (map[string]any, error) {
	var errs []error

	clean := make(map[string]any, len(o.Fields))

	for _, name := range o.fieldNames() {
		f := o.Fields[name]
		value, present := args[name]
		if !present {
			if f.Required {
				errs = append(errs, &ValidationError{Key: name, Reason: "required"})
				continue
			}
			if f.Default != nil {
				clean[name] = f.Default
			}
			continue
		}
		if err := f.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: name, Reason: err.Error(), Value: value})
			continue
		}
		clean[name] = value
	}

	if o.Strict {
		for _, name := range sortedKeys(args) {
			if _, declared := o.Fields[name]; !declared {
				errs = append(errs, &ValidationError{Key: name, Reason: "unknown field", Value: args[name]})
			}
		}
	}

	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return clean, nil
}

// JSONSchema renders the object as a JSON-schema document suitable for
// advertising tool parameters to MCP hosts. Property and required ordering is
// deterministic (sorted by field name) so capability listings are stable.
func (o Object) JSONSchema() map[string]any {
	properties := make(map[string]any, len(o.Fields))
	var required []string

	for _, name := range o.fieldNames() {
		f := o.Fields[name]
		prop := f.Type.JSONSchema()
		if f.Description != "" {
			prop["description"] = f.Description
		}
		if f.Default != nil {
			prop["default"] = f.Default
		}
		properties[name] = prop
		if f.Required {
			required = append(required, name)
		}
	}

	s := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": !o.Strict,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func (o Object) fieldNames() []string {
	return sortedKeys(o.Fields)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
