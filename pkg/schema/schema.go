// SPDX-License-Identifier: Apache-2.0

// Package schema describes tool argument schemas and validates incoming
// arguments against them. The descriptor mirrors the subset of JSON Schema
// that chat-completion APIs understand for function calling; validation is
// an explicit routine with a typed result rather than a dynamic validator.
package schema

import (
	"fmt"
	"math"
)

// Type enumerates the JSON value types a property may declare.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Property describes a single named argument.
type Property struct {
	Type        Type
	Description string
	// Enum restricts string properties to a fixed value set.
	Enum []string
	// Items describes array elements. Optional; unset arrays accept any
	// element type.
	Items *Property
}

// Object is the argument schema of one tool: an ordered set of named
// properties plus the required subset. The zero value is not usable; build
// with NewObject or FromStruct.
type Object struct {
	props    map[string]Property
	required map[string]bool
	order    []string
}

// NewObject creates an empty object schema.
func NewObject() *Object {
	return &Object{
		props:    make(map[string]Property),
		required: make(map[string]bool),
	}
}

// Add registers an optional property. Returns the schema for chaining.
func (o *Object) Add(name string, p Property) *Object {
	if _, exists := o.props[name]; !exists {
		o.order = append(o.order, name)
	}
	o.props[name] = p
	return o
}

// Require registers a required property. Returns the schema for chaining.
func (o *Object) Require(name string, p Property) *Object {
	o.Add(name, p)
	o.required[name] = true
	return o
}

// Required returns the required property names in declaration order.
func (o *Object) Required() []string {
	var names []string
	for _, name := range o.order {
		if o.required[name] {
			names = append(names, name)
		}
	}
	return names
}

// Parameters returns the JSON-Schema wire form consumed by providers.
func (o *Object) Parameters() map[string]any {
	props := make(map[string]any, len(o.props))
	for name, p := range o.props {
		props[name] = propertyParameters(p)
	}
	params := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if required := o.Required(); len(required) > 0 {
		params["required"] = required
	}
	return params
}

func propertyParameters(p Property) map[string]any {
	out := map[string]any{"type": string(p.Type)}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if len(p.Enum) > 0 {
		out["enum"] = p.Enum
	}
	if p.Items != nil {
		out["items"] = propertyParameters(*p.Items)
	}
	return out
}

// ValidationError reports why an argument payload does not satisfy the
// schema. It is the typed result of Validate; a nil *ValidationError means
// the payload is valid.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("argument %q: %s", e.Field, e.Reason)
}

// Validate checks args against the schema. Required properties must be
// present and non-nil; present properties must match their declared type.
// Properties not declared in the schema are ignored, matching the
// permissive argument handling of chat-completion providers.
func (o *Object) Validate(args map[string]any) *ValidationError {
	for _, name := range o.Required() {
		if value, ok := args[name]; !ok || value == nil {
			return &ValidationError{Field: name, Reason: "required argument is missing"}
		}
	}

	for name, value := range args {
		prop, declared := o.props[name]
		if !declared || value == nil {
			continue
		}
		if reason := checkType(prop, value); reason != "" {
			return &ValidationError{Field: name, Reason: reason}
		}
	}
	return nil
}

// checkType verifies a JSON-decoded value against a property declaration.
// Numeric checks accept both float64 (the encoding/json default) and the Go
// integer types produced by programmatic callers.
func checkType(p Property, value any) string {
	switch p.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("expected string, got %T", value)
		}
		if len(p.Enum) > 0 && !containsString(p.Enum, s) {
			return fmt.Sprintf("value %q not in enum %v", s, p.Enum)
		}
	case TypeNumber:
		if !isNumeric(value) {
			return fmt.Sprintf("expected number, got %T", value)
		}
	case TypeInteger:
		f, ok := asFloat(value)
		if !ok {
			return fmt.Sprintf("expected integer, got %T", value)
		}
		if f != math.Trunc(f) {
			return fmt.Sprintf("expected integer, got %v", value)
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("expected boolean, got %T", value)
		}
	case TypeArray:
		items, ok := value.([]any)
		if !ok {
			return fmt.Sprintf("expected array, got %T", value)
		}
		if p.Items != nil {
			for i, item := range items {
				if reason := checkType(*p.Items, item); reason != "" {
					return fmt.Sprintf("element %d: %s", i, reason)
				}
			}
		}
	case TypeObject:
		if _, ok := value.(map[string]any); !ok {
			return fmt.Sprintf("expected object, got %T", value)
		}
	}
	return ""
}

func isNumeric(value any) bool {
	_, ok := asFloat(value)
	return ok
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
