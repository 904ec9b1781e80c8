// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"

	"github.com/invopop/jsonschema"
)

// FromStruct derives an Object schema from a Go struct. Field names follow
// the usual `json` tags; descriptions come from `jsonschema:"description=..."`
// tags. Fields without omitempty are required, matching the reflector's
// defaults. Nested structs surface as plain object properties; their inner
// shape is advertised to the provider but not re-validated at dispatch.
func FromStruct(v any) (*Object, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}

	reflected := reflector.Reflect(v)
	if reflected.Properties == nil {
		return nil, fmt.Errorf("schema: %T reflects to no properties", v)
	}

	required := make(map[string]bool, len(reflected.Required))
	for _, name := range reflected.Required {
		required[name] = true
	}

	obj := NewObject()
	for pair := reflected.Properties.Oldest(); pair != nil; pair = pair.Next() {
		prop, err := fromReflected(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("schema: field %q: %w", pair.Key, err)
		}
		if required[pair.Key] {
			obj.Require(pair.Key, prop)
		} else {
			obj.Add(pair.Key, prop)
		}
	}
	return obj, nil
}

// MustFromStruct is FromStruct for schemas built from static struct types,
// where a failure is a programming error.
func MustFromStruct(v any) *Object {
	obj, err := FromStruct(v)
	if err != nil {
		panic(err)
	}
	return obj
}

func fromReflected(s *jsonschema.Schema) (Property, error) {
	if s == nil {
		return Property{}, fmt.Errorf("nil schema")
	}

	prop := Property{
		Type:        Type(s.Type),
		Description: s.Description,
	}
	for _, raw := range s.Enum {
		if str, ok := raw.(string); ok {
			prop.Enum = append(prop.Enum, str)
		}
	}
	if s.Items != nil {
		items, err := fromReflected(s.Items)
		if err != nil {
			return Property{}, err
		}
		prop.Items = &items
	}

	switch prop.Type {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeArray, TypeObject:
		return prop, nil
	default:
		return Property{}, fmt.Errorf("unsupported type %q", s.Type)
	}
}
