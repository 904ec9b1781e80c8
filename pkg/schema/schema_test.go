// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidateRequired(t *testing.T) {
	obj := NewObject().
		Require("file_path", Property{Type: TypeString}).
		Add("mode", Property{Type: TypeString})

	if err := obj.Validate(map[string]any{"file_path": "a.txt"}); err != nil {
		t.Errorf("valid args rejected: %v", err)
	}

	err := obj.Validate(map[string]any{"mode": "w"})
	if err == nil {
		t.Fatal("missing required argument accepted")
	}
	if err.Field != "file_path" {
		t.Errorf("field = %q, want file_path", err.Field)
	}

	// Explicit null counts as missing.
	if err := obj.Validate(map[string]any{"file_path": nil}); err == nil {
		t.Error("null required argument accepted")
	}
}

func TestValidateTypes(t *testing.T) {
	obj := NewObject().
		Require("name", Property{Type: TypeString}).
		Add("count", Property{Type: TypeInteger}).
		Add("ratio", Property{Type: TypeNumber}).
		Add("force", Property{Type: TypeBoolean}).
		Add("tags", Property{Type: TypeArray, Items: &Property{Type: TypeString}})

	cases := []struct {
		name string
		args map[string]any
		ok   bool
	}{
		{"all valid", map[string]any{"name": "x", "count": float64(3), "ratio": 1.5, "force": true, "tags": []any{"a", "b"}}, true},
		{"go int for integer", map[string]any{"name": "x", "count": 3}, true},
		{"fractional integer", map[string]any{"name": "x", "count": 3.5}, false},
		{"wrong string type", map[string]any{"name": 42}, false},
		{"wrong bool type", map[string]any{"name": "x", "force": "yes"}, false},
		{"wrong array element", map[string]any{"name": "x", "tags": []any{"a", 1}}, false},
		{"undeclared ignored", map[string]any{"name": "x", "extra": struct{}{}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := obj.Validate(tc.args)
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateEnum(t *testing.T) {
	obj := NewObject().Require("mode", Property{Type: TypeString, Enum: []string{"w", "a"}})

	if err := obj.Validate(map[string]any{"mode": "a"}); err != nil {
		t.Errorf("enum member rejected: %v", err)
	}
	err := obj.Validate(map[string]any{"mode": "x"})
	if err == nil {
		t.Fatal("value outside enum accepted")
	}
	if !strings.Contains(err.Error(), "enum") {
		t.Errorf("unhelpful message: %v", err)
	}
}

func TestParametersWireForm(t *testing.T) {
	obj := NewObject().
		Require("file_path", Property{Type: TypeString, Description: "name of the file"}).
		Add("mode", Property{Type: TypeString, Enum: []string{"w", "a"}})

	params := obj.Parameters()
	if params["type"] != "object" {
		t.Errorf("type = %v", params["type"])
	}

	// The wire form must survive a JSON round trip, since providers
	// re-marshal it into their request bodies.
	data, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	props := decoded["properties"].(map[string]any)
	fp := props["file_path"].(map[string]any)
	if fp["description"] != "name of the file" {
		t.Errorf("description = %v", fp["description"])
	}
	required := decoded["required"].([]any)
	if len(required) != 1 || required[0] != "file_path" {
		t.Errorf("required = %v", required)
	}
}

func TestFromStruct(t *testing.T) {
	type writeArgs struct {
		FilePath string `json:"file_path" jsonschema:"description=The name of the file to write"`
		Content  string `json:"content"`
		Mode     string `json:"mode,omitempty" jsonschema:"enum=w,enum=a"`
	}

	obj, err := FromStruct(&writeArgs{})
	if err != nil {
		t.Fatalf("FromStruct: %v", err)
	}

	required := obj.Required()
	if len(required) != 2 {
		t.Fatalf("required = %v, want file_path and content", required)
	}

	if err := obj.Validate(map[string]any{"file_path": "a.txt", "content": "hi"}); err != nil {
		t.Errorf("valid args rejected: %v", err)
	}
	if err := obj.Validate(map[string]any{"file_path": "a.txt"}); err == nil {
		t.Error("missing content accepted")
	}
	if err := obj.Validate(map[string]any{"file_path": "a.txt", "content": "hi", "mode": "x"}); err == nil {
		t.Error("enum violation accepted")
	}
}

func TestFromStructRejectsNonStruct(t *testing.T) {
	if _, err := FromStruct(42); err == nil {
		t.Error("expected error for non-struct value")
	}
}
