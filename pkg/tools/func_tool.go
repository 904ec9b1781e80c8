// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"

	"github.com/praxis-sdk/praxis/pkg/schema"
)

// FuncTool adapts a plain function into a Tool. It is the quickest way to
// expose an existing capability without defining a new type.
type FuncTool struct {
	name        string
	description string
	schema      *schema.Object
	fn          func(ctx context.Context, args map[string]any) (string, error)
}

// NewFunc wraps fn as a tool. A nil schema means the tool takes no arguments.
func NewFunc(name, description string, s *schema.Object, fn func(ctx context.Context, args map[string]any) (string, error)) *FuncTool {
	if s == nil {
		s = schema.NewObject()
	}
	return &FuncTool{name: name, description: description, schema: s, fn: fn}
}

func (t *FuncTool) Name() string           { return t.name }
func (t *FuncTool) Description() string    { return t.description }
func (t *FuncTool) Schema() *schema.Object { return t.schema }

// Call implements Tool.
func (t *FuncTool) Call(ctx context.Context, args map[string]any) (string, error) {
	return t.fn(ctx, args)
}

var _ Tool = (*FuncTool)(nil)
