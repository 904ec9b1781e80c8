// SPDX-License-Identifier: Apache-2.0

// Package mcp bridges Model Context Protocol tools into the SDK's tool
// contract, so MCP server capabilities can join an agent's tool set.
package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/schema"
	"github.com/praxis-sdk/praxis/pkg/tools"
)

// ToolCaller abstracts MCP tool execution, typically backed by an MCP
// client session.
type ToolCaller interface {
	CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error)
}

// ToolAdapter exposes one MCP tool as a tools.Tool.
type ToolAdapter struct {
	tool   mcp.Tool
	caller ToolCaller
	schema *schema.Object
}

// NewToolAdapter builds an adapter for the given MCP tool definition.
func NewToolAdapter(tool mcp.Tool, caller ToolCaller) (*ToolAdapter, error) {
	if tool.Name == "" {
		return nil, errors.New(errors.CodeInvalidInput, "mcp tool name is required", nil)
	}
	if caller == nil {
		return nil, errors.New(errors.CodeInvalidInput, "tool caller is required", nil)
	}
	return &ToolAdapter{
		tool:   tool,
		caller: caller,
		schema: schemaFromMCP(tool.InputSchema),
	}, nil
}

// Name returns the MCP tool name.
func (t *ToolAdapter) Name() string { return t.tool.Name }

// Description returns the MCP tool description.
func (t *ToolAdapter) Description() string { return t.tool.Description }

// Schema returns the argument schema derived from the MCP input schema.
func (t *ToolAdapter) Schema() *schema.Object { return t.schema }

// Call forwards the arguments to the MCP server and flattens the result to
// text.
func (t *ToolAdapter) Call(ctx context.Context, args map[string]any) (string, error) {
	if args == nil {
		args = map[string]any{}
	}

	result, err := t.caller.CallTool(ctx, t.tool.Name, args)
	if err != nil {
		return "", errors.New(errors.CodeToolFailure, "mcp tool call failed", err).
			WithContext("tool", t.tool.Name)
	}
	if result == nil {
		return "", errors.New(errors.CodeToolFailure, "mcp tool returned no result", nil).
			WithContext("tool", t.tool.Name)
	}
	if result.IsError {
		return "", errors.New(errors.CodeToolFailure,
			"mcp tool returned error: "+extractTextContent(result.Content), nil).
			WithContext("tool", t.tool.Name)
	}

	if result.StructuredContent != nil {
		encoded, err := json.Marshal(result.StructuredContent)
		if err != nil {
			return "", errors.New(errors.CodeToolFailure, "failed to encode structured content", err)
		}
		return string(encoded), nil
	}

	return extractTextContent(result.Content), nil
}

// schemaFromMCP converts an MCP input schema into the SDK's schema form.
// Nested object details beyond one level are dropped; validation of deep
// structures stays with the MCP server.
func schemaFromMCP(in mcp.ToolInputSchema) *schema.Object {
	out := schema.NewObject()
	required := make(map[string]bool, len(in.Required))
	for _, name := range in.Required {
		required[name] = true
	}

	for name, raw := range in.Properties {
		prop := schema.Property{Type: schema.TypeString}
		if spec, ok := raw.(map[string]any); ok {
			if typ, ok := spec["type"].(string); ok {
				prop.Type = schema.Type(typ)
			}
			if desc, ok := spec["description"].(string); ok {
				prop.Description = desc
			}
			if rawEnum, ok := spec["enum"].([]any); ok {
				for _, v := range rawEnum {
					if s, ok := v.(string); ok {
						prop.Enum = append(prop.Enum, s)
					}
				}
			}
		}
		if required[name] {
			out.Require(name, prop)
		} else {
			out.Add(name, prop)
		}
	}
	return out
}

func extractTextContent(items []mcp.Content) string {
	var parts []string
	for _, item := range items {
		switch content := item.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		}
	}
	return strings.Join(parts, "\n")
}

var _ tools.Tool = (*ToolAdapter)(nil)
