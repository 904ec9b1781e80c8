// SPDX-License-Identifier: Apache-2.0

// Package tools defines the tool contract agents dispatch against, plus a
// small set of built-in tools for file access, user interaction, and
// delegation to other agents.
package tools

import (
	"context"
	"fmt"

	"github.com/praxis-sdk/praxis/pkg/llm"
	"github.com/praxis-sdk/praxis/pkg/schema"
)

// Tool is a named capability an agent can expose to its model. Call receives
// arguments already decoded from the model's JSON payload; implementations
// may assume required fields validated against Schema are present.
type Tool interface {
	Name() string
	Description() string
	Schema() *schema.Object
	Call(ctx context.Context, args map[string]any) (string, error)
}

// Result is the outcome of one dispatched tool call, successful or not.
// Failed dispatches are results too: they travel back to the model as tool
// messages so it can react, rather than aborting the run.
type Result struct {
	ToolCallID string
	Name       string
	Success    bool
	Content    string
	Error      string
}

// Succeed builds a successful result for a call.
func Succeed(callID, name, content string) Result {
	return Result{ToolCallID: callID, Name: name, Success: true, Content: content}
}

// Fail builds a failed result carrying the error text.
func Fail(callID, name string, err error) Result {
	return Result{ToolCallID: callID, Name: name, Success: false, Error: err.Error()}
}

// Message renders the result as the tool message fed back to the model.
func (r Result) Message() llm.Message {
	content := r.Content
	if !r.Success {
		content = fmt.Sprintf("Error: %s", r.Error)
	}
	return llm.Message{
		Role:       llm.RoleTool,
		Content:    content,
		ToolCallID: r.ToolCallID,
	}
}

// Definition renders a tool as the wire definition advertised to providers.
func Definition(t Tool) llm.Tool {
	return llm.Tool{
		Type: llm.ToolTypeFunction,
		Function: llm.FunctionDef{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Schema().Parameters(),
		},
	}
}

// Definitions renders a tool set in order.
func Definitions(ts []Tool) []llm.Tool {
	out := make([]llm.Tool, len(ts))
	for i, t := range ts {
		out[i] = Definition(t)
	}
	return out
}
