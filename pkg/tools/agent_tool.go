// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"fmt"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/schema"
)

// Runner is the slice of an agent that AgentTool needs. Declared here so the
// tools package does not depend on the agent package.
type Runner interface {
	Run(ctx context.Context, input string) (string, error)
}

// AgentTool exposes another agent as a callable tool, so a coordinator agent
// can delegate sub-tasks to specialists. The wrapped agent runs its own loop
// with its own provider and tools; only the final text comes back.
type AgentTool struct {
	runner      Runner
	name        string
	description string
	schema      *schema.Object
}

// NewAgentTool wraps runner under the given tool name. An empty description
// defaults to "Calls agent: <name>".
func NewAgentTool(runner Runner, name, description string) *AgentTool {
	if description == "" {
		description = fmt.Sprintf("Calls agent: %s", name)
	}
	return &AgentTool{
		runner:      runner,
		name:        name,
		description: description,
		schema: schema.NewObject().
			Require("query", schema.Property{
				Type:        schema.TypeString,
				Description: "Message to forward to the agent",
			}),
	}
}

func (t *AgentTool) Name() string           { return t.name }
func (t *AgentTool) Description() string    { return t.description }
func (t *AgentTool) Schema() *schema.Object { return t.schema }

// Call implements Tool.
func (t *AgentTool) Call(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return "", errors.New(errors.CodeInvalidInput, "query is required", nil)
	}

	result, err := t.runner.Run(ctx, query)
	if err != nil {
		return "", errors.New(errors.CodeToolFailure, "delegated agent failed", err).
			WithContext("agent_tool", t.name)
	}
	return result, nil
}

var _ Tool = (*AgentTool)(nil)
