// SPDX-License-Identifier: Apache-2.0

// Package anthropic binds the Anthropic Messages API to llm.Provider.
package anthropic

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/llm"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 4096
)

// Provider implements llm.Provider for the Anthropic Messages API.
type Provider struct {
	client     anthropic.Client
	model      string
	maxTokens  int64
	clientOpts []option.RequestOption
}

// Option configures the Provider.
type Option func(*Provider)

// WithModel sets the default model used when the request leaves it empty.
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithMaxTokens sets the default response token budget. The Messages API
// requires one on every call.
func WithMaxTokens(tokens int64) Option {
	return func(p *Provider) {
		p.maxTokens = tokens
	}
}

// WithBaseURL sets a custom base URL.
func WithBaseURL(url string) Option {
	return func(p *Provider) {
		p.clientOpts = append(p.clientOpts, option.WithBaseURL(url))
	}
}

// WithAPIKey sets an explicit API key instead of ANTHROPIC_API_KEY.
func WithAPIKey(apiKey string) Option {
	return func(p *Provider) {
		p.clientOpts = append(p.clientOpts, option.WithAPIKey(apiKey))
	}
}

// New creates an Anthropic provider. Without WithAPIKey the SDK reads the
// ANTHROPIC_API_KEY environment variable. Client options accumulate, so key
// and base URL combine rather than the last one winning.
func New(opts ...Option) *Provider {
	p := &Provider{
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.client = anthropic.NewClient(p.clientOpts...)
	return p
}

// Chat implements llm.Provider. The system message is lifted out of the
// transcript into the request's system field; tool results travel back as
// user messages with tool_result blocks, per the Messages API shape.
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}
	maxTokens := p.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	var system string
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, msg := range req.Messages {
		if msg.Role == llm.RoleSystem {
			system = msg.Content
			continue
		}
		messages = append(messages, toMessage(msg))
	}

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  messages,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Type: "text", Text: system}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if len(req.Tools) > 0 {
		tools := make([]anthropic.ToolUnionParam, 0, len(req.Tools))
		for _, tool := range req.Tools {
			tools = append(tools, toTool(tool))
		}
		params.Tools = tools
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, errors.New(errors.CodeProvider, "anthropic message failed", err)
	}

	return fromMessage(message), nil
}

func toMessage(msg llm.Message) anthropic.MessageParam {
	switch msg.Role {
	case llm.RoleAssistant:
		if len(msg.ToolCalls) == 0 {
			return anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content))
		}
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.ToolCalls)+1)
		if msg.Content != "" {
			blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
		}
		for _, tc := range msg.ToolCalls {
			var input map[string]interface{}
			json.Unmarshal([]byte(tc.Function.Arguments), &input)
			blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, input, tc.Function.Name))
		}
		return anthropic.MessageParam{Role: "assistant", Content: blocks}
	case llm.RoleTool:
		return anthropic.NewUserMessage(
			anthropic.NewToolResultBlock(msg.ToolCallID, msg.Content, false),
		)
	default:
		return anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content))
	}
}

func toTool(tool llm.Tool) anthropic.ToolUnionParam {
	raw, _ := json.Marshal(tool.Function.Parameters)
	var inputSchema anthropic.ToolInputSchemaParam
	json.Unmarshal(raw, &inputSchema)

	return anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        tool.Function.Name,
			Description: anthropic.String(tool.Function.Description),
			InputSchema: inputSchema,
		},
	}
}

func fromMessage(message *anthropic.Message) *llm.ChatResponse {
	resp := &llm.ChatResponse{
		Usage: llm.Usage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
			TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
		},
	}

	var text string
	for _, block := range message.Content {
		switch block.Type {
		case "text":
			text += block.Text
		case "tool_use":
			args, _ := json.Marshal(block.Input)
			resp.ToolCalls = append(resp.ToolCalls, llm.ToolCall{
				ID:   block.ID,
				Type: llm.ToolTypeFunction,
				Function: llm.FunctionCall{
					Name:      block.Name,
					Arguments: string(args),
				},
			})
		}
	}
	resp.Content = text
	return resp
}

var _ llm.Provider = (*Provider)(nil)
