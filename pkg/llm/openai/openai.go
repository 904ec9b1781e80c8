// SPDX-License-Identifier: Apache-2.0

// Package openai binds the OpenAI chat completions API to llm.Provider.
package openai

import (
	"context"
	"encoding/json"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/llm"
)

const defaultModel = "gpt-4o-mini"

// Provider implements llm.Provider for the OpenAI API.
type Provider struct {
	client     openai.Client
	model      string
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

// WithBaseURL points the client at a proxy or Azure-style endpoint.
func WithBaseURL(url string) Option {
	return func(p *Provider) {
		p.clientOpts = append(p.clientOpts, option.WithBaseURL(url))
	}
}

// WithAPIKey sets an explicit API key instead of OPENAI_API_KEY.
func WithAPIKey(apiKey string) Option {
	return func(p *Provider) {
		p.clientOpts = append(p.clientOpts, option.WithAPIKey(apiKey))
	}
}

// New creates an OpenAI provider. Without WithAPIKey the SDK reads the
// OPENAI_API_KEY environment variable. Client options accumulate, so key
// and base URL combine rather than the last one winning.
func New(opts ...Option) *Provider {
	p := &Provider{
		model: defaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.client = openai.NewClient(p.clientOpts...)
	return p
}

// Chat implements llm.Provider.
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: toMessages(req.Messages),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if len(req.Tools) > 0 {
		tools := make([]openai.ChatCompletionToolParam, 0, len(req.Tools))
		for _, tool := range req.Tools {
			tools = append(tools, toTool(tool))
		}
		params.Tools = tools
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.New(errors.CodeProvider, "openai chat completion failed", err)
	}

	return fromCompletion(completion), nil
}

func toMessages(messages []llm.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		out = append(out, toMessage(msg))
	}
	return out
}

func toMessage(msg llm.Message) openai.ChatCompletionMessageParamUnion {
	switch msg.Role {
	case llm.RoleSystem:
		return openai.SystemMessage(msg.Content)
	case llm.RoleAssistant:
		if len(msg.ToolCalls) == 0 {
			return openai.AssistantMessage(msg.Content)
		}
		toolCalls := make([]openai.ChatCompletionMessageToolCallParam, 0, len(msg.ToolCalls))
		for _, tc := range msg.ToolCalls {
			toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallParam{
				ID:   tc.ID,
				Type: "function",
				Function: openai.ChatCompletionMessageToolCallFunctionParam{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		assistant := openai.ChatCompletionAssistantMessageParam{ToolCalls: toolCalls}
		if msg.Content != "" {
			assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
				OfString: param.NewOpt(msg.Content),
			}
		}
		return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
	case llm.RoleTool:
		return openai.ToolMessage(msg.Content, msg.ToolCallID)
	default:
		return openai.UserMessage(msg.Content)
	}
}

func toTool(tool llm.Tool) openai.ChatCompletionToolParam {
	// The schema descriptor is already JSON-shaped; round-trip it into the
	// SDK's parameter map.
	raw, _ := json.Marshal(tool.Function.Parameters)
	var params openai.FunctionParameters
	json.Unmarshal(raw, &params)

	return openai.ChatCompletionToolParam{
		Type: "function",
		Function: openai.FunctionDefinitionParam{
			Name:        tool.Function.Name,
			Description: openai.String(tool.Function.Description),
			Parameters:  params,
		},
	}
}

func fromCompletion(completion *openai.ChatCompletion) *llm.ChatResponse {
	resp := &llm.ChatResponse{
		Usage: llm.Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}
	if len(completion.Choices) == 0 {
		return resp
	}

	choice := completion.Choices[0]
	resp.Content = choice.Message.Content
	for _, tc := range choice.Message.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, llm.ToolCall{
			ID:   tc.ID,
			Type: llm.ToolTypeFunction,
			Function: llm.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return resp
}

var _ llm.Provider = (*Provider)(nil)
