// SPDX-License-Identifier: Apache-2.0

// Package testing offers scenario-driven provider mocks and transcript
// assertion helpers for exercising agent loops offline.
package testing

import (
	"context"
	"sync"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/llm"
)

// ScenarioProvider is a scripted llm.Provider with request capture, for
// asserting on what the agent actually sent.
type ScenarioProvider struct {
	mu        sync.Mutex
	responses []ScriptedResponse
	requests  []llm.ChatRequest
	onChat    func(req llm.ChatRequest) (*llm.ChatResponse, error)
}

// ScriptedResponse is one queued provider reply.
type ScriptedResponse struct {
	Content   string
	ToolCalls []llm.ToolCall
	Error     error
	Usage     llm.Usage
}

// NewScenarioProvider creates an empty scenario.
func NewScenarioProvider() *ScenarioProvider {
	return &ScenarioProvider{}
}

// AddResponse queues a text reply. Returns the provider for chaining.
func (p *ScenarioProvider) AddResponse(content string) *ScenarioProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, ScriptedResponse{Content: content})
	return p
}

// AddToolCallResponse queues a reply that requests tool calls.
func (p *ScenarioProvider) AddToolCallResponse(toolCalls ...llm.ToolCall) *ScenarioProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, ScriptedResponse{ToolCalls: toolCalls})
	return p
}

// AddErrorResponse queues a provider failure.
func (p *ScenarioProvider) AddErrorResponse(err error) *ScenarioProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, ScriptedResponse{Error: err})
	return p
}

// OnChat installs a hook that bypasses the queue entirely.
func (p *ScenarioProvider) OnChat(fn func(req llm.ChatRequest) (*llm.ChatResponse, error)) *ScenarioProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChat = fn
	return p
}

// Chat implements llm.Provider.
func (p *ScenarioProvider) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)

	if p.onChat != nil {
		return p.onChat(req)
	}

	if len(p.responses) == 0 {
		return nil, errors.New(errors.CodeProvider, "scenario exhausted: no responses queued", nil)
	}

	next := p.responses[0]
	p.responses = p.responses[1:]

	if next.Error != nil {
		return nil, next.Error
	}

	usage := next.Usage
	if usage.TotalTokens == 0 {
		usage = llm.Usage{PromptTokens: 10, CompletionTokens: 10, TotalTokens: 20}
	}
	return &llm.ChatResponse{
		Content:   next.Content,
		ToolCalls: next.ToolCalls,
		Usage:     usage,
	}, nil
}

// Requests returns a copy of the captured requests in call order.
func (p *ScenarioProvider) Requests() []llm.ChatRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]llm.ChatRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

// CallCount returns the number of Chat calls so far.
func (p *ScenarioProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

// LastRequest returns the most recent request, or false if none were made.
func (p *ScenarioProvider) LastRequest() (llm.ChatRequest, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.requests) == 0 {
		return llm.ChatRequest{}, false
	}
	return p.requests[len(p.requests)-1], true
}

var _ llm.Provider = (*ScenarioProvider)(nil)
