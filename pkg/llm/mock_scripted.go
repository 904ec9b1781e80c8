package llm

import (
	"context"
	"errors"
	"sync"
)

// ScriptedMockProvider is a mock provider that returns a pre-defined
// sequence of responses. Useful for testing multi-turn interactions with
// the agent loop.
type ScriptedMockProvider struct {
	mu        sync.Mutex
	Responses []ChatResponse
	Err       error
	// CallCount tracks how many times Chat has been called.
	CallCount int
}

// NewScriptedMockProvider creates a mock that replies with the given texts
// in order.
func NewScriptedMockProvider(texts ...string) *ScriptedMockProvider {
	s := &ScriptedMockProvider{}
	for _, text := range texts {
		s.Responses = append(s.Responses, ChatResponse{Content: text})
	}
	return s
}

// Chat pops the next scripted response or returns the configured error.
func (s *ScriptedMockProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CallCount++

	if s.Err != nil {
		return nil, s.Err
	}

	if len(s.Responses) == 0 {
		return nil, errors.New("scripted mock: no more responses available")
	}

	resp := s.Responses[0]
	s.Responses = s.Responses[1:]
	if resp.Usage.TotalTokens == 0 {
		resp.Usage = Usage{PromptTokens: 10, CompletionTokens: 10, TotalTokens: 20}
	}
	return &resp, nil
}

// AddResponse appends a text response to the queue.
func (s *ScriptedMockProvider) AddResponse(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Responses = append(s.Responses, ChatResponse{Content: text})
}

// AddToolCallResponse appends a response that requests the given tool calls.
func (s *ScriptedMockProvider) AddToolCallResponse(calls ...ToolCall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Responses = append(s.Responses, ChatResponse{ToolCalls: calls})
}

var _ Provider = (*ScriptedMockProvider)(nil)
