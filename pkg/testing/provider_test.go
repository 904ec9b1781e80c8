// SPDX-License-Identifier: Apache-2.0

package testing

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/llm"
)

func TestScenarioProviderPopsInOrder(t *testing.T) {
	p := NewScenarioProvider().
		AddResponse("one").
		AddResponse("two")

	ctx := context.Background()
	first, err := p.Chat(ctx, llm.ChatRequest{})
	if err != nil || first.Content != "one" {
		t.Fatalf("first = %v, %v", first, err)
	}
	second, err := p.Chat(ctx, llm.ChatRequest{})
	if err != nil || second.Content != "two" {
		t.Fatalf("second = %v, %v", second, err)
	}
	if p.CallCount() != 2 {
		t.Errorf("call count = %d", p.CallCount())
	}
}

func TestScenarioProviderExhaustion(t *testing.T) {
	p := NewScenarioProvider()
	_, err := p.Chat(context.Background(), llm.ChatRequest{})
	if !errors.HasCode(err, errors.CodeProvider) {
		t.Errorf("error = %v", err)
	}
}

func TestScenarioProviderError(t *testing.T) {
	boom := stderrors.New("boom")
	p := NewScenarioProvider().AddErrorResponse(boom)

	_, err := p.Chat(context.Background(), llm.ChatRequest{})
	if !stderrors.Is(err, boom) {
		t.Errorf("error = %v", err)
	}
}

func TestScenarioProviderCapturesRequests(t *testing.T) {
	p := NewScenarioProvider().AddResponse("ok")

	req := llm.ChatRequest{
		Model:    "test-model",
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	}
	if _, err := p.Chat(context.Background(), req); err != nil {
		t.Fatalf("chat: %v", err)
	}

	last, ok := p.LastRequest()
	if !ok || last.Model != "test-model" {
		t.Errorf("last request = %+v, ok = %v", last, ok)
	}
	if len(p.Requests()) != 1 {
		t.Errorf("requests = %d", len(p.Requests()))
	}
}

func TestScenarioProviderOnChatHook(t *testing.T) {
	p := NewScenarioProvider().OnChat(func(req llm.ChatRequest) (*llm.ChatResponse, error) {
		return &llm.ChatResponse{Content: "hooked"}, nil
	})

	resp, err := p.Chat(context.Background(), llm.ChatRequest{})
	if err != nil || resp.Content != "hooked" {
		t.Errorf("resp = %v, err = %v", resp, err)
	}
}
