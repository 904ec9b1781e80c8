// SPDX-License-Identifier: Apache-2.0

package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/praxis-sdk/praxis/pkg/llm"
)

func TestNewDefaults(t *testing.T) {
	p := New()
	if p == nil {
		t.Fatal("expected non-nil provider")
	}
	if p.model != "gpt-4o-mini" {
		t.Errorf("model = %s, want gpt-4o-mini", p.model)
	}
}

func TestWithModel(t *testing.T) {
	p := New(WithModel("gpt-4.1"))
	if p.model != "gpt-4.1" {
		t.Errorf("model = %s, want gpt-4.1", p.model)
	}
}

func TestAPIKeyAndBaseURLCombine(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"chatcmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}],"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`)
	}))
	defer server.Close()

	// Both options must survive together: the key option must not be lost
	// when the base URL option runs after it.
	p := New(WithAPIKey("secret-key"), WithBaseURL(server.URL))

	resp, err := p.Chat(context.Background(), llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("content = %q", resp.Content)
	}
	if auth != "Bearer secret-key" {
		t.Errorf("authorization = %q, want %q", auth, "Bearer secret-key")
	}
}

func TestToMessageShapes(t *testing.T) {
	msgs := []llm.Message{
		{Role: llm.RoleSystem, Content: "You are helpful"},
		{Role: llm.RoleUser, Content: "Hello"},
		{Role: llm.RoleAssistant, Content: "Hi there"},
		{Role: llm.RoleTool, Content: "result", ToolCallID: "call_123"},
		{Role: llm.RoleAssistant, Content: "Working on it", ToolCalls: []llm.ToolCall{
			{
				ID:       "call_1",
				Type:     llm.ToolTypeFunction,
				Function: llm.FunctionCall{Name: "read_file", Arguments: `{"file_path":"a.txt"}`},
			},
		}},
	}

	out := toMessages(msgs)
	if len(out) != len(msgs) {
		t.Fatalf("converted %d messages, want %d", len(out), len(msgs))
	}
}

func TestToToolCarriesSchema(t *testing.T) {
	tool := llm.Tool{
		Type: llm.ToolTypeFunction,
		Function: llm.FunctionDef{
			Name:        "read_file",
			Description: "Reads a file from the workspace",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_path": map[string]interface{}{"type": "string"},
				},
				"required": []string{"file_path"},
			},
		},
	}

	converted := toTool(tool)
	if converted.Function.Name != "read_file" {
		t.Errorf("name = %s", converted.Function.Name)
	}
	if converted.Function.Parameters["type"] != "object" {
		t.Errorf("parameters = %v", converted.Function.Parameters)
	}
}
