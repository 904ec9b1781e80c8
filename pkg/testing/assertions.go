// SPDX-License-Identifier: Apache-2.0

package testing

import (
	"strings"
	"testing"

	"github.com/praxis-sdk/praxis/pkg/llm"
	"github.com/praxis-sdk/praxis/pkg/memory"
)

// TranscriptAssertions checks transcript shape and content in agent tests.
type TranscriptAssertions struct {
	t        *testing.T
	messages []memory.ConversationMessage
}

// AssertTranscript wraps a transcript for assertions.
func AssertTranscript(t *testing.T, messages []memory.ConversationMessage) *TranscriptAssertions {
	t.Helper()
	return &TranscriptAssertions{t: t, messages: messages}
}

// HasLength asserts the entry count.
func (a *TranscriptAssertions) HasLength(n int) *TranscriptAssertions {
	a.t.Helper()
	if len(a.messages) != n {
		a.t.Errorf("transcript has %d entries, want %d", len(a.messages), n)
	}
	return a
}

// HasRoleSequence asserts the roles in order.
func (a *TranscriptAssertions) HasRoleSequence(roles ...string) *TranscriptAssertions {
	a.t.Helper()
	if len(a.messages) != len(roles) {
		a.t.Errorf("transcript has %d entries, want %d roles", len(a.messages), len(roles))
		return a
	}
	for i, role := range roles {
		if a.messages[i].Role != role {
			a.t.Errorf("entry %d role = %q, want %q", i, a.messages[i].Role, role)
		}
	}
	return a
}

// EntryContains asserts entry i's content contains substr.
func (a *TranscriptAssertions) EntryContains(i int, substr string) *TranscriptAssertions {
	a.t.Helper()
	if i >= len(a.messages) {
		a.t.Errorf("transcript has no entry %d", i)
		return a
	}
	if !strings.Contains(a.messages[i].Content, substr) {
		a.t.Errorf("entry %d content = %q, want substring %q", i, a.messages[i].Content, substr)
	}
	return a
}

// ToolResultFor asserts that some tool entry answers the given call id.
func (a *TranscriptAssertions) ToolResultFor(callID string) *TranscriptAssertions {
	a.t.Helper()
	for _, msg := range a.messages {
		if msg.Role == string(llm.RoleTool) && msg.ToolCallID == callID {
			return a
		}
	}
	a.t.Errorf("no tool result for call id %q", callID)
	return a
}

// RequestAssertions checks what an agent sent to its provider.
type RequestAssertions struct {
	t   *testing.T
	req llm.ChatRequest
}

// AssertRequest wraps a captured request for assertions.
func AssertRequest(t *testing.T, req llm.ChatRequest) *RequestAssertions {
	t.Helper()
	return &RequestAssertions{t: t, req: req}
}

// HasSystemPrompt asserts the first message is the given system prompt.
func (a *RequestAssertions) HasSystemPrompt(prompt string) *RequestAssertions {
	a.t.Helper()
	if len(a.req.Messages) == 0 || a.req.Messages[0].Role != llm.RoleSystem {
		a.t.Error("request does not start with a system message")
		return a
	}
	if a.req.Messages[0].Content != prompt {
		a.t.Errorf("system prompt = %q, want %q", a.req.Messages[0].Content, prompt)
	}
	return a
}

// AdvertisesTools asserts the advertised tool names in order.
func (a *RequestAssertions) AdvertisesTools(names ...string) *RequestAssertions {
	a.t.Helper()
	if len(a.req.Tools) != len(names) {
		a.t.Errorf("request advertises %d tools, want %d", len(a.req.Tools), len(names))
		return a
	}
	for i, name := range names {
		if a.req.Tools[i].Function.Name != name {
			a.t.Errorf("tool %d = %q, want %q", i, a.req.Tools[i].Function.Name, name)
		}
	}
	return a
}

// MessageCount asserts the number of messages in the request.
func (a *RequestAssertions) MessageCount(n int) *RequestAssertions {
	a.t.Helper()
	if len(a.req.Messages) != n {
		a.t.Errorf("request carries %d messages, want %d", len(a.req.Messages), n)
	}
	return a
}
