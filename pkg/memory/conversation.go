// SPDX-License-Identifier: Apache-2.0

// Package memory stores agent conversation transcripts. A transcript is an
// ordered sequence of messages per session; backends range from in-process
// maps to SQLite for persistence across restarts.
package memory

import (
	"context"
	"time"

	"github.com/praxis-sdk/praxis/pkg/llm"
)

// ConversationMessage is a single transcript entry. It mirrors the wire
// message shape so a stored transcript can be replayed to a provider
// without loss: assistant tool calls and tool results survive the trip.
type ConversationMessage struct {
	ID         string            `json:"id"`
	SessionID  string            `json:"session_id"`
	Role       string            `json:"role"` // system, user, assistant, tool
	Content    string            `json:"content"`
	ToolCalls  []llm.ToolCall    `json:"tool_calls,omitempty"`
	ToolCallID string            `json:"tool_call_id,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// FromLLM converts a wire message into a transcript entry for a session.
func FromLLM(sessionID string, msg llm.Message) ConversationMessage {
	return ConversationMessage{
		SessionID:  sessionID,
		Role:       string(msg.Role),
		Content:    msg.Content,
		ToolCalls:  msg.ToolCalls,
		ToolCallID: msg.ToolCallID,
	}
}

// ToLLM converts a transcript entry back into a wire message.
func (m ConversationMessage) ToLLM() llm.Message {
	return llm.Message{
		Role:       llm.Role(m.Role),
		Content:    m.Content,
		ToolCalls:  m.ToolCalls,
		ToolCallID: m.ToolCallID,
	}
}

// ToLLMMessages converts a transcript slice into wire messages, preserving
// order.
func ToLLMMessages(messages []ConversationMessage) []llm.Message {
	out := make([]llm.Message, len(messages))
	for i, m := range messages {
		out[i] = m.ToLLM()
	}
	return out
}

// ConversationMemory stores and retrieves ordered per-session transcripts.
// Implementations never reorder or drop entries on their own; reduction
// only happens through an explicitly configured TruncationStrategy.
type ConversationMemory interface {
	// AppendMessage adds a message to the end of the session transcript.
	AppendMessage(ctx context.Context, sessionID string, msg ConversationMessage) error

	// GetMessages returns the full transcript in append order.
	GetMessages(ctx context.Context, sessionID string) ([]ConversationMessage, error)

	// GetRecentMessages returns the last N transcript entries.
	GetRecentMessages(ctx context.Context, sessionID string, limit int) ([]ConversationMessage, error)

	// Clear removes the session transcript.
	Clear(ctx context.Context, sessionID string) error

	// DeleteOldMessages removes entries older than the given duration.
	DeleteOldMessages(ctx context.Context, sessionID string, olderThan time.Duration) error
}

// TruncationStrategy reduces a transcript before it is handed to a caller.
// Strategies are opt-in: a memory without one returns transcripts verbatim.
type TruncationStrategy interface {
	Truncate(ctx context.Context, messages []ConversationMessage) ([]ConversationMessage, error)
}

// ConversationConfig configures backend-independent transcript behavior.
type ConversationConfig struct {
	// TruncationStrategy applied on GetMessages. Optional.
	TruncationStrategy TruncationStrategy
}

// WindowStrategy keeps the last MaxMessages entries.
type WindowStrategy struct {
	MaxMessages int
	// KeepSystemMessages preserves system entries outside the window.
	KeepSystemMessages bool
}

// NewWindowStrategy creates a window-based truncation strategy.
func NewWindowStrategy(maxMessages int, keepSystem bool) *WindowStrategy {
	return &WindowStrategy{MaxMessages: maxMessages, KeepSystemMessages: keepSystem}
}

// Truncate implements TruncationStrategy.
func (w *WindowStrategy) Truncate(_ context.Context, messages []ConversationMessage) ([]ConversationMessage, error) {
	if len(messages) <= w.MaxMessages {
		return messages, nil
	}
	if !w.KeepSystemMessages {
		return messages[len(messages)-w.MaxMessages:], nil
	}

	system, rest := splitSystem(messages)
	available := w.MaxMessages - len(system)
	if available < 0 {
		available = 0
	}
	if len(rest) > available {
		rest = rest[len(rest)-available:]
	}

	result := make([]ConversationMessage, 0, len(system)+len(rest))
	result = append(result, system...)
	result = append(result, rest...)
	return result, nil
}

// TokenStrategy keeps the newest entries that fit a token budget.
type TokenStrategy struct {
	MaxTokens int
	// TokenCounter estimates tokens for an entry. Defaults to len/4.
	TokenCounter func(msg ConversationMessage) int
	// KeepSystemMessages charges system entries to the budget first and
	// never evicts them.
	KeepSystemMessages bool
}

// NewTokenStrategy creates a token-budget truncation strategy.
func NewTokenStrategy(maxTokens int, keepSystem bool) *TokenStrategy {
	return &TokenStrategy{MaxTokens: maxTokens, KeepSystemMessages: keepSystem}
}

// Truncate implements TruncationStrategy.
func (t *TokenStrategy) Truncate(_ context.Context, messages []ConversationMessage) ([]ConversationMessage, error) {
	counter := t.TokenCounter
	if counter == nil {
		counter = func(msg ConversationMessage) int { return len(msg.Content) / 4 }
	}

	total := 0
	for _, msg := range messages {
		total += counter(msg)
	}
	if total <= t.MaxTokens {
		return messages, nil
	}

	var system, rest []ConversationMessage
	budget := t.MaxTokens
	if t.KeepSystemMessages {
		system, rest = splitSystem(messages)
		for _, msg := range system {
			budget -= counter(msg)
		}
		if budget < 0 {
			budget = 0
		}
	} else {
		rest = messages
	}

	var kept []ConversationMessage
	used := 0
	for i := len(rest) - 1; i >= 0; i-- {
		cost := counter(rest[i])
		if used+cost > budget {
			break
		}
		kept = append([]ConversationMessage{rest[i]}, kept...)
		used += cost
	}

	result := make([]ConversationMessage, 0, len(system)+len(kept))
	result = append(result, system...)
	result = append(result, kept...)
	return result, nil
}

func splitSystem(messages []ConversationMessage) (system, rest []ConversationMessage) {
	for _, msg := range messages {
		if msg.Role == string(llm.RoleSystem) {
			system = append(system, msg)
		} else {
			rest = append(rest, msg)
		}
	}
	return system, rest
}
