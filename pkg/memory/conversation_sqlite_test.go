// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/llm"
)

func newSQLite(t *testing.T) *SQLiteConversation {
	t.Helper()
	mem, err := NewSQLiteConversation(context.Background(), SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "conversations.db"),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { mem.Close() })
	return mem
}

func TestSQLiteAppendAndGet(t *testing.T) {
	mem := newSQLite(t)
	appendN(t, mem, "s1", 4)

	got, err := mem.GetMessages(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d messages, want 4", len(got))
	}
	for i, msg := range got {
		if msg.Content != fmt.Sprintf("message %d", i) {
			t.Errorf("message %d = %q", i, msg.Content)
		}
	}
}

func TestSQLiteGetRecent(t *testing.T) {
	mem := newSQLite(t)
	appendN(t, mem, "s1", 5)

	recent, err := mem.GetRecentMessages(context.Background(), "s1", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d recent, want 2", len(recent))
	}
	// Oldest-first even though the query walks backwards.
	if recent[0].Content != "message 3" || recent[1].Content != "message 4" {
		t.Errorf("recent = %q, %q", recent[0].Content, recent[1].Content)
	}
}

func TestSQLiteClearAndListSessions(t *testing.T) {
	mem := newSQLite(t)
	appendN(t, mem, "a", 1)
	appendN(t, mem, "b", 1)

	sessions, err := mem.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %v", sessions)
	}

	if err := mem.Clear(context.Background(), "a"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	sessions, _ = mem.ListSessions(context.Background())
	if len(sessions) != 1 || sessions[0] != "b" {
		t.Errorf("sessions after clear = %v", sessions)
	}
}

func TestSQLiteDeleteOldMessages(t *testing.T) {
	mem := newSQLite(t)
	ctx := context.Background()

	mem.AppendMessage(ctx, "s1", ConversationMessage{
		Role: "user", Content: "stale", CreatedAt: time.Now().Add(-2 * time.Hour),
	})
	mem.AppendMessage(ctx, "s1", ConversationMessage{
		Role: "user", Content: "fresh", CreatedAt: time.Now(),
	})

	if err := mem.DeleteOldMessages(ctx, "s1", time.Hour); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := mem.GetMessages(ctx, "s1")
	if len(got) != 1 || got[0].Content != "fresh" {
		t.Errorf("kept = %+v", got)
	}
}

func TestSQLiteIdenticalTimestampsKeepAppendOrder(t *testing.T) {
	mem := newSQLite(t)
	ctx := context.Background()

	// Same created_at on every row: replay order must still be append order.
	ts := time.Now()
	for i := 0; i < 6; i++ {
		err := mem.AppendMessage(ctx, "ties", ConversationMessage{
			Role:      string(llm.RoleUser),
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: ts,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := mem.GetMessages(ctx, "ties")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("got %d messages, want 6", len(got))
	}
	for i, msg := range got {
		if msg.Content != fmt.Sprintf("message %d", i) {
			t.Errorf("message %d = %q", i, msg.Content)
		}
	}

	recent, err := mem.GetRecentMessages(ctx, "ties", 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 || recent[0].Content != "message 3" || recent[2].Content != "message 5" {
		t.Errorf("recent = %+v", recent)
	}
}

func TestSQLiteToolCallsSurvive(t *testing.T) {
	mem := newSQLite(t)
	ctx := context.Background()

	entry := FromLLM("s1", llm.Message{
		Role:    llm.RoleAssistant,
		Content: "working",
		ToolCalls: []llm.ToolCall{{
			ID:       "call_7",
			Type:     llm.ToolTypeFunction,
			Function: llm.FunctionCall{Name: "read_file", Arguments: `{"file_path":"notes.txt"}`},
		}},
	})
	if err := mem.AppendMessage(ctx, "s1", entry); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := mem.GetMessages(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || len(got[0].ToolCalls) != 1 {
		t.Fatalf("transcript = %+v", got)
	}
	tc := got[0].ToolCalls[0]
	if tc.ID != "call_7" || tc.Function.Name != "read_file" {
		t.Errorf("tool call = %+v", tc)
	}
}

func TestSQLiteRejectsBadTableName(t *testing.T) {
	_, err := NewSQLiteConversation(context.Background(), SQLiteConfig{
		Path:      filepath.Join(t.TempDir(), "x.db"),
		TableName: "messages; DROP TABLE users",
	})
	if err == nil {
		t.Fatal("expected error for invalid table name")
	}
	if !errors.HasCode(err, errors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}
