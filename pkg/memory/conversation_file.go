// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/praxis-sdk/praxis/pkg/errors"
)

// FileConversation persists each session transcript as a JSON file under a
// base directory. Good enough for local tools that need transcripts to
// survive restarts without a database.
type FileConversation struct {
	mu      sync.RWMutex
	baseDir string
	config  ConversationConfig
}

// NewFileConversation creates a file-backed transcript store rooted at baseDir.
func NewFileConversation(baseDir string, config ConversationConfig) (*FileConversation, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, errors.New(errors.CodeIO, "failed to create conversation directory", err).
			WithContext("dir", baseDir)
	}
	return &FileConversation{baseDir: baseDir, config: config}, nil
}

func (f *FileConversation) sessionFile(sessionID string) string {
	// Base() strips any path components a hostile session id may carry.
	safe := filepath.Base(sessionID)
	return filepath.Join(f.baseDir, safe+".json")
}

// AppendMessage implements ConversationMemory.
func (f *FileConversation) AppendMessage(_ context.Context, sessionID string, msg ConversationMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stamp(&msg, sessionID)

	messages, err := f.loadMessages(sessionID)
	if err != nil && !os.IsNotExist(err) {
		return errors.New(errors.CodeMemory, "failed to load transcript", err).
			WithContext("session_id", sessionID)
	}

	messages = append(messages, msg)
	return f.saveMessages(sessionID, messages)
}

// GetMessages implements ConversationMemory.
func (f *FileConversation) GetMessages(ctx context.Context, sessionID string) ([]ConversationMessage, error) {
	f.mu.RLock()
	messages, err := f.loadMessages(sessionID)
	f.mu.RUnlock()

	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	if f.config.TruncationStrategy != nil && len(messages) > 0 {
		return f.config.TruncationStrategy.Truncate(ctx, messages)
	}
	return messages, nil
}

// GetRecentMessages implements ConversationMemory.
func (f *FileConversation) GetRecentMessages(_ context.Context, sessionID string, limit int) ([]ConversationMessage, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	messages, err := f.loadMessages(sessionID)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	if len(messages) <= limit {
		return messages, nil
	}
	return messages[len(messages)-limit:], nil
}

// Clear implements ConversationMemory.
func (f *FileConversation) Clear(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.sessionFile(sessionID))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// DeleteOldMessages implements ConversationMemory.
func (f *FileConversation) DeleteOldMessages(_ context.Context, sessionID string, olderThan time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	messages, err := f.loadMessages(sessionID)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cutoff := time.Now().Add(-olderThan)
	var kept []ConversationMessage
	for _, msg := range messages {
		if msg.CreatedAt.After(cutoff) {
			kept = append(kept, msg)
		}
	}

	if len(kept) == 0 {
		return os.Remove(f.sessionFile(sessionID))
	}
	return f.saveMessages(sessionID, kept)
}

// ListSessions returns the session IDs with a stored transcript.
func (f *FileConversation) ListSessions() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.baseDir)
	if err != nil {
		return nil, err
	}

	var sessions []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), ".json"); ok {
			sessions = append(sessions, name)
		}
	}
	sort.Strings(sessions)
	return sessions, nil
}

func (f *FileConversation) loadMessages(sessionID string) ([]ConversationMessage, error) {
	data, err := os.ReadFile(f.sessionFile(sessionID))
	if err != nil {
		return nil, err
	}

	var messages []ConversationMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, errors.New(errors.CodeMemory, "failed to parse transcript file", err).
			WithContext("session_id", sessionID)
	}
	return messages, nil
}

func (f *FileConversation) saveMessages(sessionID string, messages []ConversationMessage) error {
	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return errors.New(errors.CodeMemory, "failed to marshal transcript", err).
			WithContext("session_id", sessionID)
	}
	return os.WriteFile(f.sessionFile(sessionID), data, 0o644)
}
