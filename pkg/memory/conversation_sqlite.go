// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	_ "modernc.org/sqlite"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/llm"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func sanitizeTableName(table string) (string, error) {
	if table == "" {
		return "", errors.New(errors.CodeInvalidInput, "table name is required", nil)
	}
	if !tableNamePattern.MatchString(table) {
		return "", errors.New(errors.CodeInvalidInput, fmt.Sprintf("invalid table name %q", table), nil)
	}
	return table, nil
}

// SQLiteConversation persists transcripts in a SQLite database. The driver
// is pure Go, so a single binary gets durable multi-session transcripts
// without a server.
type SQLiteConversation struct {
	db     *sql.DB
	table  string
	config ConversationConfig
}

// SQLiteConfig configures the SQLite transcript store.
type SQLiteConfig struct {
	// Path is the database file. ":memory:" works for tests.
	Path string
	// TableName defaults to "conversation_messages".
	TableName string
	// ConversationConfig for truncation behavior.
	ConversationConfig ConversationConfig
}

// NewSQLiteConversation opens the database and creates the transcript table
// if it does not exist.
func NewSQLiteConversation(ctx context.Context, cfg SQLiteConfig) (*SQLiteConversation, error) {
	if cfg.Path == "" {
		return nil, errors.New(errors.CodeInvalidInput, "database path is required", nil)
	}

	table := cfg.TableName
	if table == "" {
		table = "conversation_messages"
	}
	table, err := sanitizeTableName(table)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, errors.New(errors.CodeMemory, "failed to open sqlite database", err).
			WithContext("path", cfg.Path)
	}
	// The sqlite driver serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent appends.
	db.SetMaxOpenConns(1)

	s := &SQLiteConversation{db: db, table: table, config: cfg.ConversationConfig}
	if err := s.initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteConversation) initialize(ctx context.Context) error {
	// seq pins insertion order exactly; created_at alone can collide and
	// would then tie-break on a random UUID.
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			tool_calls TEXT,
			tool_call_id TEXT,
			metadata TEXT,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_session_seq ON %s (session_id, seq);
	`, s.table, s.table, s.table)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return errors.New(errors.CodeMemory, "failed to initialize transcript table", err).
			WithContext("table", s.table)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteConversation) Close() error {
	return s.db.Close()
}

// AppendMessage implements ConversationMemory.
func (s *SQLiteConversation) AppendMessage(ctx context.Context, sessionID string, msg ConversationMessage) error {
	stamp(&msg, sessionID)

	toolCallsJSON, err := marshalNullable(msg.ToolCalls)
	if err != nil {
		return errors.New(errors.CodeMemory, "failed to marshal tool calls", err)
	}
	metadataJSON, err := marshalNullable(msg.Metadata)
	if err != nil {
		return errors.New(errors.CodeMemory, "failed to marshal metadata", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, session_id, role, content, tool_calls, tool_call_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.table)

	_, err = s.db.ExecContext(ctx, query,
		msg.ID,
		msg.SessionID,
		msg.Role,
		msg.Content,
		toolCallsJSON,
		sql.NullString{String: msg.ToolCallID, Valid: msg.ToolCallID != ""},
		metadataJSON,
		msg.CreatedAt,
	)
	if err != nil {
		return errors.New(errors.CodeMemory, "failed to append message", err).
			WithContext("session_id", sessionID)
	}
	return nil
}

// GetMessages implements ConversationMemory.
func (s *SQLiteConversation) GetMessages(ctx context.Context, sessionID string) ([]ConversationMessage, error) {
	query := fmt.Sprintf(`
		SELECT id, session_id, role, content, tool_calls, tool_call_id, metadata, created_at
		FROM %s
		WHERE session_id = ?
		ORDER BY seq ASC
	`, s.table)

	messages, err := s.queryMessages(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}

	if s.config.TruncationStrategy != nil && len(messages) > 0 {
		return s.config.TruncationStrategy.Truncate(ctx, messages)
	}
	return messages, nil
}

// GetRecentMessages implements ConversationMemory.
func (s *SQLiteConversation) GetRecentMessages(ctx context.Context, sessionID string, limit int) ([]ConversationMessage, error) {
	query := fmt.Sprintf(`
		SELECT id, session_id, role, content, tool_calls, tool_call_id, metadata, created_at
		FROM (
			SELECT * FROM %s
			WHERE session_id = ?
			ORDER BY seq DESC
			LIMIT ?
		)
		ORDER BY seq ASC
	`, s.table)

	return s.queryMessages(ctx, query, sessionID, limit)
}

// Clear implements ConversationMemory.
func (s *SQLiteConversation) Clear(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE session_id = ?`, s.table)
	if _, err := s.db.ExecContext(ctx, query, sessionID); err != nil {
		return errors.New(errors.CodeMemory, "failed to clear session", err).
			WithContext("session_id", sessionID)
	}
	return nil
}

// DeleteOldMessages implements ConversationMemory.
func (s *SQLiteConversation) DeleteOldMessages(ctx context.Context, sessionID string, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	query := fmt.Sprintf(`DELETE FROM %s WHERE session_id = ? AND created_at <= ?`, s.table)
	if _, err := s.db.ExecContext(ctx, query, sessionID, cutoff); err != nil {
		return errors.New(errors.CodeMemory, "failed to delete old messages", err).
			WithContext("session_id", sessionID)
	}
	return nil
}

// ListSessions returns session IDs with stored transcripts.
func (s *SQLiteConversation) ListSessions(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT session_id FROM %s ORDER BY session_id`, s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.New(errors.CodeMemory, "failed to list sessions", err)
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		sessions = append(sessions, id)
	}
	return sessions, rows.Err()
}

func (s *SQLiteConversation) queryMessages(ctx context.Context, query string, args ...any) ([]ConversationMessage, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.New(errors.CodeMemory, "failed to query transcript", err)
	}
	defer rows.Close()

	var messages []ConversationMessage
	for rows.Next() {
		var (
			msg           ConversationMessage
			toolCallsJSON sql.NullString
			toolCallID    sql.NullString
			metadataJSON  sql.NullString
		)
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content,
			&toolCallsJSON, &toolCallID, &metadataJSON, &msg.CreatedAt); err != nil {
			return nil, errors.New(errors.CodeMemory, "failed to scan message row", err)
		}
		msg.ToolCallID = toolCallID.String
		if toolCallsJSON.Valid && toolCallsJSON.String != "" {
			if err := json.Unmarshal([]byte(toolCallsJSON.String), &msg.ToolCalls); err != nil {
				return nil, errors.New(errors.CodeMemory, "failed to parse stored tool calls", err)
			}
		}
		if metadataJSON.Valid && metadataJSON.String != "" {
			if err := json.Unmarshal([]byte(metadataJSON.String), &msg.Metadata); err != nil {
				return nil, errors.New(errors.CodeMemory, "failed to parse stored metadata", err)
			}
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// marshalNullable returns NULL for empty values so the columns stay sparse.
func marshalNullable(v any) (any, error) {
	switch val := v.(type) {
	case []llm.ToolCall:
		if len(val) == 0 {
			return nil, nil
		}
	case map[string]string:
		if len(val) == 0 {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return nil, nil
	}
	return string(data), nil
}

var _ ConversationMemory = (*SQLiteConversation)(nil)
var _ ConversationMemory = (*InMemoryConversation)(nil)
var _ ConversationMemory = (*FileConversation)(nil)
