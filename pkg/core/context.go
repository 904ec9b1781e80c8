// Package core holds the small shared primitives of the SDK: context
// helpers for run and session identity, and the semantic event stream
// agents emit while running.
package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type runIDKey struct{}
type sessionIDKey struct{}

// WithRunID attaches a run id to the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run id if present.
func RunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok
}

// EnsureRunID ensures a run id exists in the context.
func EnsureRunID(ctx context.Context) (context.Context, string) {
	if id, ok := RunID(ctx); ok {
		return ctx, id
	}
	id := newRunID()
	return WithRunID(ctx, id), id
}

// WithSessionID attaches a conversation session id to the context. Agents
// use it to select the transcript within their conversation memory.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionID returns the session id if present.
func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey{}).(string)
	return id, ok
}

func newRunID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "run-unknown"
	}
	return "run-" + hex.EncodeToString(buf)
}
