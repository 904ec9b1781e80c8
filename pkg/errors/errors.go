// SPDX-License-Identifier: Apache-2.0

// Package errors provides typed error handling for Praxis. Errors carry a
// classification code, optional context for structured logging, and a
// recoverability flag the agent loop uses to decide whether a failure is
// fed back to the model or surfaced to the caller.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// Code classifies Praxis errors for monitoring and recovery decisions.
type Code string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal Code = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the input was invalid.
	CodeInvalidInput Code = "INVALID_INPUT"

	// CodeProvider indicates an LLM provider call failed
	// (transport, auth, rate limit).
	CodeProvider Code = "PROVIDER_ERROR"

	// CodeToolDispatch indicates a tool call could not be dispatched:
	// unknown tool name or arguments that fail schema validation.
	CodeToolDispatch Code = "TOOL_DISPATCH"

	// CodeToolFailure indicates a tool body failed during execution.
	CodeToolFailure Code = "TOOL_FAILURE"

	// CodeMaxIterations indicates the agent loop hit its iteration cap
	// without reaching a terminal response.
	CodeMaxIterations Code = "MAX_ITERATIONS"

	// CodeUnsupportedProvider indicates the factory was asked for an
	// unrecognized provider tag.
	CodeUnsupportedProvider Code = "UNSUPPORTED_PROVIDER"

	// CodeMissingCredential indicates a required API credential was absent.
	CodeMissingCredential Code = "MISSING_CREDENTIAL"

	// CodeNotFound indicates a resource was not found.
	CodeNotFound Code = "NOT_FOUND"

	// CodeIO indicates a filesystem operation failed.
	CodeIO Code = "IO_ERROR"

	// CodeMemory indicates a conversation memory backend error.
	CodeMemory Code = "MEMORY_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout Code = "TIMEOUT"

	// CodeContextLost indicates the context was canceled mid-operation.
	CodeContextLost Code = "CONTEXT_LOST"
)

// Error is a typed error with context for observability.
// It implements the error interface and supports errors.As/Is traversal.
type Error struct {
	Code        Code
	Message     string
	Err         error
	Context     map[string]interface{}
	Recoverable bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *Error) MarshalJSON() ([]byte, error) {
	payload := map[string]interface{}{
		"code":        string(e.Code),
		"message":     e.Message,
		"recoverable": e.Recoverable,
	}
	if e.Err != nil {
		payload["cause"] = e.Err.Error()
	}
	if len(e.Context) > 0 {
		payload["context"] = e.Context
	}
	return json.Marshal(payload)
}

// New creates a new Error with the given code, message, and cause.
func New(code Code, msg string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: msg,
		Err:     cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *Error) WithRecoverable(recoverable bool) *Error {
	e.Recoverable = recoverable
	return e
}

// As attempts to convert err to an *Error, wrapping unknown errors as
// CodeInternal so callers always get a classified error back.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if stderrors.As(err, &pe) {
		return pe
	}
	return New(CodeInternal, "wrapped error", err)
}

// HasCode reports whether err (or any error it wraps) carries the code.
func HasCode(err error, code Code) bool {
	var pe *Error
	if !stderrors.As(err, &pe) {
		return false
	}
	return pe.Code == code
}

// IsRecoverable reports whether err is marked recoverable. Errors that are
// not *Error default to recoverable so callers can apply their own policy.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	var pe *Error
	if stderrors.As(err, &pe) {
		return pe.Recoverable
	}
	return true
}
