// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"fmt"

	"github.com/praxis-sdk/praxis/pkg/errors"
)

// wrapProviderError classifies a provider failure. Already-classified errors
// pass through untouched.
func wrapProviderError(err error) error {
	if pe := errors.As(err); pe != nil && pe.Code == errors.CodeProvider {
		return pe
	}
	return errors.New(errors.CodeProvider, "provider call failed", err).
		WithRecoverable(true)
}

// wrapToolError classifies a tool execution failure.
func wrapToolError(tool string, err error) error {
	if pe := errors.As(err); pe != nil && pe.Code != errors.CodeInternal {
		return pe
	}
	return errors.New(errors.CodeToolFailure, fmt.Sprintf("tool %q failed", tool), err).
		WithContext("tool", tool)
}

// newMaxIterationsError reports an exhausted loop budget. The last partial
// assistant text, if any, rides along in the error context so callers can
// still surface it.
func newMaxIterationsError(maxIterations int, partialText string) error {
	err := errors.New(errors.CodeMaxIterations,
		fmt.Sprintf("run did not converge within %d iterations", maxIterations), nil).
		WithContext("max_iterations", maxIterations).
		WithRecoverable(false)
	if partialText != "" {
		err = err.WithContext("partial_text", partialText)
	}
	return err
}

// PartialText extracts the last assistant text from a MAX_ITERATIONS error,
// if the run produced any before the budget ran out.
func PartialText(err error) (string, bool) {
	pe := errors.As(err)
	if pe == nil || pe.Code != errors.CodeMaxIterations {
		return "", false
	}
	text, ok := pe.Context["partial_text"].(string)
	return text, ok && text != ""
}
