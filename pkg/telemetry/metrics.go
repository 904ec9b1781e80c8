// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/llm"
)

// AgentMetrics tracks the work an agent loop does: provider calls, tool
// dispatches, iterations per run, and run failures. All record methods are
// nil-safe so agents can run unmetered.
type AgentMetrics struct {
	providerCalls  metric.Int64Counter
	promptTokens   metric.Int64Counter
	responseTokens metric.Int64Counter
	toolDispatches metric.Int64Counter
	toolDuration   metric.Float64Histogram
	runIterations  metric.Int64Histogram
	runErrors      metric.Int64Counter
}

// NewAgentMetrics creates the instrument set on the global meter provider.
func NewAgentMetrics() (*AgentMetrics, error) {
	meter := otel.Meter("praxis/agent")

	providerCalls, err := meter.Int64Counter(
		"praxis.provider.calls",
		metric.WithDescription("Chat completions requested, by agent and model"),
	)
	if err != nil {
		return nil, err
	}

	promptTokens, err := meter.Int64Counter(
		"praxis.provider.prompt_tokens",
		metric.WithDescription("Prompt tokens consumed"),
	)
	if err != nil {
		return nil, err
	}

	responseTokens, err := meter.Int64Counter(
		"praxis.provider.completion_tokens",
		metric.WithDescription("Completion tokens consumed"),
	)
	if err != nil {
		return nil, err
	}

	toolDispatches, err := meter.Int64Counter(
		"praxis.tools.dispatches",
		metric.WithDescription("Tool calls dispatched, by tool and outcome"),
	)
	if err != nil {
		return nil, err
	}

	toolDuration, err := meter.Float64Histogram(
		"praxis.tools.duration",
		metric.WithDescription("Tool execution duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	runIterations, err := meter.Int64Histogram(
		"praxis.agent.iterations",
		metric.WithDescription("Loop iterations consumed per run"),
	)
	if err != nil {
		return nil, err
	}

	runErrors, err := meter.Int64Counter(
		"praxis.agent.errors",
		metric.WithDescription("Failed runs by error code"),
	)
	if err != nil {
		return nil, err
	}

	return &AgentMetrics{
		providerCalls:  providerCalls,
		promptTokens:   promptTokens,
		responseTokens: responseTokens,
		toolDispatches: toolDispatches,
		toolDuration:   toolDuration,
		runIterations:  runIterations,
		runErrors:      runErrors,
	}, nil
}

// RecordProviderCall counts one chat completion and its token usage.
func (m *AgentMetrics) RecordProviderCall(ctx context.Context, agent, model string, usage llm.Usage) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("agent", agent),
		attribute.String("model", model),
	)
	m.providerCalls.Add(ctx, 1, attrs)
	if usage.PromptTokens > 0 {
		m.promptTokens.Add(ctx, int64(usage.PromptTokens), attrs)
	}
	if usage.CompletionTokens > 0 {
		m.responseTokens.Add(ctx, int64(usage.CompletionTokens), attrs)
	}
}

// RecordToolDispatch counts one tool call and its duration.
func (m *AgentMetrics) RecordToolDispatch(ctx context.Context, agent, tool string, success bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("agent", agent),
		attribute.String("tool", tool),
		attribute.Bool("success", success),
	)
	m.toolDispatches.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordRun records the iterations a finished run consumed.
func (m *AgentMetrics) RecordRun(ctx context.Context, agent string, iterations int) {
	if m == nil {
		return
	}
	m.runIterations.Record(ctx, int64(iterations),
		metric.WithAttributes(attribute.String("agent", agent)))
}

// RecordRunError counts a failed run by its error code.
func (m *AgentMetrics) RecordRunError(ctx context.Context, agent string, err error) {
	if m == nil || err == nil {
		return
	}
	code := string(errors.CodeInternal)
	if pe := errors.As(err); pe != nil {
		code = string(pe.Code)
	}
	m.runErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("agent", agent),
		attribute.String("error.code", code),
	))
}
