// SPDX-License-Identifier: Apache-2.0

// Package agent runs the bounded think-act-observe loop: ask the model,
// dispatch the tool calls it requests, feed the observations back, and stop
// on the first text-only reply or when the iteration budget runs out.
package agent

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/praxis-sdk/praxis/pkg/core"
	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/llm"
	"github.com/praxis-sdk/praxis/pkg/memory"
	"github.com/praxis-sdk/praxis/pkg/telemetry"
	"github.com/praxis-sdk/praxis/pkg/tools"
)

// DefaultMaxIterations bounds a run when the caller does not set a budget.
const DefaultMaxIterations = 10

// DefaultSystemPrompt is used when no role is configured.
const DefaultSystemPrompt = "You are a helpful assistant."

// Agent drives one model through the tool-calling loop. Construct with New;
// the zero value is not usable.
type Agent struct {
	name     string
	provider llm.Provider

	role        string
	model       string
	temperature float64
	maxTokens   int

	tools     []tools.Tool
	toolIndex map[string]tools.Tool

	memory    memory.ConversationMemory
	sessionID string

	maxIterations int
	parallelTools bool

	logger  *slog.Logger
	emitter core.EventEmitter
	metrics *telemetry.AgentMetrics
	tracer  trace.Tracer
}

// Option configures an Agent.
type Option func(*Agent)

// WithRole sets the system prompt.
func WithRole(role string) Option {
	return func(a *Agent) { a.role = role }
}

// WithModel sets the model requested from the provider.
func WithModel(model string) Option {
	return func(a *Agent) { a.model = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(a *Agent) { a.temperature = temperature }
}

// WithMaxTokens caps the provider's response length.
func WithMaxTokens(maxTokens int) Option {
	return func(a *Agent) { a.maxTokens = maxTokens }
}

// WithTools registers the tools the model may call. Registration order is
// the order tools are advertised in.
func WithTools(ts ...tools.Tool) Option {
	return func(a *Agent) {
		a.tools = append(a.tools, ts...)
	}
}

// WithMemory replaces the default in-process conversation memory.
func WithMemory(mem memory.ConversationMemory) Option {
	return func(a *Agent) { a.memory = mem }
}

// WithSession pins the agent to a session id instead of deriving one per
// agent instance.
func WithSession(sessionID string) Option {
	return func(a *Agent) { a.sessionID = sessionID }
}

// WithMaxIterations sets the loop budget. Values below 1 keep the default.
func WithMaxIterations(n int) Option {
	return func(a *Agent) {
		if n >= 1 {
			a.maxIterations = n
		}
	}
}

// WithParallelTools dispatches the tool calls of one assistant turn
// concurrently. Observation order still follows the provider's call order.
func WithParallelTools() Option {
	return func(a *Agent) { a.parallelTools = true }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) { a.logger = logger }
}

// WithEmitter subscribes an event emitter to the run's semantic events.
func WithEmitter(emitter core.EventEmitter) Option {
	return func(a *Agent) { a.emitter = emitter }
}

// WithMetrics attaches loop metrics.
func WithMetrics(m *telemetry.AgentMetrics) Option {
	return func(a *Agent) { a.metrics = m }
}

// New creates an agent named name over the given provider. Tool names must
// be unique within one agent; New panics on a duplicate registration.
func New(name string, provider llm.Provider, opts ...Option) *Agent {
	a := &Agent{
		name:          name,
		provider:      provider,
		role:          DefaultSystemPrompt,
		maxIterations: DefaultMaxIterations,
		emitter:       core.NoopEventEmitter{},
		tracer:        otel.Tracer("praxis/agent"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.memory == nil {
		a.memory = memory.NewInMemoryConversation(memory.ConversationConfig{})
	}
	if a.sessionID == "" {
		a.sessionID = name + "-session"
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.toolIndex = make(map[string]tools.Tool, len(a.tools))
	for _, t := range a.tools {
		if _, dup := a.toolIndex[t.Name()]; dup {
			panic("agent: duplicate tool name " + t.Name())
		}
		a.toolIndex[t.Name()] = t
	}
	return a
}

// Name returns the agent's name.
func (a *Agent) Name() string { return a.name }

// SessionID returns the session the agent appends its transcript to.
func (a *Agent) SessionID() string { return a.sessionID }

// Run executes one user turn through the loop and returns the model's final
// text. The user message and everything the loop produces are appended to
// the conversation memory, so consecutive runs continue the same dialogue.
// Run is not safe for concurrent use on one Agent; give each concurrent
// conversation its own Agent.
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	if input == "" {
		return "", errors.New(errors.CodeInvalidInput, "input is required", nil)
	}

	ctx, runID := core.EnsureRunID(ctx)
	sessionID := a.sessionID
	if id, ok := core.SessionID(ctx); ok {
		sessionID = id
	}

	ctx, span := a.tracer.Start(ctx, "agent.run",
		trace.WithAttributes(
			attribute.String("agent.name", a.name),
			attribute.String("agent.session_id", sessionID),
		))
	defer span.End()

	if err := a.memory.AppendMessage(ctx, sessionID, memory.FromLLM(sessionID, llm.Message{
		Role:    llm.RoleUser,
		Content: input,
	})); err != nil {
		return "", errors.New(errors.CodeMemory, "failed to record user message", err)
	}

	var lastText string
	for iteration := 1; iteration <= a.maxIterations; iteration++ {
		a.emit(ctx, core.EventAgentThinking, runID, map[string]any{"iteration": iteration})

		resp, err := a.think(ctx, sessionID)
		if err != nil {
			a.emit(ctx, core.EventAgentError, runID, map[string]any{"error": err.Error()})
			a.metrics.RecordRunError(ctx, a.name, err)
			return "", err
		}
		if resp.Content != "" {
			lastText = resp.Content
		}

		if err := a.memory.AppendMessage(ctx, sessionID, memory.FromLLM(sessionID, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})); err != nil {
			return "", errors.New(errors.CodeMemory, "failed to record assistant message", err)
		}

		if resp.IsTextOnly() {
			a.logger.InfoContext(ctx, "run completed",
				slog.String("agent", a.name),
				slog.Int("iterations", iteration))
			a.metrics.RecordRun(ctx, a.name, iteration)
			a.emit(ctx, core.EventAgentRunCompleted, runID, map[string]any{
				"iterations": iteration,
			})
			return resp.Content, nil
		}

		results := a.dispatch(ctx, runID, resp.ToolCalls)
		for _, result := range results {
			if err := a.memory.AppendMessage(ctx, sessionID, memory.FromLLM(sessionID, result.Message())); err != nil {
				return "", errors.New(errors.CodeMemory, "failed to record tool result", err)
			}
		}
	}

	err := newMaxIterationsError(a.maxIterations, lastText)
	a.logger.WarnContext(ctx, "iteration budget exhausted",
		slog.String("agent", a.name),
		slog.Int("max_iterations", a.maxIterations))
	a.metrics.RecordRun(ctx, a.name, a.maxIterations)
	a.metrics.RecordRunError(ctx, a.name, err)
	a.emit(ctx, core.EventAgentError, runID, map[string]any{
		"error":        err.Error(),
		"partial_text": lastText,
	})
	// Best effort: the caller gets whatever text the model produced last,
	// alongside the error.
	return lastText, err
}

// think performs a single provider call over the current transcript.
func (a *Agent) think(ctx context.Context, sessionID string) (*llm.ChatResponse, error) {
	ctx, span := a.tracer.Start(ctx, "agent.think")
	defer span.End()

	transcript, err := a.memory.GetMessages(ctx, sessionID)
	if err != nil {
		return nil, errors.New(errors.CodeMemory, "failed to load transcript", err)
	}

	messages := make([]llm.Message, 0, len(transcript)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: a.role})
	messages = append(messages, memory.ToLLMMessages(transcript)...)

	req := llm.ChatRequest{
		Model:       a.model,
		Messages:    messages,
		Tools:       tools.Definitions(a.tools),
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	}

	resp, err := a.provider.Chat(ctx, req)
	if err != nil {
		return nil, wrapProviderError(err)
	}
	a.metrics.RecordProviderCall(ctx, a.name, a.model, resp.Usage)
	return resp, nil
}

// dispatch executes one assistant turn's tool calls and returns their
// results in the provider's call order. Failures become failed results, not
// run errors; the model sees them and decides what to do next.
func (a *Agent) dispatch(ctx context.Context, runID string, calls []llm.ToolCall) []tools.Result {
	if a.parallelTools && len(calls) > 1 {
		return a.dispatchParallel(ctx, runID, calls)
	}

	results := make([]tools.Result, len(calls))
	for i, call := range calls {
		results[i] = a.dispatchOne(ctx, runID, call)
	}
	return results
}

// dispatchOne runs a single tool call end to end.
func (a *Agent) dispatchOne(ctx context.Context, runID string, call llm.ToolCall) tools.Result {
	name := call.Function.Name
	callID := call.CallID()

	ctx, span := a.tracer.Start(ctx, "agent.tool",
		trace.WithAttributes(attribute.String("tool.name", name)))
	defer span.End()

	a.emit(ctx, core.EventToolStarted, runID, map[string]any{
		"tool":         name,
		"tool_call_id": callID,
	})

	start := time.Now()
	result := a.callTool(ctx, callID, name, call.Function.Arguments)
	elapsed := time.Since(start)

	a.metrics.RecordToolDispatch(ctx, a.name, name, result.Success, elapsed)
	a.emit(ctx, core.EventToolCompleted, runID, map[string]any{
		"tool":         name,
		"tool_call_id": callID,
		"success":      result.Success,
	})

	if result.Success {
		a.logger.DebugContext(ctx, "tool completed",
			slog.String("tool", name),
			slog.Duration("elapsed", elapsed))
	} else {
		a.logger.WarnContext(ctx, "tool failed",
			slog.String("tool", name),
			slog.String("error", result.Error))
	}
	return result
}

// callTool resolves, validates and invokes the tool for one call.
func (a *Agent) callTool(ctx context.Context, callID, name, rawArgs string) tools.Result {
	tool, ok := a.toolIndex[name]
	if !ok {
		return tools.Fail(callID, name,
			errors.New(errors.CodeToolDispatch, "unknown tool: "+name, nil))
	}

	args := map[string]any{}
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return tools.Fail(callID, name,
				errors.New(errors.CodeToolDispatch, "malformed tool arguments", err))
		}
	}

	if verr := tool.Schema().Validate(args); verr != nil {
		return tools.Fail(callID, name,
			errors.New(errors.CodeToolDispatch, verr.Error(), nil))
	}

	content, err := tool.Call(ctx, args)
	if err != nil {
		return tools.Fail(callID, name, wrapToolError(name, err))
	}
	return tools.Succeed(callID, name, content)
}

func (a *Agent) emit(ctx context.Context, eventType core.EventType, runID string, payload map[string]any) {
	a.emitter.Emit(ctx, core.NewEvent(eventType, a.name, runID, payload))
}

var _ tools.Runner = (*Agent)(nil)
