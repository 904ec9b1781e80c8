// SPDX-License-Identifier: Apache-2.0

// Command praxis runs a one-shot agent query from the terminal. It wires
// the full stack: config, logging, telemetry, provider factory, workspace
// file tools and conversation memory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/praxis-sdk/praxis/pkg/agent"
	"github.com/praxis-sdk/praxis/pkg/config"
	"github.com/praxis-sdk/praxis/pkg/llm/factory"
	"github.com/praxis-sdk/praxis/pkg/memory"
	"github.com/praxis-sdk/praxis/pkg/telemetry"
	"github.com/praxis-sdk/praxis/pkg/tools"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	query := flag.String("query", "", "query to send to the agent")
	session := flag.String("session", "cli", "conversation session id")
	flag.Parse()

	if *query == "" {
		return fmt.Errorf("-query is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	shutdown, err := telemetry.InitWithConfig("praxis", "0.1.0", cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	ctx := context.Background()

	provider, err := factory.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("build provider: %w", err)
	}

	mem, cleanup, err := buildMemory(ctx, cfg.Memory)
	if err != nil {
		return fmt.Errorf("build memory: %w", err)
	}
	defer cleanup()

	readTool, err := tools.NewReadFile(cfg.Agent.Workspace)
	if err != nil {
		return err
	}
	writeTool, err := tools.NewWriteFile(cfg.Agent.Workspace)
	if err != nil {
		return err
	}

	metrics, err := telemetry.NewAgentMetrics()
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	opts := []agent.Option{
		agent.WithModel(cfg.LLM.Model),
		agent.WithTemperature(cfg.LLM.Temperature),
		agent.WithMaxTokens(cfg.LLM.MaxTokens),
		agent.WithMaxIterations(cfg.Agent.MaxIterations),
		agent.WithTools(readTool, writeTool, tools.NewAskUser()),
		agent.WithMemory(mem),
		agent.WithSession(*session),
		agent.WithLogger(logger),
		agent.WithMetrics(metrics),
	}
	if cfg.Agent.Role != "" {
		opts = append(opts, agent.WithRole(cfg.Agent.Role))
	}
	if cfg.Agent.ParallelTools {
		opts = append(opts, agent.WithParallelTools())
	}

	a := agent.New("praxis", provider, opts...)

	answer, err := a.Run(ctx, *query)
	if err != nil {
		if partial, ok := agent.PartialText(err); ok {
			logger.Warn("run did not converge", "partial", partial)
		}
		return err
	}

	fmt.Println(answer)
	return nil
}

func buildMemory(ctx context.Context, cfg config.MemoryConfig) (memory.ConversationMemory, func(), error) {
	noop := func() {}
	switch cfg.Backend {
	case "", "inmemory":
		return memory.NewInMemoryConversation(memory.ConversationConfig{}), noop, nil
	case "file":
		mem, err := memory.NewFileConversation(cfg.Dir, memory.ConversationConfig{})
		return mem, noop, err
	case "sqlite":
		mem, err := memory.NewSQLiteConversation(ctx, memory.SQLiteConfig{Path: cfg.Path})
		if err != nil {
			return nil, noop, err
		}
		return mem, func() { mem.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown memory backend: %s", cfg.Backend)
	}
}
