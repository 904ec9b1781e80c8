// SPDX-License-Identifier: Apache-2.0

// Package config loads SDK configuration from YAML files and PRAXIS_*
// environment variables, with env taking precedence.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/praxis-sdk/praxis/pkg/llm/factory"
	"github.com/praxis-sdk/praxis/pkg/telemetry"
)

type Config struct {
	Log       LogConfig        `koanf:"log"`
	LLM       factory.Config   `koanf:"llm"`
	Agent     AgentConfig      `koanf:"agent"`
	Memory    MemoryConfig     `koanf:"memory"`
	Telemetry telemetry.Config `koanf:"telemetry"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type AgentConfig struct {
	Role          string `koanf:"role"`
	MaxIterations int    `koanf:"max_iterations"`
	ParallelTools bool   `koanf:"parallel_tools"`
	Workspace     string `koanf:"workspace"`
}

type MemoryConfig struct {
	// Backend is "inmemory", "file" or "sqlite".
	Backend string `koanf:"backend"`
	// Dir is the transcript directory for the file backend.
	Dir string `koanf:"dir"`
	// Path is the database file for the sqlite backend.
	Path string `koanf:"path"`
}

// Load reads config from path (optional) and the environment. The env
// mapping is PRAXIS_LLM_PROVIDER -> llm.provider.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("llm.provider", "ollama")
	k.Set("llm.model", "qwen2.5-coder:7b-instruct-q5_K_M")
	k.Set("llm.base_url", "http://localhost:11434")
	k.Set("agent.max_iterations", 10)
	k.Set("agent.workspace", "./workspace")
	k.Set("memory.backend", "inmemory")
	k.Set("memory.dir", "./conversations")
	k.Set("memory.path", "./conversations.db")
	k.Set("telemetry.exporter", "stdout")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("PRAXIS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "PRAXIS_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
