// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("llm provider default = %q", cfg.LLM.Provider)
	}
	if cfg.Agent.MaxIterations != 10 {
		t.Errorf("max_iterations default = %d", cfg.Agent.MaxIterations)
	}
	if cfg.Memory.Backend != "inmemory" {
		t.Errorf("memory backend default = %q", cfg.Memory.Backend)
	}
	if cfg.Telemetry.Exporter != "stdout" {
		t.Errorf("telemetry exporter default = %q", cfg.Telemetry.Exporter)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "praxis.yaml")
	content := `
log:
  level: debug
  format: json
llm:
  provider: mock
agent:
  max_iterations: 5
  parallel_tools: true
memory:
  backend: sqlite
  path: /tmp/test.db
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.LLM.Provider != "mock" {
		t.Errorf("llm provider = %q", cfg.LLM.Provider)
	}
	if cfg.Agent.MaxIterations != 5 || !cfg.Agent.ParallelTools {
		t.Errorf("agent = %+v", cfg.Agent)
	}
	if cfg.Memory.Backend != "sqlite" || cfg.Memory.Path != "/tmp/test.db" {
		t.Errorf("memory = %+v", cfg.Memory)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "praxis.yaml")
	if err := os.WriteFile(path, []byte("llm:\n  provider: mock\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PRAXIS_LLM_PROVIDER", "ollama")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("llm provider = %q, want env override", cfg.LLM.Provider)
	}
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "praxis.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	w, err := NewWatcher(path, WithWatchInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	reloaded := make(chan *Config, 1)
	w.OnChange(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	// Filesystem mtime granularity can be coarse.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	now := time.Now()
	os.Chtimes(path, now, now)

	select {
	case cfg := <-reloaded:
		if cfg.Log.Level != "debug" {
			t.Errorf("reloaded level = %q", cfg.Log.Level)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not reload in time")
	}

	if w.Config().Log.Level != "debug" {
		t.Errorf("watcher config level = %q", w.Config().Log.Level)
	}
}
