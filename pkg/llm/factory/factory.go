// SPDX-License-Identifier: Apache-2.0

// Package factory constructs llm.Provider instances from declarative
// configuration, so callers can select a backend by name instead of
// importing provider packages directly.
package factory

import (
	"os"
	"strings"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/llm"
	"github.com/praxis-sdk/praxis/pkg/llm/anthropic"
	"github.com/praxis-sdk/praxis/pkg/llm/openai"
)

// Config describes the provider to build.
type Config struct {
	// Provider selects the backend: "openai", "anthropic", "ollama" or "mock".
	Provider string `koanf:"provider"`
	// Model overrides the backend's default model when non-empty.
	Model string `koanf:"model"`
	// APIKey overrides the backend's environment credential when non-empty.
	APIKey string `koanf:"api_key"`
	// BaseURL overrides the backend endpoint when non-empty.
	BaseURL string `koanf:"base_url"`
	// Temperature is the sampling temperature passed through to each chat
	// request unmodified.
	Temperature float64 `koanf:"temperature"`
	// MaxTokens sets the default response budget for backends that need one.
	MaxTokens int `koanf:"max_tokens"`
}

// constructors maps a normalized provider tag to its builder.
var constructors = map[string]func(Config) (llm.Provider, error){
	"openai":    newOpenAI,
	"anthropic": newAnthropic,
	"ollama":    newOllama,
	"mock":      newMock,
}

// New builds a provider from the config. Unknown provider names return an
// UNSUPPORTED_PROVIDER error; cloud backends without a credential in either
// the config or the environment return MISSING_CREDENTIAL. Both are raised
// here, at construction, rather than on the first Chat call.
func New(cfg Config) (llm.Provider, error) {
	build, ok := constructors[strings.ToLower(strings.TrimSpace(cfg.Provider))]
	if !ok {
		return nil, errors.New(errors.CodeUnsupportedProvider, "unsupported provider: "+cfg.Provider, nil).
			WithContext("provider", cfg.Provider)
	}
	return build(cfg)
}

func requireCredential(cfg Config, envVar string) error {
	if cfg.APIKey != "" || os.Getenv(envVar) != "" {
		return nil
	}
	return errors.New(errors.CodeMissingCredential, "missing credential for provider "+cfg.Provider, nil).
		WithContext("provider", cfg.Provider).
		WithContext("env_var", envVar)
}

func newOpenAI(cfg Config) (llm.Provider, error) {
	if err := requireCredential(cfg, "OPENAI_API_KEY"); err != nil {
		return nil, err
	}
	opts := []openai.Option{}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	return openai.New(opts...), nil
}

func newAnthropic(cfg Config) (llm.Provider, error) {
	if err := requireCredential(cfg, "ANTHROPIC_API_KEY"); err != nil {
		return nil, err
	}
	opts := []anthropic.Option{}
	if cfg.Model != "" {
		opts = append(opts, anthropic.WithModel(cfg.Model))
	}
	if cfg.APIKey != "" {
		opts = append(opts, anthropic.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, anthropic.WithMaxTokens(int64(cfg.MaxTokens)))
	}
	return anthropic.New(opts...), nil
}

func newOllama(cfg Config) (llm.Provider, error) {
	// Ollama takes the model per request, not at construction.
	return llm.NewOllama(cfg.BaseURL), nil
}

func newMock(cfg Config) (llm.Provider, error) {
	return llm.NewMockProvider(), nil
}
