// SPDX-License-Identifier: Apache-2.0

package factory

import (
	"testing"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/llm"
)

func TestNewMock(t *testing.T) {
	p, err := New(Config{Provider: "mock"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*llm.MockProvider); !ok {
		t.Errorf("expected *llm.MockProvider, got %T", p)
	}
}

func TestNewOllama(t *testing.T) {
	p, err := New(Config{Provider: "ollama", BaseURL: "http://localhost:11434"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*llm.OllamaProvider); !ok {
		t.Errorf("expected *llm.OllamaProvider, got %T", p)
	}
}

func TestNewProviderNameNormalized(t *testing.T) {
	if _, err := New(Config{Provider: "  Mock "}); err != nil {
		t.Errorf("normalized name should resolve, got %v", err)
	}
}

func TestNewUnsupportedProvider(t *testing.T) {
	_, err := New(Config{Provider: "gemini"})
	if err == nil {
		t.Fatal("expected error for unsupported provider")
	}
	if !errors.HasCode(err, errors.CodeUnsupportedProvider) {
		t.Errorf("expected UNSUPPORTED_PROVIDER, got %v", err)
	}
}

func TestNewCloudProviderWithExplicitKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	if _, err := New(Config{Provider: "openai", APIKey: "sk-test"}); err != nil {
		t.Errorf("explicit key should satisfy the credential check, got %v", err)
	}
	if _, err := New(Config{Provider: "anthropic", APIKey: "sk-ant-test"}); err != nil {
		t.Errorf("explicit key should satisfy the credential check, got %v", err)
	}
}

func TestNewCloudProviderFromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")
	if _, err := New(Config{Provider: "anthropic"}); err != nil {
		t.Errorf("env credential should satisfy the check, got %v", err)
	}
}

func TestNewMissingCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := New(Config{Provider: "openai"})
	if err == nil {
		t.Fatal("expected error without credential")
	}
	if !errors.HasCode(err, errors.CodeMissingCredential) {
		t.Errorf("expected MISSING_CREDENTIAL, got %v", err)
	}

	perr := errors.As(err)
	if perr.Context["env_var"] != "OPENAI_API_KEY" {
		t.Errorf("context env_var = %v", perr.Context["env_var"])
	}
}
