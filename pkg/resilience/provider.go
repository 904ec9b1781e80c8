// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"time"

	"github.com/praxis-sdk/praxis/pkg/llm"
)

// ResilientProvider decorates an llm.Provider with retry and an optional
// per-call timeout. Agents see a plain provider; transient backend failures
// are absorbed here.
type ResilientProvider struct {
	inner   llm.Provider
	retry   RetryConfig
	timeout time.Duration
}

// ProviderOption configures a ResilientProvider.
type ProviderOption func(*ResilientProvider)

// WithRetry sets the retry policy.
func WithRetry(rc RetryConfig) ProviderOption {
	return func(p *ResilientProvider) { p.retry = rc }
}

// WithCallTimeout bounds each Chat call.
func WithCallTimeout(d time.Duration) ProviderOption {
	return func(p *ResilientProvider) { p.timeout = d }
}

// NewResilientProvider wraps inner with the default retry policy.
func NewResilientProvider(inner llm.Provider, opts ...ProviderOption) *ResilientProvider {
	p := &ResilientProvider{
		inner: inner,
		retry: DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Chat implements llm.Provider.
func (p *ResilientProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	var resp *llm.ChatResponse
	err := p.retry.Do(ctx, func() error {
		// Each attempt writes its own result. A timed-out attempt keeps
		// running in the WithTimeout goroutine and may assign long after
		// the next attempt started; it must not share a variable with it.
		var attempt *llm.ChatResponse
		err := WithTimeout(ctx, p.timeout, func(ctx context.Context) error {
			var callErr error
			attempt, callErr = p.inner.Chat(ctx, req)
			return callErr
		})
		if err != nil {
			return err
		}
		resp = attempt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

var _ llm.Provider = (*ResilientProvider)(nil)
