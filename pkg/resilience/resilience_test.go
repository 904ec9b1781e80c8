// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/llm"
)

func fastRetry(attempts int) RetryConfig {
	return DefaultRetryConfig().
		WithMaxAttempts(attempts).
		WithInitialDelay(time.Millisecond)
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := fastRetry(3).Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return stderrors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := fastRetry(3).Do(context.Background(), func() error {
		calls++
		return stderrors.New("always")
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryStopsOnUnrecoverable(t *testing.T) {
	calls := 0
	fatal := errors.New(errors.CodeInvalidInput, "bad request", nil).WithRecoverable(false)

	err := fastRetry(5).Do(context.Background(), func() error {
		calls++
		return fatal
	})
	if !errors.HasCode(err, errors.CodeInvalidInput) {
		t.Errorf("error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on unrecoverable)", calls)
	}
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	rc := DefaultRetryConfig().WithMaxAttempts(5).WithInitialDelay(time.Hour)
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := rc.Do(ctx, func() error {
		calls++
		return stderrors.New("transient")
	})
	if !errors.HasCode(err, errors.CodeContextLost) {
		t.Errorf("error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithTimeoutExpires(t *testing.T) {
	err := WithTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if !errors.HasCode(err, errors.CodeTimeout) {
		t.Errorf("error = %v", err)
	}
}

func TestWithTimeoutZeroMeansNoBoundary(t *testing.T) {
	ran := false
	err := WithTimeout(context.Background(), 0, func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err != nil || !ran {
		t.Errorf("err = %v, ran = %v", err, ran)
	}
}

// flakyProvider fails a fixed number of times before succeeding.
type flakyProvider struct {
	failures int
	calls    int
}

func (p *flakyProvider) Chat(_ context.Context, _ llm.ChatRequest) (*llm.ChatResponse, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, errors.New(errors.CodeProvider, "backend hiccup", nil).WithRecoverable(true)
	}
	return &llm.ChatResponse{Content: "finally"}, nil
}

func TestResilientProviderRetries(t *testing.T) {
	inner := &flakyProvider{failures: 2}
	p := NewResilientProvider(inner, WithRetry(fastRetry(3)))

	resp, err := p.Chat(context.Background(), llm.ChatRequest{})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if resp.Content != "finally" {
		t.Errorf("content = %q", resp.Content)
	}
	if inner.calls != 3 {
		t.Errorf("inner calls = %d, want 3", inner.calls)
	}
}

// slowThenFastProvider exceeds the call timeout on its first attempt and
// answers immediately on the second.
type slowThenFastProvider struct {
	calls int32
	delay time.Duration
}

func (p *slowThenFastProvider) Chat(_ context.Context, _ llm.ChatRequest) (*llm.ChatResponse, error) {
	if atomic.AddInt32(&p.calls, 1) == 1 {
		time.Sleep(p.delay)
		return &llm.ChatResponse{Content: "stale"}, nil
	}
	return &llm.ChatResponse{Content: "fresh"}, nil
}

func TestResilientProviderAbandonedAttemptDoesNotClobber(t *testing.T) {
	inner := &slowThenFastProvider{delay: 100 * time.Millisecond}
	p := NewResilientProvider(inner, WithRetry(fastRetry(3)), WithCallTimeout(10*time.Millisecond))

	resp, err := p.Chat(context.Background(), llm.ChatRequest{})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	// Let the abandoned first attempt finish before inspecting the result it
	// must not have touched.
	time.Sleep(150 * time.Millisecond)
	if resp.Content != "fresh" {
		t.Errorf("content = %q, want %q", resp.Content, "fresh")
	}
}

func TestResilientProviderGivesUp(t *testing.T) {
	inner := &flakyProvider{failures: 10}
	p := NewResilientProvider(inner, WithRetry(fastRetry(2)))

	_, err := p.Chat(context.Background(), llm.ChatRequest{})
	if !errors.HasCode(err, errors.CodeProvider) {
		t.Errorf("error = %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls)
	}
}
