// SPDX-License-Identifier: Apache-2.0

// Package resilience adds retry and timeout boundaries around provider
// calls and other flaky operations.
package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/praxis-sdk/praxis/pkg/errors"
)

// RetryConfig controls retry behavior with exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// InitialDelay is the backoff before the second attempt.
	InitialDelay time.Duration

	// MaxDelay caps the backoff.
	MaxDelay time.Duration

	// Multiplier grows the backoff per attempt (default 2.0).
	Multiplier float64

	// Jitter randomizes the backoff by ±(Jitter * delay); 0.1 means ±10%.
	Jitter float64

	// IsRecoverable decides whether an error is worth retrying. Defaults
	// to the Recoverable flag on classified errors.
	IsRecoverable func(error) bool
}

// DefaultRetryConfig returns the standard policy: three attempts, 100ms
// initial backoff doubling up to 10s, 10% jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		Multiplier:    2.0,
		Jitter:        0.1,
		IsRecoverable: errors.IsRecoverable,
	}
}

// WithMaxAttempts returns a copy with MaxAttempts set.
func (rc RetryConfig) WithMaxAttempts(n int) RetryConfig {
	rc.MaxAttempts = n
	return rc
}

// WithInitialDelay returns a copy with InitialDelay set.
func (rc RetryConfig) WithInitialDelay(d time.Duration) RetryConfig {
	rc.InitialDelay = d
	return rc
}

// WithIsRecoverable returns a copy with the retry predicate set.
func (rc RetryConfig) WithIsRecoverable(fn func(error) bool) RetryConfig {
	rc.IsRecoverable = fn
	return rc
}

// Do runs fn until it succeeds, the error is unrecoverable, or attempts run
// out. The last error is returned in that case.
func (rc RetryConfig) Do(ctx context.Context, fn func() error) error {
	if rc.MaxAttempts < 1 {
		rc.MaxAttempts = 1
	}
	if rc.IsRecoverable == nil {
		rc.IsRecoverable = errors.IsRecoverable
	}

	var lastErr error
	for attempt := 0; attempt < rc.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.New(errors.CodeContextLost, "context canceled during retry", ctx.Err()).
					WithContext("attempt", attempt).
					WithContext("max_attempts", rc.MaxAttempts)
			case <-time.After(rc.backoff(attempt)):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !rc.IsRecoverable(err) {
			return err
		}
	}
	return lastErr
}

func (rc RetryConfig) backoff(attempt int) time.Duration {
	multiplier := rc.Multiplier
	if multiplier == 0 {
		multiplier = 2.0
	}

	delay := time.Duration(float64(rc.InitialDelay) * math.Pow(multiplier, float64(attempt-1)))
	if rc.MaxDelay > 0 && delay > rc.MaxDelay {
		delay = rc.MaxDelay
	}

	if rc.Jitter > 0 {
		spread := float64(delay) * rc.Jitter
		delay += time.Duration(spread * 2 * (rand.Float64() - 0.5))
		if delay < 0 {
			delay = 0
		}
	}
	return delay
}
