package llm

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/studymate/internal/httpx"
)

// RetryProvider retries transient failures with exponential backoff.
// Invalid responses get exactly one extra attempt.
type RetryProvider struct {
	inner       Provider
	maxAttempts int
	backoff     httpx.Backoff
}

// WithRetry wraps p. MaxAttempts below 1 means a single attempt.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &RetryProvider{
		inner:       p,
		maxAttempts: attempts,
		backoff: httpx.Backoff{
			Base:       cfg.InitialWait,
			Max:        cfg.MaxWait,
			Multiplier: cfg.Multiplier,
			Jitter:     0.2,
		},
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	invalidSeen := false

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry, invalid := retryable(err)
		if invalid {
			if invalidSeen {
				return nil, err
			}
			invalidSeen = true
		}
		if !retry || attempt == r.maxAttempts-1 {
			break
		}

		if err := httpx.Sleep(ctx, r.wait(attempt, err)); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// wait honors a provider Retry-After, otherwise backs off.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	return r.backoff.Delay(attempt)
}

// TimeoutProvider bounds each Generate call.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p; a non-positive timeout returns p unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: timeout}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
