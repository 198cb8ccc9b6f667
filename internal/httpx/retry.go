// Package httpx holds the HTTP retry and backoff helpers shared by the
// outbound clients.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"
)

// Backoff computes exponential delays with proportional jitter.
type Backoff struct {
	Base       time.Duration
	Max        time.Duration
	Multiplier float64
	// Jitter is the fraction of the delay randomly added or removed, 0..1.
	Jitter float64
}

// DefaultBackoff is 250ms doubling up to 2s with 20% jitter.
var DefaultBackoff = Backoff{
	Base:       250 * time.Millisecond,
	Max:        2 * time.Second,
	Multiplier: 2,
	Jitter:     0.2,
}

// Delay returns the wait before retry number attempt (zero based).
func (b Backoff) Delay(attempt int) time.Duration {
	mult := b.Multiplier
	if mult < 1 {
		mult = 1
	}
	wait := float64(b.Base)
	for i := 0; i < attempt; i++ {
		wait *= mult
		if b.Max > 0 && wait >= float64(b.Max) {
			break
		}
	}
	if b.Max > 0 && wait > float64(b.Max) {
		wait = float64(b.Max)
	}
	if b.Jitter > 0 {
		wait += wait * b.Jitter * (2*rand.Float64() - 1)
	}
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Policy bounds a retry loop.
type Policy struct {
	MaxRetries int
	Backoff    Backoff
}

// DefaultPolicy retries three times with DefaultBackoff.
var DefaultPolicy = Policy{MaxRetries: 3, Backoff: DefaultBackoff}

// StatusError is a non-2xx response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Body)
}

// Retryable reports whether the status is worth retrying.
func (e *StatusError) Retryable() bool {
	return IsRetryableStatus(e.Status)
}

func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// DoWithRetry sends the request built by makeReq until it returns 2xx, a
// non-retryable status, or the policy is exhausted. Transport errors are
// retried unless ctx is done. The caller closes the returned body.
func DoWithRetry(ctx context.Context, client *http.Client, policy Policy, makeReq func() (*http.Request, error)) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		req, err := makeReq()
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req.WithContext(ctx))
		retryable := true
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("execute request: %w", err)
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			se := &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
			lastErr = se
			retryable = se.Retryable()
		}

		if !retryable || attempt == policy.MaxRetries {
			return nil, lastErr
		}
		if err := Sleep(ctx, policy.Backoff.Delay(attempt)); err != nil {
			return nil, err
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("request failed")
}

// IsRetryableStatus reports whether status is a throttle or transient
// server failure.
func IsRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
