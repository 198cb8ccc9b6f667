package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/studymate/internal/domain"
)

// Attempts is the append-only attempt ledger.
type Attempts struct {
	mu sync.Mutex
	kv KV
}

func NewAttempts(kv KV) *Attempts {
	return &Attempts{kv: kv}
}

// Append adds an attempt. Appending an existing ID fails with
// domain.ErrAlreadyExists.
func (r *Attempts) Append(ctx context.Context, a domain.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.kv.Get(ctx, CollectionAttempts, a.ID)
	switch {
	case err == nil:
		return fmt.Errorf("attempt %s: %w", a.ID, domain.ErrAlreadyExists)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, ErrUnavailable):
	default:
		return err
	}
	return putAs(ctx, r.kv, CollectionAttempts, a.ID, a)
}

// All returns every attempt in append order.
func (r *Attempts) All(ctx context.Context) ([]domain.Attempt, error) {
	return getAllAs[domain.Attempt](ctx, r.kv, CollectionAttempts)
}

// AttachFeedback stores AI feedback on an existing attempt. This is the only
// mutation the ledger allows.
func (r *Attempts) AttachFeedback(ctx context.Context, attemptID string, fb domain.AIFeedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := getAs[domain.Attempt](ctx, r.kv, CollectionAttempts, attemptID)
	if err != nil {
		return fmt.Errorf("attach feedback: %w", err)
	}
	a.AIFeedback = &fb
	a.RemediationConcepts = fb.FocusConcepts
	return putAs(ctx, r.kv, CollectionAttempts, a.ID, a)
}

// Restore writes attempts verbatim. Used by import after the ledger is cleared.
func (r *Attempts) Restore(ctx context.Context, attempts []domain.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range attempts {
		if err := putAs(ctx, r.kv, CollectionAttempts, a.ID, a); err != nil {
			return err
		}
	}
	return nil
}

func (r *Attempts) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.kv.Clear(ctx, CollectionAttempts)
}
