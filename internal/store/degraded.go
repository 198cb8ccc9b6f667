package store

import (
	"context"
	"fmt"

	"github.com/abhisek/studymate/internal/logger"
)

// Degraded stands in for a store that could not be opened. Bulk reads are
// empty, point reads fail with ErrUnavailable and writes are logged no-ops.
type Degraded struct {
	log   *logger.Logger
	cause error
}

// NewDegraded creates a degraded store that reports cause in its warnings.
func NewDegraded(log *logger.Logger, cause error) *Degraded {
	return &Degraded{log: logger.OrNop(log), cause: cause}
}

// Cause returns the error that made the store unavailable.
func (d *Degraded) Cause() error { return d.cause }

func (d *Degraded) GetAll(_ context.Context, _ string) ([]Record, error) {
	return nil, nil
}

func (d *Degraded) Get(_ context.Context, collection, id string) (Record, error) {
	return Record{}, fmt.Errorf("%s/%s: %w", collection, id, ErrUnavailable)
}

func (d *Degraded) Put(_ context.Context, collection string, rec Record) error {
	d.skip("put", collection, rec.ID)
	return nil
}

func (d *Degraded) Delete(_ context.Context, collection, id string) error {
	d.skip("delete", collection, id)
	return nil
}

func (d *Degraded) Clear(_ context.Context, collection string) error {
	d.skip("clear", collection, "")
	return nil
}

func (d *Degraded) Close() error { return nil }

func (d *Degraded) skip(op, collection, id string) {
	d.log.Warn("store unavailable, write skipped",
		"op", op, "collection", collection, "id", id, "cause", d.cause)
}
