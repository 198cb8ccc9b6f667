package store

import (
	"context"
	"fmt"

	"github.com/abhisek/studymate/internal/logger"
)

// Backend drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Driver string
	Path   string
	Redis  RedisOptions
}

// Connect opens the configured backend.
func Connect(ctx context.Context, opts Options) (KV, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		path := opts.Path
		if path == "" {
			p, err := DefaultDBPath()
			if err != nil {
				return nil, err
			}
			path = p
		} else if path != ":memory:" {
			if err := ensureDir(path); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		return OpenSQLite(path)
	case DriverRedis:
		return OpenRedis(ctx, opts.Redis)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// OpenOrDegrade opens the configured backend. When that fails it logs a
// warning and returns a Degraded store so callers keep working.
func OpenOrDegrade(ctx context.Context, opts Options, log *logger.Logger) KV {
	log = logger.OrNop(log)
	kv, err := Connect(ctx, opts)
	if err != nil {
		log.Warn("persistence unavailable, continuing without storage",
			"driver", opts.Driver, "error", err)
		return NewDegraded(log, err)
	}
	return kv
}
