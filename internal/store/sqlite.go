package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	"github.com/abhisek/studymate/internal/domain"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// SQLite is a KV backed by a single SQLite table.
type SQLite struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// OpenSQLite creates a store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs auto-migration.
func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		drv.Close()
		return nil, err
	}

	return &SQLite{db: db, drv: drv, seq: seq}, nil
}

func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}

// DB returns the underlying *sql.DB for raw queries.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.drv.Close()
}

func (s *SQLite) builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (s *SQLite) GetAll(ctx context.Context, collection string) ([]Record, error) {
	query, args := s.builder().
		Select(recordIDColumn, recordDataColumn).
		From(entsql.Table(recordsTableName)).
		Where(entsql.EQ(recordCollectionColumn, collection)).
		OrderBy(recordSeqColumn).
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLite) Get(ctx context.Context, collection, id string) (Record, error) {
	query, args := s.builder().
		Select(recordIDColumn, recordDataColumn).
		From(entsql.Table(recordsTableName)).
		Where(entsql.And(
			entsql.EQ(recordCollectionColumn, collection),
			entsql.EQ(recordIDColumn, id),
		)).
		Limit(1).
		Query()

	var rec Record
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &rec.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return rec, nil
}

func (s *SQLite) Put(ctx context.Context, collection string, rec Record) error {
	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := s.builder().
		Insert(recordsTableName).
		Columns(recordCollectionColumn, recordIDColumn, recordSeqColumn, recordDataColumn, recordUpdatedAtColumn).
		Values(collection, rec.ID, seq, rec.Data, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns(recordCollectionColumn, recordIDColumn),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded(recordDataColumn)
				u.SetExcluded(recordUpdatedAtColumn)
			}),
		).
		Query()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, rec.ID, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, collection, id string) error {
	query, args := s.builder().
		Delete(recordsTableName).
		Where(entsql.And(
			entsql.EQ(recordCollectionColumn, collection),
			entsql.EQ(recordIDColumn, id),
		)).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *SQLite) Clear(ctx context.Context, collection string) error {
	query, args := s.builder().
		Delete(recordsTableName).
		Where(entsql.EQ(recordCollectionColumn, collection)).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. STUDYMATE_DB environment variable
// 2. $XDG_DATA_HOME/studymate/studymate.db
// 3. ~/.local/share/studymate/studymate.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("STUDYMATE_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "studymate", "studymate.db")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
