// Package transfer exports and imports the learner's items, attempts and
// error tags as a single JSON document.
package transfer

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/logger"
)

// FormatVersion is written into every export.
const FormatVersion = 2

// Payload is the export document.
type Payload struct {
	Version    int       `json:"version"`
	ExportDate time.Time `json:"exportDate"`
	Data       Data      `json:"data"`
}

type Data struct {
	Items     []domain.Item     `json:"items"`
	Attempts  []domain.Attempt  `json:"attempts"`
	ErrorTags []domain.ErrorTag `json:"errorTags"`
}

type ItemStore interface {
	All(ctx context.Context) ([]domain.Item, error)
	PutMany(ctx context.Context, items []domain.Item) error
	Clear(ctx context.Context) error
}

type AttemptStore interface {
	All(ctx context.Context) ([]domain.Attempt, error)
	Restore(ctx context.Context, attempts []domain.Attempt) error
	Clear(ctx context.Context) error
}

type TagStore interface {
	All(ctx context.Context) ([]domain.ErrorTag, error)
	PutMany(ctx context.Context, tags []domain.ErrorTag) error
	Clear(ctx context.Context) error
}

// Service moves data in and out of the stores.
type Service struct {
	items    ItemStore
	attempts AttemptStore
	tags     TagStore
	log      *logger.Logger
}

func NewService(items ItemStore, attempts AttemptStore, tags TagStore, log *logger.Logger) *Service {
	return &Service{
		items:    items,
		attempts: attempts,
		tags:     tags,
		log:      logger.OrNop(log).With("component", "transfer"),
	}
}

// Export collects everything into a payload stamped with now.
func (s *Service) Export(ctx context.Context, now time.Time) (*Payload, error) {
	items, err := s.items.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("export items: %w", err)
	}
	attempts, err := s.attempts.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("export attempts: %w", err)
	}
	tags, err := s.tags.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("export error tags: %w", err)
	}
	return &Payload{
		Version:    FormatVersion,
		ExportDate: now.UTC(),
		Data:       Data{Items: items, Attempts: attempts, ErrorTags: tags},
	}, nil
}

// WriteTo encodes p as indented JSON.
func (p *Payload) WriteTo(w io.Writer) (int64, error) {
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode export: %w", err)
	}
	raw = append(raw, '\n')
	n, err := w.Write(raw)
	return int64(n), err
}

// ImportResult counts what was written.
type ImportResult struct {
	Items     int
	Attempts  int
	ErrorTags int
}

// Import replaces items, attempts and error tags with the contents of raw.
// The document is fully validated first; a *domain.ValidationError means
// nothing was cleared. An empty errorTags list keeps the built-in tags.
func (s *Service) Import(ctx context.Context, raw []byte) (*ImportResult, error) {
	p, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	if err := s.Reset(ctx); err != nil {
		return nil, err
	}
	if err := s.items.PutMany(ctx, p.Data.Items); err != nil {
		return nil, fmt.Errorf("import items: %w", err)
	}
	if err := s.attempts.Restore(ctx, p.Data.Attempts); err != nil {
		return nil, fmt.Errorf("import attempts: %w", err)
	}
	if len(p.Data.ErrorTags) > 0 {
		if err := s.tags.PutMany(ctx, p.Data.ErrorTags); err != nil {
			return nil, fmt.Errorf("import error tags: %w", err)
		}
	}

	res := &ImportResult{
		Items:     len(p.Data.Items),
		Attempts:  len(p.Data.Attempts),
		ErrorTags: len(p.Data.ErrorTags),
	}
	s.log.Info("import complete", "items", res.Items, "attempts", res.Attempts, "error_tags", res.ErrorTags)
	return res, nil
}

// Reset clears items, attempts and error tags.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.items.Clear(ctx); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	if err := s.attempts.Clear(ctx); err != nil {
		return fmt.Errorf("clear attempts: %w", err)
	}
	if err := s.tags.Clear(ctx); err != nil {
		return fmt.Errorf("clear error tags: %w", err)
	}
	return nil
}

const schemaURL = "schema://studymate-export.json"

//go:embed payload.schema.json
var payloadSchemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func payloadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(payloadSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse payload schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add payload schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Parse validates raw against the export schema and the cross-record rules,
// then decodes it.
func Parse(raw []byte) (*Payload, error) {
	sch, err := payloadSchema()
	if err != nil {
		return nil, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, domain.NewValidationError("payload", fmt.Sprintf("invalid JSON: %v", err))
	}
	if err := sch.Validate(doc); err != nil {
		return nil, domain.NewValidationError("payload", err.Error())
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, domain.NewValidationError("payload", err.Error())
	}
	if err := checkRecords(&p.Data); err != nil {
		return nil, err
	}
	return &p, nil
}

func checkRecords(d *Data) error {
	verr := &domain.ValidationError{}

	seen := make(map[string]bool, len(d.Items))
	for i, it := range d.Items {
		field := fmt.Sprintf("data.items[%d]", i)
		if seen[it.ID] {
			verr.Add(field+".id", fmt.Sprintf("duplicate item id %q", it.ID))
		}
		seen[it.ID] = true
		if it.AnswerIndex >= len(it.Options) {
			verr.Add(field+".answerIndex", "must index into options")
		}
	}

	attemptIDs := make(map[string]bool, len(d.Attempts))
	for i, a := range d.Attempts {
		if attemptIDs[a.ID] {
			verr.Add(fmt.Sprintf("data.attempts[%d].id", i), fmt.Sprintf("duplicate attempt id %q", a.ID))
		}
		attemptIDs[a.ID] = true
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
