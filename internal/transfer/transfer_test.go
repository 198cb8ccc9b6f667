package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/store"
)

var now = time.Date(2025, 2, 3, 12, 0, 0, 0, time.UTC)

type fixture struct {
	items    *store.Items
	attempts *store.Attempts
	tags     *store.ErrorTags
	svc      *Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	kv := store.NewMemory()
	f := fixture{
		items:    store.NewItems(kv),
		attempts: store.NewAttempts(kv),
		tags:     store.NewErrorTags(kv),
	}
	f.svc = NewService(f.items, f.attempts, f.tags, nil)
	return f
}

func (f fixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.items.PutMany(ctx, []domain.Item{
		{ID: "i1", Stem: "2+2?", Options: []string{"3", "4"}, AnswerIndex: 1, Difficulty: 0.1, EF: 2.5},
	}))
	require.NoError(t, f.attempts.Append(ctx, domain.Attempt{
		ID: "a1", ItemID: "i1", Correct: true, Confidence: 1, ErrorTagIDs: []string{}, CreatedAt: now,
	}))
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	p, err := f.svc.Export(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, p.Version)
	assert.Equal(t, now, p.ExportDate)
	assert.Len(t, p.Data.Items, 1)
	assert.Len(t, p.Data.Attempts, 1)
	assert.Equal(t, domain.DefaultErrorTags(), p.Data.ErrorTags)

	var buf bytes.Buffer
	_, err = p.WriteTo(&buf)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(2), decoded["version"])
	assert.Contains(t, decoded, "data")
}

func TestImport_ExportedPayloadReplacesData(t *testing.T) {
	src := newFixture(t)
	src.seed(t)
	p, err := src.svc.Export(context.Background(), now)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = p.WriteTo(&buf)
	require.NoError(t, err)

	dst := newFixture(t)
	ctx := context.Background()
	require.NoError(t, dst.items.PutMany(ctx, []domain.Item{{ID: "old", Options: []string{"x"}}}))

	res, err := dst.svc.Import(ctx, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Items: 1, Attempts: 1, ErrorTags: 5}, res)

	items, err := dst.items.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "i1", items[0].ID)

	attempts, err := dst.attempts.All(ctx)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, now, attempts[0].CreatedAt)
}

func TestImport_RejectsBeforeClearing(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing data", `{"version": 2, "exportDate": "2025-02-03T12:00:00Z"}`},
		{"not json", `{"data": [`},
		{"item without id", `{"data": {"items": [{"stem": "q", "options": ["a"], "answerIndex": 0}]}}`},
		{"attempt bad confidence", `{"data": {"attempts": [{"id": "a", "itemId": "i", "correct": true, "confidence": 3, "createdAt": "2025-02-03T12:00:00Z"}]}}`},
		{"answer index out of range", `{"data": {"items": [{"id": "i", "stem": "q", "options": ["a"], "answerIndex": 4}]}}`},
		{"duplicate items", `{"data": {"items": [{"id": "i", "stem": "q", "options": ["a"], "answerIndex": 0}, {"id": "i", "stem": "q", "options": ["a"], "answerIndex": 0}]}}`},
		{"easiness below floor", `{"data": {"items": [{"id": "i", "stem": "q", "options": ["a"], "answerIndex": 0, "ef": 0.4, "reps": 3}]}}`},
		{"interval over cap", `{"data": {"items": [{"id": "i", "stem": "q", "options": ["a"], "answerIndex": 0, "ef": 2.5, "intervalDays": 99999}]}}`},
		{"bad timestamp", `{"data": {"attempts": [{"id": "a", "itemId": "i", "correct": true, "createdAt": "yesterday"}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed(t)
			ctx := context.Background()

			_, err := f.svc.Import(ctx, []byte(tt.raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)

			items, err := f.items.All(ctx)
			require.NoError(t, err)
			assert.Len(t, items, 1, "existing items must survive a rejected import")
			attempts, err := f.attempts.All(ctx)
			require.NoError(t, err)
			assert.Len(t, attempts, 1)
		})
	}
}

func TestImport_EmptyTagsKeepDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.tags.PutMany(ctx, []domain.ErrorTag{{ID: "custom", Name: "Custom"}}))

	_, err := f.svc.Import(ctx, []byte(`{"data": {"items": [], "attempts": [], "errorTags": []}}`))
	require.NoError(t, err)

	tags, err := f.tags.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultErrorTags(), tags)
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Reset(ctx))
	items, _ := f.items.All(ctx)
	attempts, _ := f.attempts.All(ctx)
	assert.Empty(t, items)
	assert.Empty(t, attempts)
}

func TestParse_UnsetEasinessAccepted(t *testing.T) {
	p, err := Parse([]byte(`{"data": {"items": [{"id": "i", "stem": "q", "options": ["a"], "answerIndex": 0, "ef": 0, "intervalDays": 3650}]}}`))
	require.NoError(t, err)
	require.Len(t, p.Data.Items, 1)
	assert.Equal(t, 3650, p.Data.Items[0].IntervalDays)
}
