package spacedrep

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abhisek/studymate/internal/domain"
)

// mockItemRepo is a minimal in-memory item repository for tests.
type mockItemRepo struct {
	items   map[string]domain.Item
	saveErr error
	saved   []domain.Item
}

func newMockItemRepo(items ...domain.Item) *mockItemRepo {
	m := &mockItemRepo{items: make(map[string]domain.Item)}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (m *mockItemRepo) All(_ context.Context) ([]domain.Item, error) {
	out := make([]domain.Item, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	return out, nil
}

func (m *mockItemRepo) Get(_ context.Context, id string) (domain.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return domain.Item{}, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	return it, nil
}

func (m *mockItemRepo) Save(_ context.Context, it domain.Item) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items[it.ID] = it
	m.saved = append(m.saved, it)
	return nil
}

func TestScheduler_Review_PersistsState(t *testing.T) {
	repo := newMockItemRepo(domain.Item{ID: "q1", EF: DefaultEasiness})
	s := NewScheduler(repo)

	got, err := s.Review(context.Background(), "q1", Answer{Correct: true, Confidence: 1}, testNow)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if got.Reps != 1 || got.IntervalDays != 1 {
		t.Errorf("reps=%d interval=%d, want 1/1", got.Reps, got.IntervalDays)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("saved %d items, want 1", len(repo.saved))
	}
	if repo.items["q1"].NextReview == nil {
		t.Error("expected NextReview to be persisted")
	}
}

func TestScheduler_Review_UnknownItem(t *testing.T) {
	s := NewScheduler(newMockItemRepo())
	_, err := s.Review(context.Background(), "missing", Answer{Correct: true}, testNow)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestScheduler_Review_SaveError(t *testing.T) {
	repo := newMockItemRepo(domain.Item{ID: "q1"})
	repo.saveErr = errors.New("disk full")
	s := NewScheduler(repo)
	if _, err := s.Review(context.Background(), "q1", Answer{Correct: true}, testNow); err == nil {
		t.Error("expected save error to surface")
	}
}

func TestScheduler_DueItems_SortedByOverdue(t *testing.T) {
	repo := newMockItemRepo(
		domain.Item{ID: "a", NextReview: at(testNow.Add(-24 * time.Hour))},
		domain.Item{ID: "b", NextReview: at(testNow.Add(-72 * time.Hour))},
		domain.Item{ID: "c", NextReview: at(testNow.Add(24 * time.Hour))},
		domain.Item{ID: "d"},
		domain.Item{ID: "e", NextReview: at(testNow.Add(-24 * time.Hour))},
	)
	s := NewScheduler(repo)

	due, err := s.DueItems(context.Background(), testNow)
	if err != nil {
		t.Fatalf("DueItems: %v", err)
	}
	var ids []string
	for _, it := range due {
		ids = append(ids, it.ID)
	}
	want := []string{"b", "a", "e"}
	if fmt.Sprint(ids) != fmt.Sprint(want) {
		t.Errorf("due = %v, want %v", ids, want)
	}
}

func TestScheduler_UpcomingItems(t *testing.T) {
	repo := newMockItemRepo(
		domain.Item{ID: "soon", NextReview: at(testNow.Add(36 * time.Hour))},
		domain.Item{ID: "later", NextReview: at(testNow.Add(72 * time.Hour))},
		domain.Item{ID: "past", NextReview: at(testNow.Add(-time.Hour))},
	)
	s := NewScheduler(repo)

	got, err := s.UpcomingItems(context.Background(), testNow, 48*time.Hour)
	if err != nil {
		t.Fatalf("UpcomingItems: %v", err)
	}
	if len(got) != 1 || got[0].ID != "soon" {
		t.Errorf("upcoming = %+v, want [soon]", got)
	}
}
