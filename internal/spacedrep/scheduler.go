package spacedrep

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/studymate/internal/domain"
)

// ItemRepo is the item persistence the scheduler needs.
type ItemRepo interface {
	All(ctx context.Context) ([]domain.Item, error)
	Get(ctx context.Context, id string) (domain.Item, error)
	Save(ctx context.Context, item domain.Item) error
}

// Scheduler applies review outcomes to stored items.
type Scheduler struct {
	items ItemRepo
}

// NewScheduler creates a scheduler backed by the given item repository.
func NewScheduler(items ItemRepo) *Scheduler {
	return &Scheduler{items: items}
}

// Review loads the item, computes its next review state and persists it.
// Returns an error wrapping domain.ErrNotFound for unknown item IDs.
func (s *Scheduler) Review(ctx context.Context, itemID string, ans Answer, now time.Time) (domain.Item, error) {
	item, err := s.items.Get(ctx, itemID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("review item %s: %w", itemID, err)
	}

	Compute(StateOf(item), ans, now).ApplyTo(&item)

	if err := s.items.Save(ctx, item); err != nil {
		return domain.Item{}, fmt.Errorf("save schedule for %s: %w", itemID, err)
	}
	return item, nil
}

// DueItems returns items due for review, sorted by most overdue first.
func (s *Scheduler) DueItems(ctx context.Context, now time.Time) ([]domain.Item, error) {
	items, err := s.items.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return FilterDue(items, now), nil
}

// UpcomingItems returns items that are not yet due but will be within the window.
func (s *Scheduler) UpcomingItems(ctx context.Context, now time.Time, within time.Duration) ([]domain.Item, error) {
	items, err := s.items.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return FilterUpcoming(items, now, within), nil
}

// FilterDue returns the due subset of items, most overdue first, ties by ID.
func FilterDue(items []domain.Item, now time.Time) []domain.Item {
	var due []domain.Item
	for _, it := range items {
		if StateOf(it).IsDue(now) {
			due = append(due, it)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		oi, oj := StateOf(due[i]).OverdueDays(now), StateOf(due[j]).OverdueDays(now)
		if oi != oj {
			return oi > oj
		}
		return due[i].ID < due[j].ID
	})
	return due
}

// FilterUpcoming returns items whose review falls in (now, now+within].
func FilterUpcoming(items []domain.Item, now time.Time, within time.Duration) []domain.Item {
	limit := now.Add(within)
	var upcoming []domain.Item
	for _, it := range items {
		if it.NextReview == nil {
			continue
		}
		if it.NextReview.After(now) && !it.NextReview.After(limit) {
			upcoming = append(upcoming, it)
		}
	}
	return upcoming
}
