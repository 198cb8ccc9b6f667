package store

import (
	"context"
	"errors"

	"github.com/abhisek/studymate/internal/domain"
)

// Streaks persists the singleton study streak.
type Streaks struct {
	kv KV
}

func NewStreaks(kv KV) *Streaks {
	return &Streaks{kv: kv}
}

// Get returns the stored streak, or the default streak when none is stored
// or the store is unavailable.
func (r *Streaks) Get(ctx context.Context) (domain.StudyStreak, error) {
	s, err := getAs[domain.StudyStreak](ctx, r.kv, CollectionStreak, domain.StreakID)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, ErrUnavailable) {
		return domain.DefaultStreak(), nil
	}
	if err != nil {
		return domain.StudyStreak{}, err
	}
	return s, nil
}

func (r *Streaks) Save(ctx context.Context, s domain.StudyStreak) error {
	if s.ID == "" {
		s.ID = domain.StreakID
	}
	return putAs(ctx, r.kv, CollectionStreak, s.ID, s)
}

// Challenges persists challenge progress rows.
type Challenges struct {
	kv KV
}

func NewChallenges(kv KV) *Challenges {
	return &Challenges{kv: kv}
}

func (r *Challenges) All(ctx context.Context) ([]domain.ChallengeProgress, error) {
	return getAllAs[domain.ChallengeProgress](ctx, r.kv, CollectionChallenge)
}

// Get returns the row and whether it exists. An unavailable store reports a
// missing row.
func (r *Challenges) Get(ctx context.Context, id string) (domain.ChallengeProgress, bool, error) {
	c, err := getAs[domain.ChallengeProgress](ctx, r.kv, CollectionChallenge, id)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, ErrUnavailable) {
		return domain.ChallengeProgress{}, false, nil
	}
	if err != nil {
		return domain.ChallengeProgress{}, false, err
	}
	return c, true, nil
}

func (r *Challenges) Save(ctx context.Context, c domain.ChallengeProgress) error {
	return putAs(ctx, r.kv, CollectionChallenge, c.ID, c)
}

func (r *Challenges) Delete(ctx context.Context, id string) error {
	return r.kv.Delete(ctx, CollectionChallenge, id)
}

// Badges persists unlocked badges.
type Badges struct {
	kv KV
}

func NewBadges(kv KV) *Badges {
	return &Badges{kv: kv}
}

func (r *Badges) All(ctx context.Context) ([]domain.UnlockedBadge, error) {
	return getAllAs[domain.UnlockedBadge](ctx, r.kv, CollectionBadges)
}

// Has reports whether the badge has been unlocked.
func (r *Badges) Has(ctx context.Context, badgeID string) (bool, error) {
	_, err := r.kv.Get(ctx, CollectionBadges, badgeID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, ErrUnavailable):
		return false, nil
	default:
		return false, err
	}
}

func (r *Badges) Save(ctx context.Context, b domain.UnlockedBadge) error {
	return putAs(ctx, r.kv, CollectionBadges, b.ID, b)
}

// ErrorTags persists the error tag vocabulary.
type ErrorTags struct {
	kv KV
}

func NewErrorTags(kv KV) *ErrorTags {
	return &ErrorTags{kv: kv}
}

// All returns the stored tags, or the built-in defaults when none are stored.
func (r *ErrorTags) All(ctx context.Context) ([]domain.ErrorTag, error) {
	tags, err := getAllAs[domain.ErrorTag](ctx, r.kv, CollectionErrorTags)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return domain.DefaultErrorTags(), nil
	}
	return tags, nil
}

func (r *ErrorTags) PutMany(ctx context.Context, tags []domain.ErrorTag) error {
	for _, t := range tags {
		if err := putAs(ctx, r.kv, CollectionErrorTags, t.ID, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *ErrorTags) Clear(ctx context.Context) error {
	return r.kv.Clear(ctx, CollectionErrorTags)
}
