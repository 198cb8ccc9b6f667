package gamification

import (
	"context"
	"fmt"

	"github.com/abhisek/studymate/internal/datekey"
	"github.com/abhisek/studymate/internal/domain"
)

// BackdatePolicy decides what an attempt dated before the last study day does.
type BackdatePolicy string

const (
	// BackdateIgnore leaves the streak untouched for backdated attempts.
	BackdateIgnore BackdatePolicy = "ignore"
	// BackdateReset restarts the streak at 1 and moves the last study date back.
	BackdateReset BackdatePolicy = "reset"
)

// StreakRepo persists the singleton streak.
type StreakRepo interface {
	Get(ctx context.Context) (domain.StudyStreak, error)
	Save(ctx context.Context, s domain.StudyStreak) error
}

// NextStreak returns the streak after studying on dateKey.
func NextStreak(prev domain.StudyStreak, dateKey string, policy BackdatePolicy) domain.StudyStreak {
	next := prev
	if next.ID == "" {
		next.ID = domain.StreakID
	}

	delta, known := dayDelta(prev.LastStudyDate, dateKey)
	switch {
	case !known || delta > 1:
		next.Current = 1
	case delta == 1:
		next.Current = prev.Current + 1
	case delta == 0:
	default:
		if policy != BackdateReset {
			return next
		}
		next.Current = 1
	}

	if next.Current > next.Longest {
		next.Longest = next.Current
	}
	next.LastStudyDate = dateKey
	return next
}

// dayDelta returns the days from last to key. known is false when there is
// no usable previous date, which counts as an unbounded gap.
func dayDelta(last, key string) (delta int, known bool) {
	if last == "" {
		return 0, false
	}
	d, err := datekey.DaysBetween(last, key)
	if err != nil {
		return 0, false
	}
	return d, true
}

// StreakTracker records study days against the stored streak.
type StreakTracker struct {
	repo   StreakRepo
	policy BackdatePolicy
	locks  *keyedMutex
}

// NewStreakTracker creates a tracker with the given backdate policy.
func NewStreakTracker(repo StreakRepo, policy BackdatePolicy) *StreakTracker {
	return newStreakTracker(repo, policy, newKeyedMutex())
}

func newStreakTracker(repo StreakRepo, policy BackdatePolicy, locks *keyedMutex) *StreakTracker {
	if policy == "" {
		policy = BackdateIgnore
	}
	return &StreakTracker{repo: repo, policy: policy, locks: locks}
}

// RecordStudyDay applies one study event on dateKey and persists the result.
func (t *StreakTracker) RecordStudyDay(ctx context.Context, dateKey string) (domain.StudyStreak, error) {
	if _, err := datekey.Parse(dateKey); err != nil {
		return domain.StudyStreak{}, err
	}

	unlock := t.locks.Lock("streak:" + domain.StreakID)
	defer unlock()

	prev, err := t.repo.Get(ctx)
	if err != nil {
		return domain.StudyStreak{}, fmt.Errorf("load streak: %w", err)
	}
	next := NextStreak(prev, dateKey, t.policy)
	if next == prev {
		return next, nil
	}
	if err := t.repo.Save(ctx, next); err != nil {
		return domain.StudyStreak{}, fmt.Errorf("save streak: %w", err)
	}
	return next, nil
}
