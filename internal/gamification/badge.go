package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/studymate/internal/domain"
)

// BadgeRepo persists unlocked badges.
type BadgeRepo interface {
	All(ctx context.Context) ([]domain.UnlockedBadge, error)
	Has(ctx context.Context, badgeID string) (bool, error)
	Save(ctx context.Context, b domain.UnlockedBadge) error
}

// BadgeEngine unlocks badges whose metric crosses its threshold.
type BadgeEngine struct {
	repo  BadgeRepo
	defs  []domain.BadgeDefinition
	locks *keyedMutex
}

func NewBadgeEngine(repo BadgeRepo, defs []domain.BadgeDefinition) *BadgeEngine {
	return newBadgeEngine(repo, defs, newKeyedMutex())
}

func newBadgeEngine(repo BadgeRepo, defs []domain.BadgeDefinition, locks *keyedMutex) *BadgeEngine {
	return &BadgeEngine{repo: repo, defs: defs, locks: locks}
}

// MetricValue computes a badge metric.
func MetricValue(metric string, attempts []domain.Attempt, streak domain.StudyStreak, challenges []domain.ChallengeProgress, ref time.Time) float64 {
	switch metric {
	case domain.MetricStreakDays:
		return float64(streak.Longest)
	case domain.MetricWeeklyStudySessions:
		return float64(WeeklySessions(attempts, ref))
	case domain.MetricAccuracy:
		return WeeklyAccuracy(attempts, ref)
	case domain.MetricChallengeCompletions:
		return float64(ChallengeCompletions(challenges))
	default:
		return 0
	}
}

// Evaluate unlocks and returns the badges newly earned. Badges already
// unlocked are skipped, so repeated calls are no-ops.
func (e *BadgeEngine) Evaluate(ctx context.Context, attempts []domain.Attempt, streak domain.StudyStreak, challenges []domain.ChallengeProgress, ref, now time.Time) ([]domain.UnlockedBadge, error) {
	var earned []domain.UnlockedBadge
	for _, def := range e.defs {
		b, ok, err := e.evaluateOne(ctx, def, attempts, streak, challenges, ref, now)
		if err != nil {
			return earned, err
		}
		if ok {
			earned = append(earned, b)
		}
	}
	return earned, nil
}

func (e *BadgeEngine) evaluateOne(ctx context.Context, def domain.BadgeDefinition, attempts []domain.Attempt, streak domain.StudyStreak, challenges []domain.ChallengeProgress, ref, now time.Time) (domain.UnlockedBadge, bool, error) {
	unlock := e.locks.Lock("badge:" + def.ID)
	defer unlock()

	has, err := e.repo.Has(ctx, def.ID)
	if err != nil {
		return domain.UnlockedBadge{}, false, fmt.Errorf("check badge %s: %w", def.ID, err)
	}
	if has {
		return domain.UnlockedBadge{}, false, nil
	}

	value := MetricValue(def.Metric, attempts, streak, challenges, ref)
	if value < def.Threshold {
		return domain.UnlockedBadge{}, false, nil
	}

	b := domain.UnlockedBadge{
		ID:               def.ID,
		BadgeID:          def.ID,
		UnlockedAt:       now,
		ProgressSnapshot: value,
	}
	if err := e.repo.Save(ctx, b); err != nil {
		return domain.UnlockedBadge{}, false, fmt.Errorf("save badge %s: %w", def.ID, err)
	}
	return b, true, nil
}
