// Package gamification derives streaks, challenge progress and badges from
// the attempt ledger.
package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/studymate/internal/datekey"
	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/janitor"
)

// AttemptSource reads the attempt ledger.
type AttemptSource interface {
	All(ctx context.Context) ([]domain.Attempt, error)
}

// Repos bundles the stores the service reads and writes.
type Repos struct {
	Attempts   AttemptSource
	Streaks    StreakRepo
	Challenges ChallengeRepo
	Badges     BadgeRepo
}

// Config tunes the engines.
type Config struct {
	Catalog        Catalog
	BackdatePolicy BackdatePolicy
	Retention      time.Duration
}

// DefaultConfig returns the built-in catalog with the ignore policy and
// three-week retention.
func DefaultConfig() Config {
	return Config{
		Catalog:        DefaultCatalog(),
		BackdatePolicy: BackdateIgnore,
		Retention:      DefaultRetention,
	}
}

// Activity is what one study event changed.
type Activity struct {
	Streak            domain.StudyStreak
	EarnedBadges      []domain.UnlockedBadge
	UpdatedChallenges []domain.ChallengeProgress
	AllChallenges     []domain.ChallengeProgress
}

// BadgeState pairs the catalog with what has been unlocked.
type BadgeState struct {
	Definitions []domain.BadgeDefinition
	Unlocked    []domain.UnlockedBadge
}

// State is a read-only view of all gamification records.
type State struct {
	Streak     domain.StudyStreak
	Badges     BadgeState
	Challenges []domain.ChallengeProgress
	Templates  []domain.ChallengeTemplate
}

// Service runs the streak, challenge and badge engines in dependency order.
type Service struct {
	repos      Repos
	catalog    Catalog
	streaks    *StreakTracker
	challenges *ChallengeEngine
	badges     *BadgeEngine
}

// NewService wires the three engines over shared per-key locks.
func NewService(repos Repos, cfg Config, cleanup janitor.Scheduler) *Service {
	locks := newKeyedMutex()
	return &Service{
		repos:      repos,
		catalog:    cfg.Catalog,
		streaks:    newStreakTracker(repos.Streaks, cfg.BackdatePolicy, locks),
		challenges: newChallengeEngine(repos.Challenges, cfg.Catalog.Challenges, cleanup, cfg.Retention, locks),
		badges:     newBadgeEngine(repos.Badges, cfg.Catalog.Badges, locks),
	}
}

// Catalog returns the catalog the service evaluates.
func (s *Service) Catalog() Catalog {
	return s.catalog
}

// RecordStudyActivity updates the streak, then challenges, then badges for
// one attempt. The attempt's timestamp is the reference date; now stamps
// completions and unlocks.
func (s *Service) RecordStudyActivity(ctx context.Context, attempt domain.Attempt, now time.Time) (Activity, error) {
	ref := attempt.CreatedAt
	if ref.IsZero() {
		ref = now
	}

	ledger, err := s.repos.Attempts.All(ctx)
	if err != nil {
		return Activity{}, fmt.Errorf("load attempts: %w", err)
	}
	attempts := ensureAttemptPresence(ledger, attempt)

	streak, err := s.streaks.RecordStudyDay(ctx, datekey.Key(ref))
	if err != nil {
		return Activity{}, err
	}

	res, err := s.challenges.Apply(ctx, attempt, attempts, ref, now)
	if err != nil {
		return Activity{}, err
	}

	earned, err := s.badges.Evaluate(ctx, attempts, streak, res.All, ref, now)
	if err != nil {
		return Activity{}, err
	}

	return Activity{
		Streak:            streak,
		EarnedBadges:      earned,
		UpdatedChallenges: res.Affected,
		AllChallenges:     res.All,
	}, nil
}

// State loads the current streak, unlocked badges and challenge rows.
func (s *Service) State(ctx context.Context) (State, error) {
	streak, err := s.repos.Streaks.Get(ctx)
	if err != nil {
		return State{}, fmt.Errorf("load streak: %w", err)
	}
	unlocked, err := s.repos.Badges.All(ctx)
	if err != nil {
		return State{}, fmt.Errorf("load badges: %w", err)
	}
	challenges, err := s.repos.Challenges.All(ctx)
	if err != nil {
		return State{}, fmt.Errorf("load challenges: %w", err)
	}
	return State{
		Streak:     streak,
		Badges:     BadgeState{Definitions: s.catalog.Badges, Unlocked: unlocked},
		Challenges: challenges,
		Templates:  s.catalog.Challenges,
	}, nil
}
