// Package session runs the study loop: choosing the next item and pushing
// each answer through scheduling, the bandit, the attempt ledger and the
// gamification engines.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/studymate/internal/bandit"
	"github.com/abhisek/studymate/internal/diagnosis"
	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/evidence"
	"github.com/abhisek/studymate/internal/gamification"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/spacedrep"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/tutor"
)

// ItemSource lists the item pool.
type ItemSource interface {
	All(ctx context.Context) ([]domain.Item, error)
}

// Ledger is the attempt store the pipeline appends to.
type Ledger interface {
	Append(ctx context.Context, a domain.Attempt) error
	All(ctx context.Context) ([]domain.Attempt, error)
	AttachFeedback(ctx context.Context, attemptID string, fb domain.AIFeedback) error
}

// TagSource lists the error tag vocabulary.
type TagSource interface {
	All(ctx context.Context) ([]domain.ErrorTag, error)
}

// Deps are the collaborators of a session. Evidence, Tutor and Diagnosis
// are optional; nil values degrade to marker snippets, canned feedback and
// no tag suggestions.
type Deps struct {
	Items        ItemSource
	Scheduler    *spacedrep.Scheduler
	Attempts     Ledger
	ErrorTags    TagSource
	Gamification *gamification.Service
	Evidence     *evidence.Lookup
	Tutor        *tutor.Service
	Diagnosis    *diagnosis.Service
	Log          *logger.Logger

	// Rand drives item choice within a bucket. Nil uses the global source.
	Rand *rand.Rand
}

// Session holds the bandit statistics and running totals for one learner
// sitting. Bandit state is never persisted; a new Session explores from
// scratch.
type Session struct {
	id     string
	deps   Deps
	picker *bandit.Picker
	state  *state
	log    *logger.Logger
}

// New starts a session at start.
func New(deps Deps, start time.Time) *Session {
	id := uuid.NewString()
	return &Session{
		id:     id,
		deps:   deps,
		picker: bandit.NewPicker(deps.Rand),
		state:  newState(start),
		log:    logger.OrNop(deps.Log).With("component", "session", "session_id", id),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Stats exposes the bandit arm statistics.
func (s *Session) Stats() []bandit.ArmStats {
	return s.picker.Selector.Stats()
}

// NextItem picks the next item to present. It returns nil without error
// when the pool is empty.
func (s *Session) NextItem(ctx context.Context) (*domain.Item, error) {
	items, err := s.deps.Items.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	item, arm, ok := s.picker.Pick(items)
	if !ok {
		return nil, nil
	}
	s.log.Debug("item selected", "item_id", item.ID, "arm", bandit.Bucket(arm).String())
	return &item, nil
}

// SubmitInput is one answer to an item.
type SubmitInput struct {
	Item           domain.Item
	SelectedOption int
	Confidence     float64
	LatencyMs      int64
	ErrorTagIDs    []string

	// Now is the answer time. Zero means time.Now().
	Now time.Time
}

func (in SubmitInput) validate() error {
	verr := &domain.ValidationError{}
	if in.Item.ID == "" {
		verr.Add("item.id", "is required")
	}
	if in.SelectedOption < 0 || in.SelectedOption >= len(in.Item.Options) {
		verr.Add("selectedOption", fmt.Sprintf("must be between 0 and %d", len(in.Item.Options)-1))
	}
	if in.Confidence < 0 || in.Confidence > 1 {
		verr.Add("confidence", "must be between 0 and 1")
	}
	if in.LatencyMs < 0 {
		verr.Add("latencyMs", "must not be negative")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// SubmitResult is everything one answer changed.
type SubmitResult struct {
	Correct bool
	Item    domain.Item
	Attempt domain.Attempt
	Reward  float64

	// Evidence is the top search snippet or a marker string.
	Evidence string

	// Feedback is set for incorrect answers only.
	Feedback *domain.AIFeedback

	// Diagnosis is set when error tags were suggested for the attempt.
	Diagnosis *diagnosis.Result

	Streak            domain.StudyStreak
	EarnedBadges      []domain.UnlockedBadge
	UpdatedChallenges []domain.ChallengeProgress
}

// Submit records an answer. Stages run in order: schedule the item, update
// the bandit, append to the ledger, then evidence lookup, gamification and
// tutor feedback concurrently, and finally attach the feedback to the
// attempt. Unknown items fail with domain.ErrNotFound; an unavailable store,
// failed gamification writes and failed enrichment never fail the
// submission once the attempt is recorded.
func (s *Session) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	correct := in.SelectedOption == in.Item.AnswerIndex
	res := &SubmitResult{Correct: correct}

	tagIDs := in.ErrorTagIDs
	if correct {
		tagIDs = nil
	} else if len(tagIDs) == 0 {
		res.Diagnosis = s.suggestTags(ctx, in)
		if res.Diagnosis != nil {
			tagIDs = res.Diagnosis.TagIDs
		}
	}

	ans := spacedrep.Answer{Correct: correct, Confidence: in.Confidence, LatencyMs: in.LatencyMs}
	item, err := s.deps.Scheduler.Review(ctx, in.Item.ID, ans, now)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrUnavailable):
		s.log.Warn("item store unavailable, scheduling in memory only", "item_id", in.Item.ID)
		item = in.Item
		spacedrep.Compute(spacedrep.StateOf(item), ans, now).ApplyTo(&item)
	default:
		return nil, err
	}
	res.Item = item

	res.Reward = bandit.Reward(correct, in.Confidence)
	if err := s.picker.Observe(item, correct, in.Confidence); err != nil {
		return nil, fmt.Errorf("update bandit: %w", err)
	}
	s.state.record(item.Difficulty, correct)

	attempt := domain.Attempt{
		ID:          uuid.NewString(),
		ItemID:      item.ID,
		Correct:     correct,
		LatencyMs:   in.LatencyMs,
		Confidence:  in.Confidence,
		ErrorTagIDs: nonNil(tagIDs),
		CreatedAt:   now,
	}
	if err := s.deps.Attempts.Append(ctx, attempt); err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Evidence = s.deps.Evidence.Snippet(gctx, item.Stem)
		return nil
	})
	if s.deps.Gamification != nil {
		g.Go(func() error {
			activity, err := s.deps.Gamification.RecordStudyActivity(gctx, attempt, now)
			if err != nil {
				s.log.Warn("failed to record study activity", "attempt_id", attempt.ID, "error", err)
				return nil
			}
			res.Streak = activity.Streak
			res.EarnedBadges = activity.EarnedBadges
			res.UpdatedChallenges = activity.UpdatedChallenges
			return nil
		})
	}
	if !correct {
		g.Go(func() error {
			fb := s.deps.Tutor.Explain(gctx, tutor.Request{
				Item:           item,
				Attempt:        attempt,
				SelectedOption: in.SelectedOption,
				ErrorTags:      s.tagsFor(gctx, tagIDs),
			}, now)
			res.Feedback = &fb
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if res.Feedback != nil {
		if err := s.deps.Attempts.AttachFeedback(ctx, attempt.ID, *res.Feedback); err != nil {
			s.log.Warn("failed to attach ai feedback", "attempt_id", attempt.ID, "error", err)
		} else {
			attempt.AIFeedback = res.Feedback
			attempt.RemediationConcepts = res.Feedback.FocusConcepts
		}
	}
	res.Attempt = attempt

	s.log.Info("attempt recorded",
		"item_id", item.ID,
		"correct", correct,
		"interval_days", item.IntervalDays,
		"streak", res.Streak.Current,
		"badges_earned", len(res.EarnedBadges))
	return res, nil
}

// suggestTags runs diagnosis for an untagged wrong answer. History is read
// before the new attempt is appended.
func (s *Session) suggestTags(ctx context.Context, in SubmitInput) *diagnosis.Result {
	if s.deps.Diagnosis == nil {
		return nil
	}
	tags := s.vocabulary(ctx)
	if len(tags) == 0 {
		return nil
	}

	var history diagnosis.History
	items, ierr := s.deps.Items.All(ctx)
	attempts, aerr := s.deps.Attempts.All(ctx)
	if ierr == nil && aerr == nil {
		byID := make(map[string]domain.Item, len(items))
		for _, it := range items {
			byID[it.ID] = it
		}
		history = diagnosis.HistoryFor(in.Item, byID, attempts)
	}

	res := s.deps.Diagnosis.Suggest(ctx, &diagnosis.ClassifyInput{
		Item:           in.Item,
		SelectedOption: in.SelectedOption,
		LatencyMs:      in.LatencyMs,
		Confidence:     in.Confidence,
		History:        history,
	}, tags)
	if len(res.TagIDs) == 0 {
		return nil
	}
	s.log.Debug("error tags suggested", "item_id", in.Item.ID,
		"tags", res.TagIDs, "classifier", res.ClassifierName)
	return res
}

func (s *Session) vocabulary(ctx context.Context) []domain.ErrorTag {
	if s.deps.ErrorTags == nil {
		return domain.DefaultErrorTags()
	}
	tags, err := s.deps.ErrorTags.All(ctx)
	if err != nil {
		s.log.Warn("failed to load error tags", "error", err)
		return domain.DefaultErrorTags()
	}
	return tags
}

func (s *Session) tagsFor(ctx context.Context, ids []string) []domain.ErrorTag {
	if len(ids) == 0 {
		return nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.ErrorTag
	for _, t := range s.vocabulary(ctx) {
		if want[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
