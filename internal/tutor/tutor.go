// Package tutor produces explanations for incorrect answers.
package tutor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/logger"
)

// Request is what an explainer gets for one incorrect attempt.
type Request struct {
	Item           domain.Item
	Attempt        domain.Attempt
	SelectedOption int
	ErrorTags      []domain.ErrorTag
}

// Explainer generates feedback. Implementations may fail; Service turns
// failures into canned feedback.
type Explainer interface {
	Explain(ctx context.Context, req Request) (domain.AIFeedback, error)
}

// Fallback builds canned feedback from the item's correct answer and the
// learner's choice.
func Fallback(item domain.Item, selected int, now time.Time) domain.AIFeedback {
	correct := item.CorrectOption()
	return domain.AIFeedback{
		Explanation: fmt.Sprintf(
			"The correct answer is %q. Compare it with your choice %q and focus on how the question cues the required concept.",
			correct, item.Option(selected)),
		FocusConcepts: []string{strings.TrimSpace(truncate(item.Stem, 40)), correct},
		SuggestedResources: []string{
			"Review your notes for this concept",
			"Summarize the core idea in your own words",
		},
		FollowUpPrompt: "Try to restate the concept without looking at the options.",
		CreatedAt:      now,
		Fallback:       true,
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Service is the tutor entry point used by the submission pipeline.
type Service struct {
	explainer Explainer
	log       *logger.Logger
}

// NewService wraps e. A nil explainer always yields fallback feedback.
func NewService(e Explainer, log *logger.Logger) *Service {
	return &Service{explainer: e, log: logger.OrNop(log).With("component", "tutor")}
}

// Explain returns feedback for req. It never fails: explainer errors and
// empty explanations are replaced by Fallback.
func (s *Service) Explain(ctx context.Context, req Request, now time.Time) domain.AIFeedback {
	if s == nil || s.explainer == nil {
		return Fallback(req.Item, req.SelectedOption, now)
	}

	fb, err := s.explainer.Explain(ctx, req)
	if err != nil {
		s.log.Warn("ai feedback generation failed, using fallback",
			"item_id", req.Item.ID, "error", err)
		return Fallback(req.Item, req.SelectedOption, now)
	}
	if strings.TrimSpace(fb.Explanation) == "" {
		s.log.Warn("ai feedback was empty, using fallback", "item_id", req.Item.ID)
		return Fallback(req.Item, req.SelectedOption, now)
	}

	if len(fb.FocusConcepts) == 0 {
		fb.FocusConcepts = []string{req.Item.Stem}
	}
	if len(fb.SuggestedResources) == 0 {
		fb.SuggestedResources = []string{"Revisit the source material linked to this item"}
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = now
	}
	fb.Fallback = false
	return fb
}
