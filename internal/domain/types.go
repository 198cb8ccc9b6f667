// Package domain holds the records shared by the scheduler, the bandit
// selector and the gamification engines.
package domain

import "time"

// Item is a single multiple-choice question with its review state.
type Item struct {
	ID          string   `json:"id"`
	Stem        string   `json:"stem"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
	ConceptID   string   `json:"conceptId,omitempty"`
	Difficulty  float64  `json:"difficulty"`
	SourceRef   string   `json:"sourceRef,omitempty"`

	EF           float64    `json:"ef"`
	IntervalDays int        `json:"intervalDays"`
	Reps         int        `json:"reps"`
	NextReview   *time.Time `json:"nextReview,omitempty"`
}

// Option returns the text of option i, or "" when i is out of range.
func (it Item) Option(i int) string {
	if i < 0 || i >= len(it.Options) {
		return ""
	}
	return it.Options[i]
}

// CorrectOption returns the text of the correct answer.
func (it Item) CorrectOption() string {
	return it.Option(it.AnswerIndex)
}

// Attempt is one answer event. Attempts are append-only; the AI feedback
// backfill is the only mutation after creation.
type Attempt struct {
	ID                 string      `json:"id"`
	ItemID             string      `json:"itemId"`
	Correct            bool        `json:"correct"`
	LatencyMs          int64       `json:"latencyMs"`
	Confidence         float64     `json:"confidence"`
	ErrorTagIDs        []string    `json:"errorTagIds"`
	CreatedAt          time.Time   `json:"createdAt"`
	AIFeedback         *AIFeedback `json:"aiFeedback,omitempty"`
	RemediationConcepts []string   `json:"remediationConcepts,omitempty"`
}

// AIFeedback is the tutor explanation attached to an incorrect attempt.
type AIFeedback struct {
	Explanation        string    `json:"explanation"`
	FocusConcepts      []string  `json:"focusConcepts"`
	SuggestedResources []string  `json:"suggestedResources"`
	FollowUpPrompt     string    `json:"followUpPrompt,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	Fallback           bool      `json:"fallback,omitempty"`
}

// ErrorTag classifies why an answer was wrong.
type ErrorTag struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Pattern string `json:"pattern,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// DefaultErrorTags is the built-in tag set used when none are stored.
func DefaultErrorTags() []ErrorTag {
	return []ErrorTag{
		{ID: "misread", Name: "Misread the question"},
		{ID: "calculation_error", Name: "Calculation Error"},
		{ID: "forgot_formula", Name: "Forgot Formula"},
		{ID: "conceptual_misunderstanding", Name: "Conceptual Misunderstanding"},
		{ID: "careless_mistake", Name: "Careless Mistake"},
	}
}

// StreakID is the identifier of the learner's single streak record.
const StreakID = "global"

// StudyStreak tracks consecutive study days.
type StudyStreak struct {
	ID            string `json:"id"`
	Current       int    `json:"current"`
	Longest       int    `json:"longest"`
	LastStudyDate string `json:"lastStudyDate,omitempty"`
}

// DefaultStreak returns the zero streak record.
func DefaultStreak() StudyStreak {
	return StudyStreak{ID: StreakID}
}

// Period is the recurrence of a challenge.
type Period string

const (
	PeriodDaily  Period = "daily"
	PeriodWeekly Period = "weekly"
)

// ChallengeProgress is the progress of one challenge template within one
// period occurrence. The ID is "{templateID}_{periodKey}".
type ChallengeProgress struct {
	ID          string         `json:"id"`
	ChallengeID string         `json:"challengeId"`
	DateKey     string         `json:"dateKey"`
	Period      Period         `json:"period"`
	Progress    float64        `json:"progress"`
	Target      float64        `json:"target"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Completed reports whether the challenge has been stamped complete.
func (c ChallengeProgress) Completed() bool {
	return c.CompletedAt != nil
}

// UnlockedBadge records a badge earned once. ID equals BadgeID.
type UnlockedBadge struct {
	ID               string    `json:"id"`
	BadgeID          string    `json:"badgeId"`
	UnlockedAt       time.Time `json:"unlockedAt"`
	ProgressSnapshot float64   `json:"progressSnapshot"`
}

// Metric keys used by badge definitions and challenge templates.
const (
	MetricCardsReviewed        = "cardsReviewed"
	MetricStudySessions        = "studySessions"
	MetricAccuracy             = "accuracy"
	MetricStreak               = "streak"
	MetricStreakDays           = "streakDays"
	MetricWeeklyStudySessions  = "weeklyStudySessions"
	MetricChallengeCompletions = "challengeCompletions"
)

// BadgeDefinition is static catalog data for a badge.
type BadgeDefinition struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Category    string  `json:"category" yaml:"category"`
	Metric      string  `json:"metric" yaml:"metric"`
	Threshold   float64 `json:"threshold" yaml:"threshold"`
}

// ChallengeTemplate is static catalog data for a recurring challenge.
type ChallengeTemplate struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Period      Period  `json:"period" yaml:"period"`
	Metric      string  `json:"metric" yaml:"metric"`
	Target      float64 `json:"target" yaml:"target"`
}
