// Package diagnosis suggests error tags for wrong answers the learner did
// not tag themselves.
package diagnosis

import "github.com/abhisek/studymate/internal/domain"

// ErrorCategory classifies a wrong answer.
type ErrorCategory string

const (
	CategoryCareless      ErrorCategory = "careless"
	CategorySpeedRush     ErrorCategory = "speed-rush"
	CategoryMisconception ErrorCategory = "misconception"
	CategoryUnclassified  ErrorCategory = "unclassified"
)

// ClassifyInput is the context for one incorrect attempt.
type ClassifyInput struct {
	Item           domain.Item
	SelectedOption int
	LatencyMs      int64
	Confidence     float64

	// History is the learner's record on the same concept (or item when the
	// item has no concept) before this attempt.
	History History
}

// History summarizes earlier attempts.
type History struct {
	Attempts int
	Correct  int
}

// Accuracy is the fraction correct, 0 without attempts.
func (h History) Accuracy() float64 {
	if h.Attempts == 0 {
		return 0
	}
	return float64(h.Correct) / float64(h.Attempts)
}

// Result is the outcome of diagnosing a wrong answer.
type Result struct {
	Category       ErrorCategory
	TagIDs         []string
	Confidence     float64
	ClassifierName string
	Reasoning      string // set by the LLM diagnoser
}
