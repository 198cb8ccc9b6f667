package insights

import (
	"fmt"
	"time"
)

// MaxRecommendations caps the recommendation list.
const MaxRecommendations = 3

// AccuracyTarget is the correct-rate percentage below which accuracy work
// is recommended.
const AccuracyTarget = 80

type Urgency string

const (
	UrgencyOverdue  Urgency = "overdue"
	UrgencyToday    Urgency = "today"
	UrgencyUpcoming Urgency = "upcoming"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is one suggested next step.
type Recommendation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SuggestedAt time.Time `json:"suggestedAt"`
	DueAt       time.Time `json:"dueAt"`
	Urgency     Urgency   `json:"urgency"`
	Priority    Priority  `json:"priority"`
	ItemCount   int       `json:"itemCount"`
	Type        string    `json:"type"`
}

// RecommendInput are the counters recommendations are derived from.
type RecommendInput struct {
	TotalItems    int
	TotalAttempts int
	Due           int
	Upcoming      int
	CorrectRate   int
}

// Recommend returns up to MaxRecommendations suggestions in priority order.
func Recommend(in RecommendInput, now time.Time) []Recommendation {
	var recs []Recommendation

	if in.Due > 0 {
		recs = append(recs, Recommendation{
			ID:          "review-overdue",
			Title:       "Clear overdue reviews",
			Description: fmt.Sprintf("You have %d cards waiting for review. Start with the highest priority set to rebuild momentum.", in.Due),
			SuggestedAt: now,
			DueAt:       now,
			Urgency:     UrgencyOverdue,
			Priority:    PriorityHigh,
			ItemCount:   in.Due,
			Type:        "due",
		})
	}

	if in.Upcoming > 0 {
		recs = append(recs, Recommendation{
			ID:          "plan-upcoming",
			Title:       "Plan upcoming reviews",
			Description: fmt.Sprintf("Prepare for %d cards that will be due within 48 hours. Scheduling a short session now will keep the streak alive.", in.Upcoming),
			SuggestedAt: now,
			DueAt:       now.Add(UpcomingWindow),
			Urgency:     UrgencyToday,
			Priority:    PriorityMedium,
			ItemCount:   in.Upcoming,
			Type:        "upcoming",
		})
	}

	if in.TotalAttempts > 0 && in.CorrectRate < AccuracyTarget {
		recs = append(recs, Recommendation{
			ID:          "accuracy-focus",
			Title:       "Focus on accuracy",
			Description: "Recent accuracy dipped below 80%. Revisit tricky concepts and slow down to check reasoning before submitting.",
			SuggestedAt: now,
			DueAt:       now.AddDate(0, 0, 3),
			Urgency:     UrgencyUpcoming,
			Priority:    PriorityMedium,
			Type:        "accuracy",
		})
	}

	if len(recs) == 0 && in.TotalItems > 0 {
		recs = append(recs, Recommendation{
			ID:          "create-new-cards",
			Title:       "Add new practice cards",
			Description: "Everything looks on track. Consider adding new cards to stretch your knowledge.",
			SuggestedAt: now,
			DueAt:       now.AddDate(0, 0, 5),
			Urgency:     UrgencyUpcoming,
			Priority:    PriorityLow,
			Type:        "growth",
		})
	}

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}
