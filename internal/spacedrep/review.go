package spacedrep

import (
	"time"

	"github.com/abhisek/studymate/internal/domain"
)

// ReviewState is the scheduling portion of an item.
type ReviewState struct {
	EF           float64
	IntervalDays int
	Reps         int
	NextReview   *time.Time
}

// StateOf extracts the review state of an item.
func StateOf(it domain.Item) ReviewState {
	return ReviewState{
		EF:           it.EF,
		IntervalDays: it.IntervalDays,
		Reps:         it.Reps,
		NextReview:   it.NextReview,
	}
}

// ApplyTo writes the review state onto an item.
func (rs ReviewState) ApplyTo(it *domain.Item) {
	it.EF = rs.EF
	it.IntervalDays = rs.IntervalDays
	it.Reps = rs.Reps
	it.NextReview = rs.NextReview
}

// IsDue returns true if the item has a review date at or before now.
// Items that have never been scheduled are not due.
func (rs ReviewState) IsDue(now time.Time) bool {
	return rs.NextReview != nil && !now.Before(*rs.NextReview)
}

// OverdueDays returns how many days past due the item is. Returns 0 if not yet due.
func (rs ReviewState) OverdueDays(now time.Time) float64 {
	if !rs.IsDue(now) {
		return 0
	}
	return now.Sub(*rs.NextReview).Hours() / 24.0
}

// IsOverdue returns true once the item is past its review date by more than
// half of its interval.
func (rs ReviewState) IsOverdue(now time.Time) bool {
	if !rs.IsDue(now) {
		return false
	}
	graceHours := float64(rs.IntervalDays) * 0.5 * 24.0
	threshold := rs.NextReview.Add(time.Duration(graceHours * float64(time.Hour)))
	return now.After(threshold)
}

// ReviewStatus describes an item's review status for display.
type ReviewStatus string

const (
	ReviewNew       ReviewStatus = "new"
	ReviewScheduled ReviewStatus = "scheduled"
	ReviewDue       ReviewStatus = "due"
	ReviewOverdue   ReviewStatus = "overdue"
)

// Status returns the review status for display.
func (rs ReviewState) Status(now time.Time) ReviewStatus {
	switch {
	case rs.NextReview == nil:
		return ReviewNew
	case rs.IsOverdue(now):
		return ReviewOverdue
	case rs.IsDue(now):
		return ReviewDue
	default:
		return ReviewScheduled
	}
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due or never scheduled.
func (rs ReviewState) DaysUntilReview(now time.Time) int {
	if rs.NextReview == nil || rs.IsDue(now) {
		return 0
	}
	return int(rs.NextReview.Sub(now).Hours()/24.0) + 1
}
