package gamification

import (
	"math"
	"time"

	"github.com/abhisek/studymate/internal/datekey"
	"github.com/abhisek/studymate/internal/domain"
)

// weekAttempts returns the attempts made in the Monday to Sunday week of ref.
func weekAttempts(attempts []domain.Attempt, ref time.Time) []domain.Attempt {
	var out []domain.Attempt
	for _, a := range attempts {
		if datekey.InWeek(a.CreatedAt, ref) {
			out = append(out, a)
		}
	}
	return out
}

// Accuracy returns the percentage of correct attempts, 0 for none.
func Accuracy(attempts []domain.Attempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	correct := 0
	for _, a := range attempts {
		if a.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(attempts)) * 100
}

// WeeklyAccuracy returns the rounded accuracy percentage for ref's week.
func WeeklyAccuracy(attempts []domain.Attempt, ref time.Time) float64 {
	return math.Round(Accuracy(weekAttempts(attempts, ref)))
}

// WeeklySessions counts distinct study days within ref's week.
func WeeklySessions(attempts []domain.Attempt, ref time.Time) int {
	days := make(map[string]struct{})
	for _, a := range weekAttempts(attempts, ref) {
		days[datekey.Key(a.CreatedAt)] = struct{}{}
	}
	return len(days)
}

// ChallengeCompletions counts challenge rows that have been completed.
func ChallengeCompletions(rows []domain.ChallengeProgress) int {
	n := 0
	for _, r := range rows {
		if r.Completed() {
			n++
		}
	}
	return n
}

// ensureAttemptPresence appends a to attempts when the ledger read did not
// include it yet.
func ensureAttemptPresence(attempts []domain.Attempt, a domain.Attempt) []domain.Attempt {
	for _, existing := range attempts {
		if existing.ID == a.ID {
			return attempts
		}
	}
	out := make([]domain.Attempt, 0, len(attempts)+1)
	out = append(out, attempts...)
	return append(out, a)
}
