package spacedrep

import (
	"math"
	"time"
)

const (
	// DefaultEasiness is the easiness factor of an item that has never been reviewed.
	DefaultEasiness = 2.5

	// MinEasiness is the floor for the easiness factor.
	MinEasiness = 1.3

	// MaxIntervalDays caps the review interval at roughly ten years.
	MaxIntervalDays = 3650

	// LatencyCeilingMs is the response time at which the latency penalty saturates.
	LatencyCeilingMs = 3000

	// SecondIntervalDays is the interval after the second consecutive correct answer.
	SecondIntervalDays = 6
)

// Answer is the observed outcome of one attempt on an item.
type Answer struct {
	Correct    bool
	Confidence float64
	LatencyMs  int64
}

// Quality scores an answer in [0, 1]. Incorrect answers score 0; correct
// answers are scaled up by confidence and down by slow responses.
func Quality(ans Answer) float64 {
	if !ans.Correct {
		return 0
	}
	conf := clamp01(ans.Confidence)
	latency := float64(ans.LatencyMs)
	if latency < 0 {
		latency = 0
	}
	penalty := 0.2 * math.Min(1, latency/LatencyCeilingMs)
	return (0.6 + 0.4*conf) * (1 - penalty)
}

// Compute returns the review state that follows prev after ans, observed at now.
// It has no side effects.
func Compute(prev ReviewState, ans Answer, now time.Time) ReviewState {
	ef := prev.EF
	if ef == 0 {
		ef = DefaultEasiness
	}
	interval := prev.IntervalDays
	if interval < 0 {
		interval = 0
	}

	miss := 1 - Quality(ans)
	nextEF := math.Max(MinEasiness, ef+(0.1-miss*(0.08+miss*0.02)))

	reps := 0
	if ans.Correct {
		reps = prev.Reps + 1
	}

	var nextInterval int
	switch {
	case !ans.Correct || reps <= 1:
		nextInterval = 1
	case reps == 2:
		nextInterval = SecondIntervalDays
	default:
		nextInterval = int(math.Round(float64(interval) * nextEF))
	}
	if nextInterval > MaxIntervalDays {
		nextInterval = MaxIntervalDays
	}
	if nextInterval < 1 {
		nextInterval = 1
	}

	next := now.AddDate(0, 0, nextInterval)
	return ReviewState{
		EF:           nextEF,
		IntervalDays: nextInterval,
		Reps:         reps,
		NextReview:   &next,
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
