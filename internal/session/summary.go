package session

import "time"

// Summary holds the end-of-session numbers.
type Summary struct {
	SessionID          string
	Duration           time.Duration
	TotalQuestions     int
	TotalCorrect       int
	Accuracy           float64
	ConsecutiveCorrect int
	Buckets            []BucketResult
}

// Summary reports the session so far. Buckets with no attempts are omitted.
func (s *Session) Summary(now time.Time) *Summary {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	var buckets []BucketResult
	for _, b := range st.perBucket {
		if b.Attempted > 0 {
			buckets = append(buckets, b)
		}
	}

	var accuracy float64
	if st.totalQuestions > 0 {
		accuracy = float64(st.totalCorrect) / float64(st.totalQuestions)
	}

	return &Summary{
		SessionID:          s.id,
		Duration:           now.Sub(st.startTime),
		TotalQuestions:     st.totalQuestions,
		TotalCorrect:       st.totalCorrect,
		Accuracy:           accuracy,
		ConsecutiveCorrect: st.consecutiveCorrect,
		Buckets:            buckets,
	}
}
