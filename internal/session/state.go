package session

import (
	"sync"
	"time"

	"github.com/abhisek/studymate/internal/bandit"
)

// BucketResult tracks performance within one difficulty bucket.
type BucketResult struct {
	Bucket    bandit.Bucket
	Attempted int
	Correct   int
}

// state is the in-memory record of one study session. It lives as long as
// the Session and is never persisted.
type state struct {
	mu sync.Mutex

	startTime          time.Time
	totalQuestions     int
	totalCorrect       int
	consecutiveCorrect int
	perBucket          [bandit.NumBuckets]BucketResult
}

func newState(start time.Time) *state {
	s := &state{startTime: start}
	for i := range s.perBucket {
		s.perBucket[i].Bucket = bandit.Bucket(i)
	}
	return s
}

func (s *state) record(difficulty float64, correct bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalQuestions++
	b := &s.perBucket[bandit.BucketFor(difficulty)]
	b.Attempted++
	if correct {
		s.totalCorrect++
		b.Correct++
		s.consecutiveCorrect++
	} else {
		s.consecutiveCorrect = 0
	}
}
