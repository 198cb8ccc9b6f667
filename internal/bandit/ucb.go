// Package bandit implements UCB1 selection over difficulty buckets.
package bandit

import (
	"fmt"
	"math"
	"sync"
)

// ArmStats is a read-only view of one arm.
type ArmStats struct {
	Arm       int
	Pulls     int
	RewardSum float64
}

// Mean returns the empirical mean reward, or 0 for an unpulled arm.
func (a ArmStats) Mean() float64 {
	if a.Pulls == 0 {
		return 0
	}
	return a.RewardSum / float64(a.Pulls)
}

// Selector holds UCB1 arm statistics for the lifetime of a session.
// It is safe for concurrent use. State is never persisted.
type Selector struct {
	mu         sync.Mutex
	pulls      []int
	rewardSum  []float64
	totalPulls int
}

// NewSelector creates a selector with numArms arms.
func NewSelector(numArms int) *Selector {
	s := &Selector{}
	s.reset(numArms)
	return s
}

func (s *Selector) reset(numArms int) {
	if numArms < 1 {
		numArms = 1
	}
	s.pulls = make([]int, numArms)
	s.rewardSum = make([]float64, numArms)
	s.totalPulls = 0
}

// Reset clears all statistics. The arm count changes to numArms.
func (s *Selector) Reset(numArms int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(numArms)
}

// NumArms returns the number of arms.
func (s *Selector) NumArms() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pulls)
}

// SelectArm returns the first unpulled arm if any, otherwise the arm with the
// highest UCB1 score. Ties go to the lowest index.
func (s *Selector) SelectArm() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for arm, n := range s.pulls {
		if n == 0 {
			return arm
		}
	}

	best := 0
	bestScore := math.Inf(-1)
	logTotal := math.Log(float64(s.totalPulls))
	for arm, n := range s.pulls {
		mean := s.rewardSum[arm] / float64(n)
		score := mean + math.Sqrt(2*logTotal/float64(n))
		if score > bestScore {
			bestScore = score
			best = arm
		}
	}
	return best
}

// Update records one observed reward for arm.
func (s *Selector) Update(arm int, reward float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if arm < 0 || arm >= len(s.pulls) {
		return fmt.Errorf("bandit: arm %d out of range [0,%d)", arm, len(s.pulls))
	}
	s.pulls[arm]++
	s.rewardSum[arm] += reward
	s.totalPulls++
	return nil
}

// TotalPulls returns the number of updates recorded.
func (s *Selector) TotalPulls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPulls
}

// Stats returns a snapshot of every arm.
func (s *Selector) Stats() []ArmStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ArmStats, len(s.pulls))
	for i := range s.pulls {
		out[i] = ArmStats{Arm: i, Pulls: s.pulls[i], RewardSum: s.rewardSum[i]}
	}
	return out
}
