package bandit

import (
	"math/rand/v2"

	"github.com/abhisek/studymate/internal/domain"
)

// Bucket is a difficulty band. Its value is the arm index.
type Bucket int

const (
	BucketEasy Bucket = iota
	BucketMedium
	BucketHard
)

// NumBuckets is the number of difficulty buckets, and so the number of arms.
const NumBuckets = 3

// Bucket upper bounds (inclusive).
const (
	EasyMax   = 0.33
	MediumMax = 0.66
)

// String returns the display name of the bucket.
func (b Bucket) String() string {
	switch b {
	case BucketEasy:
		return "easy"
	case BucketMedium:
		return "medium"
	case BucketHard:
		return "hard"
	default:
		return "unknown"
	}
}

// BucketFor maps a difficulty in [0,1] to its bucket.
func BucketFor(difficulty float64) Bucket {
	switch {
	case difficulty <= EasyMax:
		return BucketEasy
	case difficulty <= MediumMax:
		return BucketMedium
	default:
		return BucketHard
	}
}

// ArmForDifficulty returns the arm index for a difficulty.
func ArmForDifficulty(difficulty float64) int {
	return int(BucketFor(difficulty))
}

// Reward converts an answer into a bandit reward in [0, 1].
func Reward(correct bool, confidence float64) float64 {
	if !correct {
		return 0
	}
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}
	return 0.5 + 0.5*confidence
}

// Picker chooses items using a Selector.
type Picker struct {
	Selector *Selector
	Rand     *rand.Rand
}

// NewPicker creates a picker with one arm per difficulty bucket.
// A nil rng uses the global source.
func NewPicker(rng *rand.Rand) *Picker {
	return &Picker{Selector: NewSelector(NumBuckets), Rand: rng}
}

// Pick selects an arm, filters items to that arm's bucket and returns one
// uniformly at random. When the bucket is empty the whole pool is used.
// ok is false only when items is empty.
func (p *Picker) Pick(items []domain.Item) (item domain.Item, arm int, ok bool) {
	if len(items) == 0 {
		return domain.Item{}, 0, false
	}

	arm = p.Selector.SelectArm()
	candidates := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if ArmForDifficulty(it.Difficulty) == arm {
			candidates = append(candidates, it)
		}
	}
	if len(candidates) == 0 {
		candidates = items
	}
	return candidates[p.intn(len(candidates))], arm, true
}

// Observe feeds an answer on item back into the selector.
func (p *Picker) Observe(item domain.Item, correct bool, confidence float64) error {
	return p.Selector.Update(ArmForDifficulty(item.Difficulty), Reward(correct, confidence))
}

func (p *Picker) intn(n int) int {
	if p.Rand != nil {
		return p.Rand.IntN(n)
	}
	return rand.IntN(n)
}
