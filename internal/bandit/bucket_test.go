package bandit

import (
	"math/rand/v2"
	"testing"

	"github.com/abhisek/studymate/internal/domain"
)

func TestBucketFor(t *testing.T) {
	tests := []struct {
		d    float64
		want Bucket
	}{
		{0, BucketEasy},
		{0.33, BucketEasy},
		{0.331, BucketMedium},
		{0.66, BucketMedium},
		{0.67, BucketHard},
		{1, BucketHard},
	}
	for _, tt := range tests {
		if got := BucketFor(tt.d); got != tt.want {
			t.Errorf("BucketFor(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestReward(t *testing.T) {
	tests := []struct {
		correct bool
		conf    float64
		want    float64
	}{
		{false, 1, 0},
		{true, 0, 0.5},
		{true, 1, 1},
		{true, 0.5, 0.75},
		{true, 2, 1},
	}
	for _, tt := range tests {
		if got := Reward(tt.correct, tt.conf); got != tt.want {
			t.Errorf("Reward(%v, %v) = %v, want %v", tt.correct, tt.conf, got, tt.want)
		}
	}
}

func TestPick_EmptyPool(t *testing.T) {
	p := NewPicker(rand.New(rand.NewPCG(1, 2)))
	if _, _, ok := p.Pick(nil); ok {
		t.Error("expected no item from empty pool")
	}
}

func TestPick_FiltersByBucket(t *testing.T) {
	items := []domain.Item{
		{ID: "easy1", Difficulty: 0.1},
		{ID: "easy2", Difficulty: 0.3},
		{ID: "hard", Difficulty: 0.9},
	}
	p := NewPicker(rand.New(rand.NewPCG(1, 2)))

	// First pick explores arm 0 (easy).
	it, arm, ok := p.Pick(items)
	if !ok || arm != 0 {
		t.Fatalf("Pick = %v arm %d ok %v, want arm 0", it.ID, arm, ok)
	}
	if BucketFor(it.Difficulty) != BucketEasy {
		t.Errorf("picked %s from wrong bucket", it.ID)
	}
}

func TestPick_FallsBackToFullPool(t *testing.T) {
	items := []domain.Item{{ID: "hard", Difficulty: 0.9}}
	p := NewPicker(rand.New(rand.NewPCG(1, 2)))

	// Arm 0 (easy) has no items; the whole pool is used.
	it, arm, ok := p.Pick(items)
	if !ok || arm != 0 || it.ID != "hard" {
		t.Errorf("Pick = %s arm %d ok %v, want hard from arm 0", it.ID, arm, ok)
	}
}

func TestPicker_Observe(t *testing.T) {
	p := NewPicker(nil)
	if err := p.Observe(domain.Item{Difficulty: 0.5}, true, 1); err != nil {
		t.Fatal(err)
	}
	stats := p.Selector.Stats()
	if stats[1].Pulls != 1 || stats[1].RewardSum != 1 {
		t.Errorf("medium arm = %+v, want 1 pull reward 1", stats[1])
	}
}
