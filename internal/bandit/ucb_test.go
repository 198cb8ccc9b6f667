package bandit

import (
	"sync"
	"testing"
)

func TestSelectArm_ForcedExplorationOrder(t *testing.T) {
	s := NewSelector(3)
	rewards := []float64{0, 1, 0.25}
	for want := 0; want < 3; want++ {
		got := s.SelectArm()
		if got != want {
			t.Fatalf("call %d: SelectArm() = %d, want %d", want, got, want)
		}
		if err := s.Update(got, rewards[want]); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSelectArm_PrefersHigherMean(t *testing.T) {
	s := NewSelector(3)
	for i := 0; i < 500; i++ {
		_ = s.Update(0, 0.2)
		_ = s.Update(1, 0.9)
		_ = s.Update(2, 0.5)
	}
	if got := s.SelectArm(); got != 1 {
		t.Errorf("SelectArm() = %d, want 1", got)
	}
}

func TestSelectArm_TieGoesToLowestIndex(t *testing.T) {
	s := NewSelector(3)
	for arm := 0; arm < 3; arm++ {
		_ = s.Update(arm, 0.5)
	}
	if got := s.SelectArm(); got != 0 {
		t.Errorf("SelectArm() = %d, want 0", got)
	}
}

func TestSelectArm_ExploresUnderpulledArm(t *testing.T) {
	s := NewSelector(2)
	for i := 0; i < 100; i++ {
		_ = s.Update(0, 0.6)
	}
	_ = s.Update(1, 0.5)
	// arm 1: 0.5 + sqrt(2 ln 101 / 1) ~ 3.54 beats arm 0: 0.6 + ~0.30
	if got := s.SelectArm(); got != 1 {
		t.Errorf("SelectArm() = %d, want 1", got)
	}
}

func TestUpdate_OutOfRange(t *testing.T) {
	s := NewSelector(3)
	if err := s.Update(3, 1); err == nil {
		t.Error("expected error for arm 3")
	}
	if err := s.Update(-1, 1); err == nil {
		t.Error("expected error for arm -1")
	}
	if s.TotalPulls() != 0 {
		t.Errorf("TotalPulls = %d, want 0", s.TotalPulls())
	}
}

func TestReset(t *testing.T) {
	s := NewSelector(3)
	_ = s.Update(0, 1)
	_ = s.Update(1, 1)
	s.Reset(4)

	if s.NumArms() != 4 {
		t.Errorf("NumArms = %d, want 4", s.NumArms())
	}
	if s.TotalPulls() != 0 {
		t.Errorf("TotalPulls = %d, want 0", s.TotalPulls())
	}
	if got := s.SelectArm(); got != 0 {
		t.Errorf("SelectArm after reset = %d, want 0", got)
	}
}

func TestStats(t *testing.T) {
	s := NewSelector(2)
	_ = s.Update(1, 0.5)
	_ = s.Update(1, 1.0)

	stats := s.Stats()
	if stats[0].Pulls != 0 || stats[0].Mean() != 0 {
		t.Errorf("arm 0 = %+v, want zero", stats[0])
	}
	if stats[1].Pulls != 2 || stats[1].Mean() != 0.75 {
		t.Errorf("arm 1 = %+v (mean %v), want 2 pulls mean 0.75", stats[1], stats[1].Mean())
	}
}

func TestSelector_ConcurrentUpdates(t *testing.T) {
	s := NewSelector(3)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Update(i%3, 1)
			_ = s.SelectArm()
		}(i)
	}
	wg.Wait()
	if s.TotalPulls() != 50 {
		t.Errorf("TotalPulls = %d, want 50", s.TotalPulls())
	}
}
