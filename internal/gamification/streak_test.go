package gamification

import (
	"context"
	"sync"
	"testing"

	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/store"
)

func TestNextStreak(t *testing.T) {
	tests := []struct {
		name   string
		prev   domain.StudyStreak
		key    string
		policy BackdatePolicy
		want   domain.StudyStreak
	}{
		{
			name: "first study day",
			prev: domain.DefaultStreak(),
			key:  "2025-01-06",
			want: domain.StudyStreak{ID: "global", Current: 1, Longest: 1, LastStudyDate: "2025-01-06"},
		},
		{
			name: "consecutive day extends",
			prev: domain.StudyStreak{ID: "global", Current: 2, Longest: 2, LastStudyDate: "2025-01-06"},
			key:  "2025-01-07",
			want: domain.StudyStreak{ID: "global", Current: 3, Longest: 3, LastStudyDate: "2025-01-07"},
		},
		{
			name: "same day unchanged",
			prev: domain.StudyStreak{ID: "global", Current: 2, Longest: 4, LastStudyDate: "2025-01-07"},
			key:  "2025-01-07",
			want: domain.StudyStreak{ID: "global", Current: 2, Longest: 4, LastStudyDate: "2025-01-07"},
		},
		{
			name: "same day keeps zero counter",
			prev: domain.StudyStreak{ID: "global", Current: 0, Longest: 2, LastStudyDate: "2025-01-07"},
			key:  "2025-01-07",
			want: domain.StudyStreak{ID: "global", Current: 0, Longest: 2, LastStudyDate: "2025-01-07"},
		},
		{
			name: "gap resets current keeps longest",
			prev: domain.StudyStreak{ID: "global", Current: 5, Longest: 5, LastStudyDate: "2025-01-07"},
			key:  "2025-01-10",
			want: domain.StudyStreak{ID: "global", Current: 1, Longest: 5, LastStudyDate: "2025-01-10"},
		},
		{
			name:   "backdated ignored",
			prev:   domain.StudyStreak{ID: "global", Current: 3, Longest: 3, LastStudyDate: "2025-01-07"},
			key:    "2025-01-05",
			policy: BackdateIgnore,
			want:   domain.StudyStreak{ID: "global", Current: 3, Longest: 3, LastStudyDate: "2025-01-07"},
		},
		{
			name:   "backdated reset",
			prev:   domain.StudyStreak{ID: "global", Current: 3, Longest: 3, LastStudyDate: "2025-01-07"},
			key:    "2025-01-05",
			policy: BackdateReset,
			want:   domain.StudyStreak{ID: "global", Current: 1, Longest: 3, LastStudyDate: "2025-01-05"},
		},
		{
			name: "malformed last date resets",
			prev: domain.StudyStreak{ID: "global", Current: 9, Longest: 9, LastStudyDate: "yesterday"},
			key:  "2025-01-07",
			want: domain.StudyStreak{ID: "global", Current: 1, Longest: 9, LastStudyDate: "2025-01-07"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStreak(tt.prev, tt.key, tt.policy)
			if got != tt.want {
				t.Errorf("NextStreak() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStreakTracker_ThreeConsecutiveDays(t *testing.T) {
	ctx := context.Background()
	repo := store.NewStreaks(store.NewMemory())
	tracker := NewStreakTracker(repo, "")

	for _, key := range []string{"2025-01-06", "2025-01-07", "2025-01-08"} {
		if _, err := tracker.RecordStudyDay(ctx, key); err != nil {
			t.Fatalf("RecordStudyDay(%s): %v", key, err)
		}
	}

	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Current != 3 || got.Longest != 3 || got.LastStudyDate != "2025-01-08" {
		t.Errorf("streak = %+v, want 3/3 on 2025-01-08", got)
	}
}

func TestStreakTracker_RejectsBadKey(t *testing.T) {
	tracker := NewStreakTracker(store.NewStreaks(store.NewMemory()), BackdateIgnore)
	if _, err := tracker.RecordStudyDay(context.Background(), "06/01/2025"); err == nil {
		t.Error("expected error for malformed date key")
	}
}

func TestStreakTracker_ConcurrentSameDay(t *testing.T) {
	ctx := context.Background()
	repo := store.NewStreaks(store.NewMemory())
	tracker := NewStreakTracker(repo, BackdateIgnore)
	if _, err := tracker.RecordStudyDay(ctx, "2025-01-06"); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := tracker.RecordStudyDay(ctx, "2025-01-07"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, _ := repo.Get(ctx)
	if got.Current != 2 {
		t.Errorf("current = %d, want 2", got.Current)
	}
}
