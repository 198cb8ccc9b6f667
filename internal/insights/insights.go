// Package insights builds the read-only study snapshot: totals, daily
// activity, gamification state and schedule recommendations.
package insights

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/abhisek/studymate/internal/datekey"
	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/gamification"
	"github.com/abhisek/studymate/internal/spacedrep"
)

// LookbackDays is the number of days covered by the daily metrics.
const LookbackDays = 14

// UpcomingWindow is how far ahead reviews count as upcoming.
const UpcomingWindow = 48 * time.Hour

type ItemSource interface {
	All(ctx context.Context) ([]domain.Item, error)
}

type AttemptSource interface {
	All(ctx context.Context) ([]domain.Attempt, error)
}

type TagSource interface {
	All(ctx context.Context) ([]domain.ErrorTag, error)
}

// Totals are the headline counters. CorrectRate is a rounded percentage.
type Totals struct {
	TotalItems    int `json:"totalItems"`
	TotalAttempts int `json:"totalAttempts"`
	CorrectRate   int `json:"correctRate"`
	TodayStudied  int `json:"todayStudied"`
	WeekStudied   int `json:"weekStudied"`
	DueForReview  int `json:"dueForReview"`
}

// DailyMetric is one day of activity. Accuracy is a percentage.
type DailyMetric struct {
	Date      string  `json:"date"`
	Studied   int     `json:"studied"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Accuracy  float64 `json:"accuracy"`
}

type TrendPoint struct {
	Date     string  `json:"date"`
	Accuracy float64 `json:"accuracy"`
}

// TagCount is how often an error tag was used on attempts.
type TagCount struct {
	Tag   domain.ErrorTag `json:"tag"`
	Count int             `json:"count"`
}

// Snapshot is everything the stats view shows.
type Snapshot struct {
	Totals          Totals                     `json:"totals"`
	DailyMetrics    []DailyMetric              `json:"dailyMetrics"`
	AccuracyTrend   []TrendPoint               `json:"accuracyTrend"`
	Streak          domain.StudyStreak         `json:"streak"`
	Badges          gamification.BadgeState    `json:"badges"`
	Challenges      []domain.ChallengeProgress `json:"challenges"`
	Templates       []domain.ChallengeTemplate `json:"challengeTemplates"`
	Recommendations []Recommendation           `json:"recommendations"`
	ErrorTags       []TagCount                 `json:"errorTags"`
}

// Service assembles snapshots.
type Service struct {
	items        ItemSource
	attempts     AttemptSource
	tags         TagSource
	gamification *gamification.Service
}

func NewService(items ItemSource, attempts AttemptSource, tags TagSource, g *gamification.Service) *Service {
	return &Service{items: items, attempts: attempts, tags: tags, gamification: g}
}

// Build computes the snapshot as of now.
func (s *Service) Build(ctx context.Context, now time.Time) (*Snapshot, error) {
	items, err := s.items.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	attempts, err := s.attempts.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	state, err := s.gamification.State(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := s.tags.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load error tags: %w", err)
	}

	due := spacedrep.FilterDue(items, now)
	upcoming := spacedrep.FilterUpcoming(items, now, UpcomingWindow)

	totals := Totals{
		TotalItems:    len(items),
		TotalAttempts: len(attempts),
		DueForReview:  len(due),
	}
	today := datekey.Key(now)
	weekAgo := now.AddDate(0, 0, -7)
	correct := 0
	for _, a := range attempts {
		if a.Correct {
			correct++
		}
		if datekey.Key(a.CreatedAt) == today {
			totals.TodayStudied++
		}
		if !a.CreatedAt.Before(weekAgo) {
			totals.WeekStudied++
		}
	}
	if len(attempts) > 0 {
		totals.CorrectRate = int(math.Round(float64(correct) / float64(len(attempts)) * 100))
	}

	daily := DailyMetrics(attempts, now)
	trend := make([]TrendPoint, len(daily))
	for i, m := range daily {
		trend[i] = TrendPoint{Date: m.Date, Accuracy: m.Accuracy}
	}

	return &Snapshot{
		Totals:        totals,
		DailyMetrics:  daily,
		AccuracyTrend: trend,
		Streak:        state.Streak,
		Badges:        state.Badges,
		Challenges:    state.Challenges,
		Templates:     state.Templates,
		Recommendations: Recommend(RecommendInput{
			TotalItems:    len(items),
			TotalAttempts: len(attempts),
			Due:           len(due),
			Upcoming:      len(upcoming),
			CorrectRate:   totals.CorrectRate,
		}, now),
		ErrorTags: TagHistogram(attempts, tags),
	}, nil
}

// DailyMetrics buckets attempts into the LookbackDays calendar days ending
// on now's day, oldest first. Days without attempts are included.
func DailyMetrics(attempts []domain.Attempt, now time.Time) []DailyMetric {
	byDay := make(map[string]*DailyMetric)
	for _, a := range attempts {
		key := datekey.Key(a.CreatedAt)
		m := byDay[key]
		if m == nil {
			m = &DailyMetric{Date: key}
			byDay[key] = m
		}
		m.Studied++
		if a.Correct {
			m.Correct++
		} else {
			m.Incorrect++
		}
	}

	out := make([]DailyMetric, 0, LookbackDays)
	for i := LookbackDays - 1; i >= 0; i-- {
		key := datekey.Key(now.AddDate(0, 0, -i))
		m := DailyMetric{Date: key}
		if got := byDay[key]; got != nil {
			m = *got
		}
		if m.Studied > 0 {
			m.Accuracy = float64(m.Correct) / float64(m.Studied) * 100
		}
		out = append(out, m)
	}
	return out
}

// TagHistogram counts how often each vocabulary tag was used on incorrect
// attempts, most used first. Unused tags are included with a zero count;
// IDs outside the vocabulary are ignored.
func TagHistogram(attempts []domain.Attempt, vocabulary []domain.ErrorTag) []TagCount {
	counts := make(map[string]int, len(vocabulary))
	for _, t := range vocabulary {
		counts[t.ID] = 0
	}
	for _, a := range attempts {
		if a.Correct {
			continue
		}
		for _, id := range a.ErrorTagIDs {
			if _, ok := counts[id]; ok {
				counts[id]++
			}
		}
	}

	out := make([]TagCount, 0, len(vocabulary))
	for _, t := range vocabulary {
		out = append(out, TagCount{Tag: t, Count: counts[t.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
