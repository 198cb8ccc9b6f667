package gamification

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/abhisek/studymate/internal/datekey"
	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/janitor"
)

// DefaultRetention is how long challenge rows are kept after their period starts.
const DefaultRetention = 21 * 24 * time.Hour

// ChallengeRepo persists challenge progress rows.
type ChallengeRepo interface {
	All(ctx context.Context) ([]domain.ChallengeProgress, error)
	Get(ctx context.Context, id string) (domain.ChallengeProgress, bool, error)
	Save(ctx context.Context, c domain.ChallengeProgress) error
	Delete(ctx context.Context, id string) error
}

// ChallengeResult is the outcome of applying one attempt.
type ChallengeResult struct {
	All      []domain.ChallengeProgress
	Affected []domain.ChallengeProgress
}

// ChallengeEngine advances challenge progress for each attempt.
type ChallengeEngine struct {
	repo      ChallengeRepo
	templates []domain.ChallengeTemplate
	cleanup   janitor.Scheduler
	retention time.Duration
	locks     *keyedMutex
}

// NewChallengeEngine creates an engine over the given templates. Stale rows
// are pruned through cleanup; a nil cleanup disables pruning.
func NewChallengeEngine(repo ChallengeRepo, templates []domain.ChallengeTemplate, cleanup janitor.Scheduler, retention time.Duration) *ChallengeEngine {
	return newChallengeEngine(repo, templates, cleanup, retention, newKeyedMutex())
}

func newChallengeEngine(repo ChallengeRepo, templates []domain.ChallengeTemplate, cleanup janitor.Scheduler, retention time.Duration, locks *keyedMutex) *ChallengeEngine {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &ChallengeEngine{
		repo:      repo,
		templates: templates,
		cleanup:   cleanup,
		retention: retention,
		locks:     locks,
	}
}

// PeriodKey returns the row period key for a template at ref.
func PeriodKey(period domain.Period, ref time.Time) string {
	if period == domain.PeriodWeekly {
		return datekey.WeekStartKey(ref)
	}
	return datekey.Key(ref)
}

// ProgressID returns the row identifier for a template occurrence.
func ProgressID(templateID, periodKey string) string {
	return templateID + "_" + periodKey
}

// Apply advances every template's row for the period containing ref.
// attempts is the ledger; attempt is added to it if missing. now stamps
// completions and anchors pruning.
func (e *ChallengeEngine) Apply(ctx context.Context, attempt domain.Attempt, attempts []domain.Attempt, ref, now time.Time) (ChallengeResult, error) {
	attempts = ensureAttemptPresence(attempts, attempt)
	dayKey := datekey.Key(ref)

	affected := make([]domain.ChallengeProgress, 0, len(e.templates))
	for _, tpl := range e.templates {
		row, err := e.applyTemplate(ctx, tpl, attempts, dayKey, ref, now)
		if err != nil {
			return ChallengeResult{}, err
		}
		affected = append(affected, row)
	}

	stored, err := e.repo.All(ctx)
	if err != nil {
		return ChallengeResult{}, fmt.Errorf("list challenges: %w", err)
	}
	all := mergeRows(stored, affected)

	e.schedulePrune(all, now)
	return ChallengeResult{All: all, Affected: affected}, nil
}

func (e *ChallengeEngine) applyTemplate(ctx context.Context, tpl domain.ChallengeTemplate, attempts []domain.Attempt, dayKey string, ref, now time.Time) (domain.ChallengeProgress, error) {
	periodKey := PeriodKey(tpl.Period, ref)
	id := ProgressID(tpl.ID, periodKey)

	unlock := e.locks.Lock("challenge:" + id)
	defer unlock()

	row, ok, err := e.repo.Get(ctx, id)
	if err != nil {
		return domain.ChallengeProgress{}, fmt.Errorf("load challenge %s: %w", id, err)
	}
	if !ok {
		row = domain.ChallengeProgress{
			ID:          id,
			ChallengeID: tpl.ID,
			DateKey:     periodKey,
			Period:      tpl.Period,
			Target:      tpl.Target,
		}
	}
	if row.Metadata == nil {
		row.Metadata = make(map[string]any)
	}

	switch tpl.Metric {
	case domain.MetricCardsReviewed:
		row.Progress++
	case domain.MetricStudySessions:
		days := metadataDays(row.Metadata)
		days[dayKey] = struct{}{}
		row.Metadata["days"] = sortedKeys(days)
		row.Progress = float64(len(days))
	case domain.MetricAccuracy:
		row.Progress = WeeklyAccuracy(attempts, ref)
	case domain.MetricStreak:
		row.Progress = math.Max(row.Progress, 1)
	}

	if row.Progress >= row.Target && row.CompletedAt == nil {
		completed := now
		row.CompletedAt = &completed
	}

	if err := e.repo.Save(ctx, row); err != nil {
		return domain.ChallengeProgress{}, fmt.Errorf("save challenge %s: %w", id, err)
	}
	return row, nil
}

func (e *ChallengeEngine) schedulePrune(rows []domain.ChallengeProgress, now time.Time) {
	if e.cleanup == nil {
		return
	}
	stale := StaleRows(rows, now, e.retention)
	if len(stale) == 0 {
		return
	}
	e.cleanup.Schedule(janitor.Task{
		Name: "prune-challenges",
		Run: func(ctx context.Context) error {
			for _, id := range stale {
				if err := e.repo.Delete(ctx, id); err != nil {
					return fmt.Errorf("delete challenge %s: %w", id, err)
				}
			}
			return nil
		},
	})
}

// StaleRows returns the IDs of rows whose period started more than
// retention before now. Rows with unparseable keys are kept.
func StaleRows(rows []domain.ChallengeProgress, now time.Time, retention time.Duration) []string {
	threshold := now.Add(-retention)
	var ids []string
	for _, r := range rows {
		anchor, err := datekey.Parse(r.DateKey)
		if err != nil {
			continue
		}
		if anchor.Before(threshold) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// metadataDays reads the "days" set, accepting both freshly built slices and
// values decoded from JSON.
func metadataDays(meta map[string]any) map[string]struct{} {
	days := make(map[string]struct{})
	switch v := meta["days"].(type) {
	case []string:
		for _, d := range v {
			days[d] = struct{}{}
		}
	case []any:
		for _, d := range v {
			if s, ok := d.(string); ok {
				days[s] = struct{}{}
			}
		}
	}
	return days
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// mergeRows overlays updated rows on the stored set, keeping stored order and
// appending rows that were not stored yet.
func mergeRows(stored, updated []domain.ChallengeProgress) []domain.ChallengeProgress {
	byID := make(map[string]domain.ChallengeProgress, len(updated))
	for _, r := range updated {
		byID[r.ID] = r
	}
	out := make([]domain.ChallengeProgress, 0, len(stored)+len(updated))
	seen := make(map[string]bool, len(stored))
	for _, r := range stored {
		if u, ok := byID[r.ID]; ok {
			r = u
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	for _, r := range updated {
		if !seen[r.ID] {
			out = append(out, r)
		}
	}
	return out
}
