package gamification

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/studymate/internal/domain"
)

// Catalog is the static set of challenge templates and badge definitions.
type Catalog struct {
	Challenges []domain.ChallengeTemplate `yaml:"challenges"`
	Badges     []domain.BadgeDefinition   `yaml:"badges"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Challenges: []domain.ChallengeTemplate{
			{
				ID:          "daily_cards",
				Title:       "Daily Review",
				Description: "Review 15 cards today.",
				Period:      domain.PeriodDaily,
				Metric:      domain.MetricCardsReviewed,
				Target:      15,
			},
			{
				ID:          "daily_streak",
				Title:       "Protect Your Streak",
				Description: "Study at least once today.",
				Period:      domain.PeriodDaily,
				Metric:      domain.MetricStreak,
				Target:      1,
			},
			{
				ID:          "weekly_sessions",
				Title:       "Weekly Rhythm",
				Description: "Study on 5 different days this week.",
				Period:      domain.PeriodWeekly,
				Metric:      domain.MetricStudySessions,
				Target:      5,
			},
			{
				ID:          "weekly_accuracy",
				Title:       "Sharp Week",
				Description: "Keep your accuracy at 80% or higher this week.",
				Period:      domain.PeriodWeekly,
				Metric:      domain.MetricAccuracy,
				Target:      80,
			},
		},
		Badges: []domain.BadgeDefinition{
			{
				ID:          "streak_starter",
				Title:       "Streak Starter",
				Description: "Study three days in a row.",
				Category:    "streak",
				Metric:      domain.MetricStreakDays,
				Threshold:   3,
			},
			{
				ID:          "streak_keeper",
				Title:       "Streak Keeper",
				Description: "Study seven days in a row.",
				Category:    "streak",
				Metric:      domain.MetricStreakDays,
				Threshold:   7,
			},
			{
				ID:          "streak_legend",
				Title:       "Streak Legend",
				Description: "Study thirty days in a row.",
				Category:    "streak",
				Metric:      domain.MetricStreakDays,
				Threshold:   30,
			},
			{
				ID:          "weekly_regular",
				Title:       "Weekly Regular",
				Description: "Study on five days within one week.",
				Category:    "consistency",
				Metric:      domain.MetricWeeklyStudySessions,
				Threshold:   5,
			},
			{
				ID:          "sharp_shooter",
				Title:       "Sharp Shooter",
				Description: "Reach 90% accuracy over a week.",
				Category:    "accuracy",
				Metric:      domain.MetricAccuracy,
				Threshold:   90,
			},
			{
				ID:          "challenge_champion",
				Title:       "Challenge Champion",
				Description: "Complete ten challenges.",
				Category:    "challenge",
				Metric:      domain.MetricChallengeCompletions,
				Threshold:   10,
			},
		},
	}
}

// LoadCatalog reads a YAML catalog file. An empty path returns the default.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

var (
	challengeMetrics = map[string]bool{
		domain.MetricCardsReviewed: true,
		domain.MetricStudySessions: true,
		domain.MetricAccuracy:      true,
		domain.MetricStreak:        true,
	}
	badgeMetrics = map[string]bool{
		domain.MetricStreakDays:           true,
		domain.MetricWeeklyStudySessions:  true,
		domain.MetricAccuracy:             true,
		domain.MetricChallengeCompletions: true,
	}
)

// Validate checks IDs are unique and every entry uses a known period and
// metric with a positive target or threshold.
func (c Catalog) Validate() error {
	ve := &domain.ValidationError{}

	seen := make(map[string]bool)
	for i, t := range c.Challenges {
		field := fmt.Sprintf("challenges[%d]", i)
		switch {
		case t.ID == "":
			ve.Add(field+".id", "required")
		case seen[t.ID]:
			ve.Add(field+".id", fmt.Sprintf("duplicate %q", t.ID))
		}
		seen[t.ID] = true
		if t.Period != domain.PeriodDaily && t.Period != domain.PeriodWeekly {
			ve.Add(field+".period", fmt.Sprintf("unknown period %q", t.Period))
		}
		if !challengeMetrics[t.Metric] {
			ve.Add(field+".metric", fmt.Sprintf("unknown metric %q", t.Metric))
		}
		if t.Target <= 0 {
			ve.Add(field+".target", "must be positive")
		}
	}

	seen = make(map[string]bool)
	for i, b := range c.Badges {
		field := fmt.Sprintf("badges[%d]", i)
		switch {
		case b.ID == "":
			ve.Add(field+".id", "required")
		case seen[b.ID]:
			ve.Add(field+".id", fmt.Sprintf("duplicate %q", b.ID))
		}
		seen[b.ID] = true
		if !badgeMetrics[b.Metric] {
			ve.Add(field+".metric", fmt.Sprintf("unknown metric %q", b.Metric))
		}
		if b.Threshold <= 0 {
			ve.Add(field+".threshold", "must be positive")
		}
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// Badge returns the definition with the given ID.
func (c Catalog) Badge(id string) (domain.BadgeDefinition, bool) {
	for _, b := range c.Badges {
		if b.ID == id {
			return b, true
		}
	}
	return domain.BadgeDefinition{}, false
}

// Challenge returns the template with the given ID.
func (c Catalog) Challenge(id string) (domain.ChallengeTemplate, bool) {
	for _, t := range c.Challenges {
		if t.ID == id {
			return t, true
		}
	}
	return domain.ChallengeTemplate{}, false
}
