package gamification

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studymate/internal/domain"
)

func TestDefaultCatalog_Valid(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())
	assert.Len(t, c.Challenges, 4)
	assert.Len(t, c.Badges, 6)

	b, ok := c.Badge("streak_starter")
	require.True(t, ok)
	assert.Equal(t, 3.0, b.Threshold)

	_, ok = c.Challenge("nope")
	assert.False(t, ok)
}

const customCatalog = `
challenges:
  - id: daily_five
    title: Quick Five
    period: daily
    metric: cardsReviewed
    target: 5
badges:
  - id: first_week
    title: First Week
    metric: streakDays
    threshold: 7
`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(customCatalog))
	require.NoError(t, err)
	require.Len(t, c.Challenges, 1)
	assert.Equal(t, domain.PeriodDaily, c.Challenges[0].Period)
	assert.Equal(t, 5.0, c.Challenges[0].Target)
	require.Len(t, c.Badges, 1)
	assert.Equal(t, domain.MetricStreakDays, c.Badges[0].Metric)
}

func TestParseCatalog_Invalid(t *testing.T) {
	data := `
challenges:
  - id: dup
    period: monthly
    metric: cardsReviewed
    target: 1
  - id: dup
    period: daily
    metric: vibes
    target: 0
badges:
  - id: ""
    metric: streakDays
    threshold: 3
`
	_, err := ParseCatalog([]byte(data))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := make(map[string]bool)
	for _, fe := range ve.Errors {
		fields[fe.Field] = true
	}
	for _, f := range []string{
		"challenges[0].period",
		"challenges[1].id",
		"challenges[1].metric",
		"challenges[1].target",
		"badges[0].id",
	} {
		assert.True(t, fields[f], "missing error for %s", f)
	}
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), c)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customCatalog), 0o644))
	c, err = LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "daily_five", c.Challenges[0].ID)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
