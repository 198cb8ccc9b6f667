package config

import (
	"fmt"

	"github.com/abhisek/studymate/internal/gamification"
	"github.com/abhisek/studymate/internal/store"
)

// Validate checks enums and ranges. Load calls it.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case store.DriverSQLite, store.DriverRedis, store.DriverMemory:
	default:
		return fmt.Errorf("store.driver must be sqlite, redis or memory (got %q)", c.Store.Driver)
	}
	if c.Store.Driver == store.DriverRedis && c.Store.Redis.Addr == "" {
		return fmt.Errorf("store.redis.addr is required for the redis driver")
	}

	switch c.Log.Mode {
	case "dev", "prod":
	default:
		return fmt.Errorf("log.mode must be dev or prod (got %q)", c.Log.Mode)
	}

	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}

	if c.Tutor.MaxTokens <= 0 {
		return fmt.Errorf("tutor.max_tokens must be > 0 (got %d)", c.Tutor.MaxTokens)
	}
	if c.Tutor.Temperature < 0 || c.Tutor.Temperature > 1 {
		return fmt.Errorf("tutor.temperature must be in [0, 1] (got %v)", c.Tutor.Temperature)
	}

	if _, err := c.Gamification.Policy(); err != nil {
		return err
	}
	if c.Gamification.RetentionDays < 1 {
		return fmt.Errorf("gamification.retention_days must be >= 1 (got %d)", c.Gamification.RetentionDays)
	}
	return nil
}

// Policy parses the backdate policy name.
func (g GamificationConfig) Policy() (gamification.BackdatePolicy, error) {
	switch p := gamification.BackdatePolicy(g.BackdatePolicy); p {
	case "":
		return gamification.BackdateIgnore, nil
	case gamification.BackdateIgnore, gamification.BackdateReset:
		return p, nil
	default:
		return "", fmt.Errorf("gamification.backdate_policy must be ignore or reset (got %q)", g.BackdatePolicy)
	}
}
