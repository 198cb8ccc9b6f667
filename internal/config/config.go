// Package config loads studymate settings from an optional YAML file and
// STUDYMATE_* environment variables.
package config

import (
	"time"

	"github.com/abhisek/studymate/internal/llm"
)

// Config is the root application configuration.
type Config struct {
	Store        StoreConfig        `yaml:"store"`
	Log          LogConfig          `yaml:"log"`
	LLM          llm.Config         `yaml:"llm"`
	Evidence     EvidenceConfig     `yaml:"evidence"`
	Tutor        TutorConfig        `yaml:"tutor"`
	Gamification GamificationConfig `yaml:"gamification"`
}

// StoreConfig selects the persistence backend. An empty path means the
// default data directory.
type StoreConfig struct {
	Driver string      `yaml:"driver" env:"STUDYMATE_STORE_DRIVER" env-default:"sqlite"`
	Path   string      `yaml:"path"   env:"STUDYMATE_DB"`
	Redis  RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"STUDYMATE_REDIS_ADDR"     env-default:"localhost:6379"`
	Password string `yaml:"password" env:"STUDYMATE_REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"STUDYMATE_REDIS_DB"       env-default:"0"`
	Prefix   string `yaml:"prefix"   env:"STUDYMATE_REDIS_PREFIX"   env-default:"studymate"`
}

type LogConfig struct {
	Mode  string `yaml:"mode"  env:"STUDYMATE_LOG_MODE"  env-default:"prod"`
	Level string `yaml:"level" env:"STUDYMATE_LOG_LEVEL" env-default:"warn"`
}

// EvidenceConfig points at the evidence search service. Without a base URL
// lookups report the unavailable marker.
type EvidenceConfig struct {
	BaseURL string        `yaml:"base_url" env:"STUDYMATE_EVIDENCE_URL"`
	Timeout time.Duration `yaml:"timeout"  env:"STUDYMATE_EVIDENCE_TIMEOUT" env-default:"5s"`
}

// TutorConfig tunes AI feedback. BaseURL selects a remote explain service
// instead of a model provider.
type TutorConfig struct {
	BaseURL     string        `yaml:"base_url"    env:"STUDYMATE_TUTOR_URL"`
	Timeout     time.Duration `yaml:"timeout"     env:"STUDYMATE_TUTOR_TIMEOUT"     env-default:"20s"`
	MaxTokens   int           `yaml:"max_tokens"  env:"STUDYMATE_TUTOR_MAX_TOKENS"  env-default:"512"`
	Temperature float64       `yaml:"temperature" env:"STUDYMATE_TUTOR_TEMPERATURE" env-default:"0.4"`
	Diagnose    bool          `yaml:"diagnose"    env:"STUDYMATE_TUTOR_DIAGNOSE"    env-default:"true"`
}

type GamificationConfig struct {
	// CatalogPath is an optional YAML file replacing the built-in badges
	// and challenge templates.
	CatalogPath    string `yaml:"catalog_path"    env:"STUDYMATE_CATALOG"`
	BackdatePolicy string `yaml:"backdate_policy" env:"STUDYMATE_BACKDATE_POLICY" env-default:"ignore"`
	RetentionDays  int    `yaml:"retention_days"  env:"STUDYMATE_RETENTION_DAYS"  env-default:"21"`
}

// Retention returns the challenge retention window.
func (g GamificationConfig) Retention() time.Duration {
	return time.Duration(g.RetentionDays) * 24 * time.Hour
}
