package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/studymate/internal/gamification"
)

// isolate points every lookup away from the developer's real config.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("STUDYMATE_CONFIG", "")
	t.Setenv("STUDYMATE_LLM_PROVIDER", "none")
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("store.driver = %q, want sqlite", cfg.Store.Driver)
	}
	if cfg.Log.Mode != "prod" || cfg.Log.Level != "warn" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Evidence.Timeout != 5*time.Second {
		t.Errorf("evidence.timeout = %v", cfg.Evidence.Timeout)
	}
	if cfg.Tutor.MaxTokens != 512 {
		t.Errorf("tutor.max_tokens = %d", cfg.Tutor.MaxTokens)
	}
	if cfg.Gamification.Retention() != 21*24*time.Hour {
		t.Errorf("retention = %v", cfg.Gamification.Retention())
	}
	if cfg.LLM.Timeout != 30*time.Second {
		t.Errorf("llm.timeout = %v", cfg.LLM.Timeout)
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	isolate(t)
	path := writeYAML(t, `
store:
  driver: memory
log:
  mode: dev
  level: debug
gamification:
  backdate_policy: reset
  retention_days: 30
evidence:
  base_url: http://localhost:9000
`)
	t.Setenv("STUDYMATE_LOG_LEVEL", "info")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("store.driver = %q", cfg.Store.Driver)
	}
	if cfg.Log.Mode != "dev" {
		t.Errorf("log.mode = %q", cfg.Log.Mode)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("env should override yaml: log.level = %q", cfg.Log.Level)
	}
	if cfg.Evidence.BaseURL != "http://localhost:9000" {
		t.Errorf("evidence.base_url = %q", cfg.Evidence.BaseURL)
	}
	p, err := cfg.Gamification.Policy()
	if err != nil || p != gamification.BackdateReset {
		t.Errorf("Policy() = %q, %v", p, err)
	}
	if cfg.Gamification.RetentionDays != 30 {
		t.Errorf("retention_days = %d", cfg.Gamification.RetentionDays)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_EnvPath(t *testing.T) {
	isolate(t)
	path := writeYAML(t, "store:\n  driver: memory\n")
	t.Setenv("STUDYMATE_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("store.driver = %q", cfg.Store.Driver)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad driver", map[string]string{"STUDYMATE_STORE_DRIVER": "mongo"}, "store.driver"},
		{"bad log mode", map[string]string{"STUDYMATE_LOG_MODE": "loud"}, "log.mode"},
		{"bad policy", map[string]string{"STUDYMATE_BACKDATE_POLICY": "rewind"}, "backdate_policy"},
		{"bad retention", map[string]string{"STUDYMATE_RETENTION_DAYS": "0"}, "retention_days"},
		{"bad temperature", map[string]string{"STUDYMATE_TUTOR_TEMPERATURE": "1.5"}, "temperature"},
		{"provider without key", map[string]string{"STUDYMATE_LLM_PROVIDER": "anthropic"}, "STUDYMATE_ANTHROPIC_API_KEY"},
		{"unknown provider", map[string]string{"STUDYMATE_LLM_PROVIDER": "acme"}, "unknown LLM provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
