package llm

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAuto       = "auto"
	ProviderNone       = "none"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// ErrDisabled is returned by NewProvider when no provider is configured.
var ErrDisabled = errors.New("llm: no provider configured")

// Config selects and configures the provider. Field tags are read by the
// application config loader.
type Config struct {
	// Provider is one of the Provider* names. "auto" probes the standard
	// API key variables; "none" disables model calls.
	Provider string `yaml:"provider" env:"STUDYMATE_LLM_PROVIDER" env-default:"auto"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration `yaml:"timeout" env:"STUDYMATE_LLM_TIMEOUT" env-default:"30s"`
}

type AnthropicConfig struct {
	APIKey  string `yaml:"api_key" env:"STUDYMATE_ANTHROPIC_API_KEY"`
	Model   string `yaml:"model" env:"STUDYMATE_ANTHROPIC_MODEL" env-default:"claude-haiku"`
	BaseURL string `yaml:"base_url" env:"STUDYMATE_ANTHROPIC_BASE_URL"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key" env:"STUDYMATE_OPENAI_API_KEY"`
	Model  string `yaml:"model" env:"STUDYMATE_OPENAI_MODEL" env-default:"gpt-4o-mini"`
	// BaseURL points at any OpenAI-compatible endpoint.
	BaseURL string `yaml:"base_url" env:"STUDYMATE_OPENAI_BASE_URL"`
}

type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key" env:"STUDYMATE_OPENROUTER_API_KEY"`
	Model   string `yaml:"model" env:"STUDYMATE_OPENROUTER_MODEL" env-default:"google/gemini-2.0-flash-001"`
	BaseURL string `yaml:"base_url" env:"STUDYMATE_OPENROUTER_BASE_URL" env-default:"https://openrouter.ai/api/v1"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"STUDYMATE_GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"STUDYMATE_GEMINI_MODEL" env-default:"gemini-flash"`
}

// RetryConfig drives the retry decorator's exponential backoff.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" env:"STUDYMATE_LLM_RETRY_ATTEMPTS" env-default:"3"`
	InitialWait time.Duration `yaml:"initial_wait" env:"STUDYMATE_LLM_RETRY_INITIAL_WAIT" env-default:"1s"`
	MaxWait     time.Duration `yaml:"max_wait" env:"STUDYMATE_LLM_RETRY_MAX_WAIT" env-default:"10s"`
	Multiplier  float64       `yaml:"multiplier" env:"STUDYMATE_LLM_RETRY_MULTIPLIER" env-default:"2"`
}

// DefaultConfig mirrors the env-default tags for callers that build a
// Config without the loader.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAuto,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// Resolve turns "auto" into a concrete provider by probing the vendor API
// key variables (Gemini, OpenAI, Anthropic, OpenRouter). Keys already set on
// the config win over the environment. Without any key the result is "none".
func (c Config) Resolve() Config {
	if c.Provider != ProviderAuto && c.Provider != "" {
		return c
	}
	switch {
	case c.Gemini.APIKey != "":
		c.Provider = ProviderGemini
	case c.OpenAI.APIKey != "":
		c.Provider = ProviderOpenAI
	case c.Anthropic.APIKey != "":
		c.Provider = ProviderAnthropic
	case c.OpenRouter.APIKey != "":
		c.Provider = ProviderOpenRouter
	case os.Getenv("GEMINI_API_KEY") != "":
		c.Provider = ProviderGemini
		c.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		c.Provider = ProviderOpenAI
		c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		c.Provider = ProviderAnthropic
		c.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case os.Getenv("OPENROUTER_API_KEY") != "":
		c.Provider = ProviderOpenRouter
		c.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	default:
		c.Provider = ProviderNone
	}
	return c
}

// Validate checks the selected provider has a key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("STUDYMATE_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("STUDYMATE_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("STUDYMATE_GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("STUDYMATE_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case ProviderAuto, ProviderNone, ProviderMock, "":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("llm retry attempts must not be negative")
	}
	return nil
}
