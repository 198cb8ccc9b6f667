package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/studymate/internal/logger"
)

// NewProvider builds the configured provider wrapped as
// caller → timeout → retry → logging → SDK. It returns ErrDisabled when the
// resolved provider is "none".
func NewProvider(ctx context.Context, cfg Config, log *logger.Logger) (Provider, error) {
	cfg = cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case ProviderNone:
		return nil, ErrDisabled
	case ProviderMock:
		base = NewMockProvider()
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, cfg.Provider, log)
	p = WithRetry(p, cfg.Retry)
	return WithTimeout(p, cfg.Timeout), nil
}
