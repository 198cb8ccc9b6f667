package llm

import (
	"context"
	"time"

	"github.com/abhisek/studymate/internal/logger"
)

// LoggingProvider logs every request with latency, token usage and an
// estimated cost when the model is priced.
type LoggingProvider struct {
	inner    Provider
	provider string
	log      *logger.Logger
}

// WithLogging wraps p. A nil logger discards output.
func WithLogging(p Provider, providerName string, log *logger.Logger) Provider {
	return &LoggingProvider{
		inner:    p,
		provider: providerName,
		log:      logger.OrNop(log).With("component", "llm"),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	fields := []any{
		"provider", l.provider,
		"model", l.inner.ModelID(),
		"purpose", PurposeFrom(ctx),
		"latency_ms", time.Since(start).Milliseconds(),
	}
	if req.Schema != nil {
		fields = append(fields, "schema", req.Schema.Name)
	}
	if resp != nil {
		fields = append(fields,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
		)
		if cost := LookupCost(resp.Model); cost != nil {
			fields = append(fields, "cost_usd", cost.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens))
		}
	}

	if err != nil {
		l.log.Warn("llm request failed", append(fields, "error", err)...)
		return resp, err
	}
	l.log.Debug("llm request", fields...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
