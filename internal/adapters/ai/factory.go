package ai

import (
	"context"

	"botbi/internal/adapters/config"
	"botbi/internal/adapters/ratelimit"
	"botbi/pkg/errors"
)

// NewReasoner builds the reasoner selected by cfg.Provider.
// All calls share one limiter sized by AI_RATE_PER_MINUTE.
func NewReasoner(ctx context.Context, cfg config.AIConfig) (Reasoner, error) {
	limiter := ratelimit.NewLimiter("ai-"+cfg.Provider, cfg.RatePerMinute)

	switch ProviderName(cfg.Provider) {
	case ProviderGroq:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
		return NewOpenAIReasoner(ProviderGroq, cfg.GroqKey, baseURL, modelOr(cfg.Model, DefaultGroqModel), limiter)

	case ProviderOpenAI:
		return NewOpenAIReasoner(ProviderOpenAI, cfg.OpenAIKey, cfg.BaseURL, modelOr(cfg.Model, DefaultOpenAIModel), limiter)

	case ProviderGemini:
		return NewGeminiReasoner(ctx, cfg.GeminiKey, modelOr(cfg.Model, DefaultGeminiModel), limiter)

	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown AI provider %q", cfg.Provider)
	}
}

func modelOr(model, fallback string) string {
	if model != "" {
		return model
	}
	return fallback
}
