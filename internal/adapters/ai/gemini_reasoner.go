package ai

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"botbi/internal/adapters/ratelimit"
	"botbi/pkg/errors"
)

var _ Reasoner = (*GeminiReasoner)(nil)

// GeminiReasoner calls Gemini through the Gen AI SDK
type GeminiReasoner struct {
	client  *genai.Client
	model   string
	limiter *ratelimit.Limiter
}

// NewGeminiReasoner creates a Gemini API backed reasoner
func NewGeminiReasoner(ctx context.Context, apiKey, model string, limiter *ratelimit.Limiter) (*GeminiReasoner, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrNotConfigured, "gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}

	return &GeminiReasoner{client: client, model: model, limiter: limiter}, nil
}

// Name returns provider/model
func (r *GeminiReasoner) Name() string {
	return ProviderGemini.String() + "/" + r.model
}

// Complete generates content with the system prompt as system instruction
func (r *GeminiReasoner) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(userPrompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(float32(temperature)),
	})
	if err != nil {
		return "", errors.NewUpstreamError(ProviderGemini.String(), "generate content", classify(ctx, err))
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.NewUpstreamError(ProviderGemini.String(), "generate content", errors.ErrEmptyResponse)
	}

	return text, nil
}
