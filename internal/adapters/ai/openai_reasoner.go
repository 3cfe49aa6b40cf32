package ai

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"botbi/internal/adapters/ratelimit"
	"botbi/pkg/errors"
)

var _ Reasoner = (*OpenAIReasoner)(nil)

// OpenAIReasoner talks to any OpenAI-compatible chat completions endpoint (OpenAI, Groq)
type OpenAIReasoner struct {
	client   openai.Client
	provider ProviderName
	model    string
	limiter  *ratelimit.Limiter
}

// NewOpenAIReasoner creates a reasoner. baseURL may be empty for api.openai.com.
func NewOpenAIReasoner(provider ProviderName, apiKey, baseURL, model string, limiter *ratelimit.Limiter) (*OpenAIReasoner, error) {
	if apiKey == "" {
		return nil, errors.Wrapf(errors.ErrNotConfigured, "%s API key is required", provider)
	}
	if model == "" {
		return nil, errors.Wrapf(errors.ErrNotConfigured, "%s model is required", provider)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIReasoner{
		client:   openai.NewClient(opts...),
		provider: provider,
		model:    model,
		limiter:  limiter,
	}, nil
}

// Name returns provider/model
func (r *OpenAIReasoner) Name() string {
	return r.provider.String() + "/" + r.model
}

// Complete sends a chat completion with a system and a user message
func (r *OpenAIReasoner) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", errors.NewUpstreamError(r.provider.String(), "chat completion", classify(ctx, err))
	}

	if len(resp.Choices) == 0 {
		return "", errors.NewUpstreamError(r.provider.String(), "chat completion", errors.ErrEmptyResponse)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.NewUpstreamError(r.provider.String(), "chat completion", errors.ErrEmptyResponse)
	}

	return content, nil
}

// classify maps transport failures onto the sentinel taxonomy
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return errors.Wrap(errors.ErrTimeout, err.Error())
	}
	return errors.Wrap(errors.ErrUnavailable, err.Error())
}
