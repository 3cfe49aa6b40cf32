package ai

import (
	"context"
)

// Reasoner is a single-shot text completion capability.
// Implementations make exactly one upstream attempt per call.
type Reasoner interface {
	// Complete sends one system+user prompt pair and returns the raw reply text
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)

	// Name identifies the provider and model, used in logs and metrics
	Name() string
}

// ProviderName represents a reasoning backend identifier
type ProviderName string

const (
	ProviderGroq   ProviderName = "groq"
	ProviderOpenAI ProviderName = "openai"
	ProviderGemini ProviderName = "gemini"
)

// String returns the string representation of the provider name
func (p ProviderName) String() string {
	return string(p)
}

// Default models and endpoints per provider
const (
	DefaultGroqModel   = "llama-3.3-70b-versatile"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.0-flash"

	GroqBaseURL = "https://api.groq.com/openai/v1/"
)
