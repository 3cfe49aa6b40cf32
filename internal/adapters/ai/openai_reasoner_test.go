package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botbi/internal/adapters/ratelimit"
	"botbi/pkg/errors"
)

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "llama-3.3-70b-versatile",
		"choices": []map[string]interface{}{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]interface{}{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func TestOpenAIReasoner_Complete(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionBody("  2, 9, 1\n"))
	}))
	defer srv.Close()

	r, err := NewOpenAIReasoner(ProviderGroq, "test-key", srv.URL+"/", DefaultGroqModel, nil)
	require.NoError(t, err)

	out, err := r.Complete(context.Background(), "rank", "ids", 0)
	require.NoError(t, err)

	assert.Equal(t, "2, 9, 1", out)
	assert.Equal(t, "groq/llama-3.3-70b-versatile", r.Name())
	assert.Equal(t, DefaultGroqModel, captured["model"])
	assert.EqualValues(t, 0, captured["temperature"])

	msgs, ok := captured["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
	assert.Equal(t, "user", msgs[1].(map[string]interface{})["role"])
}

func TestOpenAIReasoner_ServerErrorIsNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
	}))
	defer srv.Close()

	r, err := NewOpenAIReasoner(ProviderOpenAI, "k", srv.URL+"/", DefaultOpenAIModel, nil)
	require.NoError(t, err)

	_, err = r.Complete(context.Background(), "s", "u", 0.3)
	require.Error(t, err)

	assert.True(t, errors.Is(err, errors.ErrUnavailable))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	var upstream *errors.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, "openai", upstream.Provider)
}

func TestOpenAIReasoner_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionBody("   "))
	}))
	defer srv.Close()

	r, err := NewOpenAIReasoner(ProviderGroq, "k", srv.URL+"/", DefaultGroqModel, nil)
	require.NoError(t, err)

	_, err = r.Complete(context.Background(), "s", "u", 0.3)
	assert.True(t, errors.Is(err, errors.ErrEmptyResponse))
}

func TestOpenAIReasoner_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	r, err := NewOpenAIReasoner(ProviderGroq, "k", srv.URL+"/", DefaultGroqModel, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = r.Complete(ctx, "s", "u", 0.3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTimeout))
}

func TestOpenAIReasoner_LimiterExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should have been throttled")
	}))
	defer srv.Close()

	limiter := ratelimit.NewLimiter("ai-test", 1)
	require.True(t, limiter.Allow())

	r, err := NewOpenAIReasoner(ProviderGroq, "k", srv.URL+"/", DefaultGroqModel, limiter)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = r.Complete(ctx, "s", "u", 0)
	assert.True(t, errors.Is(err, errors.ErrRateLimitExceeded))
}

func TestNewOpenAIReasoner_Validation(t *testing.T) {
	_, err := NewOpenAIReasoner(ProviderGroq, "", GroqBaseURL, DefaultGroqModel, nil)
	assert.True(t, errors.Is(err, errors.ErrNotConfigured))

	_, err = NewOpenAIReasoner(ProviderGroq, "k", GroqBaseURL, "", nil)
	assert.True(t, errors.Is(err, errors.ErrNotConfigured))
}
