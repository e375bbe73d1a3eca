package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmerrors "github.com/Pratyay-Mondal/tinder-practice-nlp/internal/errors"
)

func completionResponse(content string) map[string]any {
	return map[string]any{
		"model": "test-model",
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
}

func TestChatParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body["model"])

		require.NoError(t, json.NewEncoder(w).Encode(completionResponse("Sounds fun! ")))
	}))
	defer server.Close()

	client := NewOpenAIClient(Config{
		Model:   "test-model",
		APIKey:  "test-key",
		BaseURL: server.URL,
	}, nil)

	resp, err := client.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sounds fun!", resp.Content)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
}

func TestChatRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(completionResponse("second try")))
	}))
	defer server.Close()

	client := NewOpenAIClient(Config{
		Model:      "test-model",
		BaseURL:    server.URL,
		MaxRetries: 2,
	}, nil)

	resp, err := client.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "second try", resp.Content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestChatPermanentStatusDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewOpenAIClient(Config{
		Model:      "test-model",
		BaseURL:    server.URL,
		MaxRetries: 3,
	}, nil)

	_, err := client.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)
	assert.False(t, llmerrors.IsTransient(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewClientFactory(t *testing.T) {
	client, err := NewClient(Config{Provider: "mock", Model: "m"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "m", client.Model())

	_, err = NewClient(Config{Provider: "llamacpp"}, nil)
	assert.Error(t, err)
}

func TestMockClientCyclesReplies(t *testing.T) {
	mock := &MockClient{Replies: []string{"a", "b"}}
	req := ChatRequest{Messages: []Message{{Role: "user", Content: "x"}}}

	first, err := mock.Chat(context.Background(), req)
	require.NoError(t, err)
	second, err := mock.Chat(context.Background(), req)
	require.NoError(t, err)
	third, err := mock.Chat(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "a"}, []string{first.Content, second.Content, third.Content})
	assert.Len(t, mock.Requests, 3)
}
