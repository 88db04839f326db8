package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_SendsRequestAndParsesResponse(t *testing.T) {
	var gotAuth string
	var gotReq chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  hola  "}},
			},
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15},
		})
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "sk-test", Model: "openai/gpt-4o-mini", BaseURL: server.URL})

	resp, err := c.Chat(context.Background(), ChatRequest{
		SystemPrompt: "eres un asistente",
		UserPrompt:   "dime hola",
	})
	require.NoError(t, err)

	assert.Equal(t, "hola", resp.Content) // trimmed
	assert.Equal(t, 15, resp.Usage.TotalTokens)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "openai/gpt-4o-mini", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
}

func TestChat_PerRequestOverrides(t *testing.T) {
	var gotReq chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "ok"}}},
		})
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL})

	temp := 0.9
	maxTokens := 128
	model := "anthropic/claude-3-haiku"
	_, err := c.Chat(context.Background(), ChatRequest{
		UserPrompt:  "hola",
		Temperature: &temp,
		MaxTokens:   &maxTokens,
		Model:       &model,
	})
	require.NoError(t, err)

	assert.Equal(t, "anthropic/claude-3-haiku", gotReq.Model)
	assert.Equal(t, 0.9, gotReq.Temperature)
	assert.Equal(t, 128, gotReq.MaxTokens)
}

func TestChat_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL})

	_, err := c.Chat(context.Background(), ChatRequest{UserPrompt: "hola"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestChat_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL})

	_, err := c.Chat(context.Background(), ChatRequest{UserPrompt: "hola"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty completion")
}

func TestChat_RequiresAPIKey(t *testing.T) {
	c := NewClient(Config{})
	assert.False(t, c.IsConfigured())

	_, err := c.Chat(context.Background(), ChatRequest{UserPrompt: "hola"})
	require.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{APIKey: "sk-test"})

	assert.True(t, c.IsConfigured())
	assert.Equal(t, DefaultModel, c.config.Model)
	assert.Equal(t, 0.2, c.config.Temperature)
	assert.Equal(t, 2048, c.config.MaxTokens)
	assert.Equal(t, defaultBaseURL, c.baseURL)
}
