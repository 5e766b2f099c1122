package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mohamedkhairy/stock-analyst/internal/config"
	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(config.LLMConfig{Model: "m"})
	assert.ErrorIs(t, err, models.ErrGeneratorDisabled)
}

func TestOpenAIClient_Generate(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "x",
			"object": "chat.completion",
			"model": "gemini-2.0-flash",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"action\":\"Buy\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(config.LLMConfig{
		APIKey:  "test-key",
		BaseURL: server.URL + "/",
		Model:   "gemini-2.0-flash",
	})
	require.NoError(t, err)

	out, err := client.Generate(context.Background(), Prompt{
		Role:   "classifier",
		System: "sys",
		User:   "usr",
		JSON:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"action":"Buy"}`, out)

	assert.Equal(t, "gemini-2.0-flash", captured["model"])
	messages, ok := captured["messages"].([]interface{})
	require.True(t, ok)
	assert.Len(t, messages, 2)
	format, ok := captured["response_format"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])
}

func TestOpenAIClient_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(config.LLMConfig{APIKey: "k", BaseURL: server.URL, Model: "m"})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), Prompt{User: "hi"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(config.LLMConfig{APIKey: "k", BaseURL: server.URL, Model: "m"})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), Prompt{Role: "market_analyst", User: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "market_analyst")
}

func TestMockGenerator(t *testing.T) {
	gen := NewMockGenerator("first", "second")
	gen.ErrFor = map[string]error{"MSFT": errors.New("quota")}

	out, err := gen.Generate(context.Background(), Prompt{User: "AAPL"})
	require.NoError(t, err)
	assert.Equal(t, "first", out)

	_, err = gen.Generate(context.Background(), Prompt{User: "ticker msft"})
	assert.EqualError(t, err, "quota")

	out, err = gen.Generate(context.Background(), Prompt{User: "GOOG"})
	require.NoError(t, err)
	assert.Equal(t, "second", out, "last response repeats")
	assert.Equal(t, 3, gen.Calls())
}
