package ai

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startrade/pkg/errors"
)

func newProvider(t *testing.T, handler http.HandlerFunc) *OpenAIChatProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewOpenAIChatProvider(OpenAIChatConfig{Name: "groq", APIKey: "test", BaseURL: srv.URL}, nil)
	require.NoError(t, err)
	return p
}

func TestOpenAIChatProvider_Chat(t *testing.T) {
	var body map[string]any
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1", "object": "chat.completion", "created": 1, "model": "llama-3.3-70b-versatile",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "AAPL looks strong [Source 1]."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 30, "completion_tokens": 8, "total_tokens": 38}
		}`))
	})

	resp, err := p.Chat(t.Context(), ChatRequest{
		Model:       "llama-3.3-70b-versatile",
		Messages:    []Message{SystemMessage("sys"), UserMessage("hi"), AssistantMessage("hello"), UserMessage("AAPL?")},
		Temperature: 0.3,
		MaxTokens:   1500,
	})
	require.NoError(t, err)

	assert.Equal(t, "AAPL looks strong [Source 1].", resp.Content)
	assert.Equal(t, FinishReasonStop, resp.FinishReason)
	assert.Equal(t, 38, resp.Usage.TotalTokens)

	assert.Equal(t, "llama-3.3-70b-versatile", body["model"])
	assert.InDelta(t, 0.3, body["temperature"], 1e-9)
	assert.Equal(t, float64(1500), body["max_completion_tokens"])
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", msgs[2].(map[string]any)["role"])
}

func TestOpenAIChatProvider_RateLimited(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "slow down", "type": "rate_limit"}}`))
	})

	_, err := p.Chat(t.Context(), ChatRequest{Model: "m", Messages: []Message{UserMessage("x")}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRateLimitExceeded)
}

func TestOpenAIChatProvider_ChatStream(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{"Hel", "lo"} {
			fmt.Fprintf(w, "data: {\"id\":\"c\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q},\"finish_reason\":null}]}\n\n", part)
		}
		fmt.Fprint(w, "data: {\"id\":\"c\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{},\"finish_reason\":\"stop\"}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	chunks, errCh := p.ChatStream(t.Context(), ChatRequest{Model: "m", Messages: []Message{UserMessage("x")}})

	var sb strings.Builder
	var last ChatStreamChunk
	for c := range chunks {
		sb.WriteString(c.Content)
		last = c
	}
	require.NoError(t, <-errCh)

	assert.Equal(t, "Hello", sb.String())
	assert.Equal(t, FinishReasonStop, last.FinishReason)
}

func TestNewOpenAIChatProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenAIChatProvider(OpenAIChatConfig{Name: "groq"}, nil)
	assert.ErrorIs(t, err, errors.ErrNotConfigured)
}
