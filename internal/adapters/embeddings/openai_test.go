package embeddings

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startrade/pkg/errors"
)

func newTestServer(t *testing.T, gotBody *map[string]any) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, gotBody))

		// Reply out of order to check index alignment
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object": "list",
			"model": "text-embedding-3-small",
			"data": [
				{"object": "embedding", "index": 1, "embedding": [0.4, 0.5, 0.6]},
				{"object": "embedding", "index": 0, "embedding": [0.1, 0.2, 0.3]}
			],
			"usage": {"prompt_tokens": 4, "total_tokens": 4}
		}`))
	}))
}

func TestOpenAIProvider_GenerateBatchEmbeddings(t *testing.T) {
	var body map[string]any
	srv := newTestServer(t, &body)
	defer srv.Close()

	p, err := NewOpenAIProvider(Config{APIKey: "test", BaseURL: srv.URL, Dimensions: 3})
	require.NoError(t, err)

	vecs, err := p.GenerateBatchEmbeddings(t.Context(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)

	assert.InDeltaSlice(t, []float32{0.1, 0.2, 0.3}, vecs[0], 1e-6)
	assert.InDeltaSlice(t, []float32{0.4, 0.5, 0.6}, vecs[1], 1e-6)
	assert.Equal(t, float64(3), body["dimensions"])
	assert.Equal(t, "text-embedding-3-small", body["model"])
}

func TestOpenAIProvider_Validation(t *testing.T) {
	_, err := NewOpenAIProvider(Config{})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	p, err := NewOpenAIProvider(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultDimensions, p.Dimensions())
	assert.Equal(t, "text-embedding-3-small", p.Name())

	_, err = p.GenerateEmbedding(t.Context(), "")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = p.GenerateBatchEmbeddings(t.Context(), nil)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestNewProvider_Unsupported(t *testing.T) {
	_, err := NewProvider(Config{Provider: "cohere", APIKey: "k"})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}
