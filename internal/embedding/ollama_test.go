package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllama_Embed(t *testing.T) {
	var received ollamaEmbedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, ollamaEmbedPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	provider := NewOllama(srv.URL, "test-model", time.Second)

	require.True(t, provider.Available())

	vec, err := provider.Embed(context.Background(), "broken streetlight")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "test-model", received.Model)
	assert.Equal(t, "broken streetlight", received.Prompt)
}

func TestOllama_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	provider := NewOllama(srv.URL, "", time.Second)

	_, err := provider.Embed(context.Background(), "text")

	require.Error(t, err)
	assert.ErrorIs(t, err, errOllamaUnexpectedStatus)
}

func TestOllama_Unconfigured(t *testing.T) {
	provider := NewOllama("", "", time.Second)

	assert.False(t, provider.Available())
}
