package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name      string
	available bool
	vector    []float32
	err       error
	calls     int
}

func (s *stubProvider) Name() string    { return s.name }
func (s *stubProvider) Available() bool { return s.available }

func (s *stubProvider) Embed(_ context.Context, _ string) ([]float32, error) {
	s.calls++

	return s.vector, s.err
}

func newTestChain(providers ...Provider) *Chain {
	logger := zerolog.Nop()

	return &Chain{
		providers: providers,
		timeout:   time.Second,
		logger:    &logger,
	}
}

func TestChain_NoProvidersConfigured(t *testing.T) {
	chain := newTestChain(
		&stubProvider{name: "local", available: false},
		&stubProvider{name: "hosted", available: false},
	)

	assert.Nil(t, chain.Generate(context.Background(), "text"))
}

func TestChain_FirstProviderWins(t *testing.T) {
	local := &stubProvider{name: "local", available: true, vector: []float32{1, 2}}
	hosted := &stubProvider{name: "hosted", available: true, vector: []float32{3, 4}}

	chain := newTestChain(local, hosted)

	vec := chain.Generate(context.Background(), "text")

	assert.Equal(t, []float32{1, 2}, vec)
	assert.Equal(t, 1, local.calls)
	assert.Zero(t, hosted.calls, "hosted provider must not be called when local succeeds")
}

func TestChain_FallsBackToHosted(t *testing.T) {
	local := &stubProvider{name: "local", available: true, err: errors.New("connection refused")}
	hosted := &stubProvider{name: "hosted", available: true, vector: []float32{3, 4}}

	chain := newTestChain(local, hosted)

	vec := chain.Generate(context.Background(), "text")

	assert.Equal(t, []float32{3, 4}, vec)
	assert.Equal(t, 1, local.calls, "single attempt per provider, no retry")
}

func TestChain_AllFail(t *testing.T) {
	local := &stubProvider{name: "local", available: true, err: errors.New("timeout")}
	hosted := &stubProvider{name: "hosted", available: true, err: errors.New("quota exceeded")}

	chain := newTestChain(local, hosted)

	assert.Nil(t, chain.Generate(context.Background(), "text"))
	assert.Equal(t, 1, local.calls)
	assert.Equal(t, 1, hosted.calls)
}

func TestChain_WithOllamaServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: []float32{0.5, 0.5}})
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	chain := NewChain(Config{OllamaBaseURL: srv.URL}, &logger)

	vec := chain.Generate(context.Background(), "broken streetlight")

	require.Equal(t, []float32{0.5, 0.5}, vec)
}

func TestChain_EmptyConfigGeneratesNil(t *testing.T) {
	logger := zerolog.Nop()
	chain := NewChain(Config{}, &logger)

	assert.Nil(t, chain.Generate(context.Background(), "text"))
}
