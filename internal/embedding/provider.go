// Package embedding turns report text into fixed-length vectors through an
// ordered chain of providers. A local model endpoint is tried before the
// hosted API; when neither is configured or both fail, the chain yields nil
// and the caller falls back to lexical scoring.
package embedding

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/botvecna47/CityWatchMain-sub000/internal/observability"
)

// DefaultTimeout bounds a single provider call. A slow provider must never
// stall report creation.
const DefaultTimeout = 10 * time.Second

// Provider produces an embedding vector for a text.
type Provider interface {
	Name() string
	Available() bool
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config holds the provider endpoints and credentials. Credentials are never
// logged.
type Config struct {
	OllamaBaseURL string
	OllamaModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	Timeout       time.Duration
	RateLimitRPS  int
}

// Chain tries each configured provider once, in order, and degrades to nil
// when all fail. No internal retries.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	logger    *zerolog.Logger
}

// NewChain builds the provider chain from configuration: local Ollama first,
// hosted OpenAI second.
func NewChain(cfg Config, logger *zerolog.Logger) *Chain {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	providers := []Provider{
		NewOllama(cfg.OllamaBaseURL, cfg.OllamaModel, timeout),
		NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.RateLimitRPS),
	}

	return &Chain{
		providers: providers,
		timeout:   timeout,
		logger:    logger,
	}
}

// Generate returns an embedding for the text, or nil when no provider is
// configured or every configured provider failed. Errors never escape this
// boundary.
func (c *Chain) Generate(ctx context.Context, text string) []float32 {
	for _, p := range c.providers {
		if !p.Available() {
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)

		start := time.Now()
		vec, err := p.Embed(callCtx, text)

		cancel()

		if err != nil {
			observability.EmbeddingRequests.WithLabelValues(p.Name(), "error").Inc()
			c.logger.Warn().Err(err).Str("provider", p.Name()).Msg("embedding request failed")

			continue
		}

		observability.EmbeddingRequests.WithLabelValues(p.Name(), "ok").Inc()
		observability.EmbeddingLatency.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())

		if len(vec) > 0 {
			return vec
		}
	}

	return nil
}
