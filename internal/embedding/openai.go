package embedding

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const openaiBurst = 5

// OpenAI calls the hosted embeddings API. Requests are rate limited so a
// burst of report submissions cannot exhaust the API quota.
type OpenAI struct {
	apiKey      string
	model       openai.EmbeddingModel
	client      *openai.Client
	rateLimiter *rate.Limiter
}

func NewOpenAI(apiKey, model string, rateLimitRPS int) *OpenAI {
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}

	if rateLimitRPS <= 0 {
		rateLimitRPS = 1
	}

	return &OpenAI{
		apiKey:      apiKey,
		model:       openai.EmbeddingModel(model),
		client:      openai.NewClient(apiKey),
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rateLimitRPS)), openaiBurst),
	}
}

func (o *OpenAI) Name() string {
	return "openai"
}

func (o *OpenAI) Available() bool {
	return o.apiKey != ""
}

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := o.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: o.model,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("create embeddings: empty response")
	}

	return resp.Data[0].Embedding, nil
}
