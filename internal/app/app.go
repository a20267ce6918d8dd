// Package app provides the application bootstrap and runtime orchestration.
//
// The App type wires the report store, the embedding provider chain and the
// duplicate checker together, and exposes methods to run the intake API and
// the health/metrics server.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/botvecna47/CityWatchMain-sub000/internal/api"
	"github.com/botvecna47/CityWatchMain-sub000/internal/dedup"
	"github.com/botvecna47/CityWatchMain-sub000/internal/embedding"
	"github.com/botvecna47/CityWatchMain-sub000/internal/observability"
	"github.com/botvecna47/CityWatchMain-sub000/internal/platform/config"
	"github.com/botvecna47/CityWatchMain-sub000/internal/storage"
)

// App holds the application dependencies.
type App struct {
	cfg      *config.Config
	database *storage.DB
	logger   *zerolog.Logger
	embedder *embedding.Chain
	checker  *dedup.Checker
}

func New(cfg *config.Config, database *storage.DB, logger *zerolog.Logger) *App {
	embedder := embedding.NewChain(embedding.Config{
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaEmbedModel,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIModel:   cfg.OpenAIEmbedModel,
		Timeout:       cfg.EmbeddingTimeout,
		RateLimitRPS:  cfg.RateLimitRPS,
	}, logger)

	checker := dedup.NewChecker(database, embedder, dedup.Config{
		Enabled:                   cfg.DuplicateCheckEnabled,
		GeoRadiusMeters:           cfg.GeoRadiusMeters,
		TimeWindow:                cfg.TimeWindow(),
		EmbeddingThreshold:        cfg.EmbeddingThreshold,
		StringSimilarityThreshold: cfg.StringSimilarityThreshold,
		JaccardThreshold:          cfg.JaccardThreshold,
		LevenshteinThreshold:      cfg.LevenshteinThreshold,
	}, logger)

	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
		embedder: embedder,
		checker:  checker,
	}
}

// RunServer serves the report intake API until the context is canceled.
func (a *App) RunServer(ctx context.Context) error {
	server := api.NewServer(a.database, a.checker, a.embedder, a.cfg.APIPort, a.logger)

	return server.Start(ctx)
}

// StartHealthServer serves health checks and Prometheus metrics.
func (a *App) StartHealthServer(ctx context.Context) error {
	server := observability.NewServer(a.database, a.cfg.HealthPort, a.logger)

	return server.Start(ctx)
}
