// Package config loads the process-wide configuration from the environment.
// The resulting value object is constructed once at startup and treated as
// immutable thereafter.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	APIPort     int    `env:"API_PORT" envDefault:"3000"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8080"`

	// Duplicate detection. Disabled out of the box; every threshold has the
	// documented default so an empty environment is safe.
	DuplicateCheckEnabled     bool    `env:"DUPLICATE_CHECK_ENABLED" envDefault:"false"`
	GeoRadiusMeters           float64 `env:"DUPLICATE_GEO_RADIUS_METERS" envDefault:"100"`
	TimeWindowMinutes         int     `env:"DUPLICATE_TIME_WINDOW_MINUTES" envDefault:"1440"`
	EmbeddingThreshold        float32 `env:"EMBEDDING_SIMILARITY_THRESHOLD" envDefault:"0.78"`
	StringSimilarityThreshold float64 `env:"STRING_SIMILARITY_THRESHOLD" envDefault:"0.85"`
	JaccardThreshold          float64 `env:"JACCARD_THRESHOLD" envDefault:"0.7"`
	LevenshteinThreshold      float64 `env:"LEVENSHTEIN_THRESHOLD" envDefault:"0.8"`

	// Embedding providers, tried local-then-hosted.
	OllamaBaseURL    string        `env:"OLLAMA_BASE_URL"`
	OllamaEmbedModel string        `env:"OLLAMA_EMBED_MODEL" envDefault:"nomic-embed-text"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIEmbedModel string        `env:"OPENAI_EMBED_MODEL" envDefault:"text-embedding-3-small"`
	EmbeddingTimeout time.Duration `env:"EMBEDDING_TIMEOUT" envDefault:"10s"`
	RateLimitRPS     int           `env:"RATE_LIMIT_RPS" envDefault:"1"`

	// Database pool.
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"25"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"5"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}

// TimeWindow returns the candidate recency window as a duration.
func (c *Config) TimeWindow() time.Duration {
	return time.Duration(c.TimeWindowMinutes) * time.Minute
}
