// Package dedup decides whether a newly filed report duplicates a recent
// nearby one. Embedding similarity is tried first; when no embedding can be
// produced the rule-based lexical matcher takes over. The two scoring paths
// are never blended, so a single threshold stays interpretable per path.
package dedup

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/botvecna47/CityWatchMain-sub000/internal/geo"
	"github.com/botvecna47/CityWatchMain-sub000/internal/observability"
	"github.com/botvecna47/CityWatchMain-sub000/internal/similarity"
)

const (
	// maxMatches caps the ranked match list returned to the caller.
	maxMatches = 5
	// maxCandidates bounds the candidate scan against unbounded growth.
	maxCandidates = 100
	// excerptRunes is the length of the description excerpt in a match.
	excerptRunes = 100
)

// Request describes the report being checked. Constructed per call.
type Request struct {
	Title       string
	Description string
	Latitude    float64
	Longitude   float64
	CityID      string
}

// Match is one candidate that cleared the similarity threshold.
type Match struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt"`
	Similarity float64   `json:"similarity"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Result is the duplicate decision. Duplicate is true iff Matches is
// non-empty after threshold filtering.
type Result struct {
	Duplicate bool    `json:"duplicate"`
	Matches   []Match `json:"matches"`
}

// Candidate is a read-only view of a previously stored report. The checker
// never mutates it.
type Candidate struct {
	ID          string
	Title       string
	Description string
	Latitude    float64
	Longitude   float64
	Status      string
	CreatedAt   time.Time
	Embedding   []float32
}

// CandidateStore looks up recent reports in a city within a coarse
// geographic box, most recent first.
type CandidateStore interface {
	FindNearbyCandidates(ctx context.Context, cityID string, box geo.Box, since time.Time, limit int) ([]Candidate, error)
}

// Embedder produces an embedding for the comparison text, or nil when no
// provider is available.
type Embedder interface {
	Generate(ctx context.Context, text string) []float32
}

// Config holds the immutable thresholds for a checker. Constructed once at
// startup and passed by reference.
type Config struct {
	Enabled                   bool
	GeoRadiusMeters           float64
	TimeWindow                time.Duration
	EmbeddingThreshold        float32
	StringSimilarityThreshold float64
	JaccardThreshold          float64
	LevenshteinThreshold      float64
}

type Checker struct {
	store    CandidateStore
	embedder Embedder
	cfg      Config
	matcher  *similarity.Matcher
	logger   *zerolog.Logger
}

func NewChecker(store CandidateStore, embedder Embedder, cfg Config, logger *zerolog.Logger) *Checker {
	return &Checker{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		matcher:  similarity.NewMatcher(cfg.JaccardThreshold, cfg.LevenshteinThreshold),
		logger:   logger,
	}
}

// Check runs the duplicate decision pipeline. It never returns an error:
// a failed check must never block report creation, so every failure path
// degrades to the empty result.
func (c *Checker) Check(ctx context.Context, req Request) (result Result) {
	result = Result{Matches: []Match{}}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Msg("duplicate check panicked")

			result = Result{Matches: []Match{}}
		}
	}()

	if !c.cfg.Enabled {
		observability.DuplicateChecks.WithLabelValues("disabled", "unique").Inc()

		return result
	}

	start := time.Now()

	defer func() {
		observability.DuplicateCheckDuration.Observe(time.Since(start).Seconds())
	}()

	candidates := c.nearbyCandidates(ctx, req)

	observability.CandidatesConsidered.Observe(float64(len(candidates)))

	if len(candidates) == 0 {
		observability.DuplicateChecks.WithLabelValues("none", "unique").Inc()

		return result
	}

	text := req.Title + " " + req.Description

	path := "rule"

	var matches []Match

	if emb := c.embedder.Generate(ctx, text); len(emb) > 0 {
		path = "embedding"
		matches = c.scoreByEmbedding(emb, candidates)
	} else {
		matches = c.scoreByRules(text, candidates)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}

	result = Result{
		Duplicate: len(matches) > 0,
		Matches:   matches,
	}

	outcome := "unique"
	if result.Duplicate {
		outcome = "duplicate"
	}

	observability.DuplicateChecks.WithLabelValues(path, outcome).Inc()

	return result
}

// nearbyCandidates queries the store with a bounding-box pre-filter and
// refines by exact Haversine distance. Store failures are logged and treated
// as zero candidates.
func (c *Checker) nearbyCandidates(ctx context.Context, req Request) []Candidate {
	box := geo.BoundingBox(req.Latitude, req.Longitude, c.cfg.GeoRadiusMeters)
	since := time.Now().Add(-c.cfg.TimeWindow)

	candidates, err := c.store.FindNearbyCandidates(ctx, req.CityID, box, since, maxCandidates)
	if err != nil {
		observability.CandidateQueryErrors.Inc()
		c.logger.Warn().Err(err).Str("city_id", req.CityID).Msg("candidate lookup failed")

		return nil
	}

	nearby := candidates[:0]

	for _, cand := range candidates {
		dist := geo.DistanceMeters(req.Latitude, req.Longitude, cand.Latitude, cand.Longitude)
		if dist <= c.cfg.GeoRadiusMeters {
			nearby = append(nearby, cand)
		}
	}

	return nearby
}

func (c *Checker) scoreByEmbedding(emb []float32, candidates []Candidate) []Match {
	var matches []Match

	for _, cand := range candidates {
		if len(cand.Embedding) == 0 {
			continue
		}

		sim := CosineSimilarity(emb, cand.Embedding)
		if sim >= c.cfg.EmbeddingThreshold {
			matches = append(matches, newMatch(cand, float64(sim)))
		}
	}

	return matches
}

func (c *Checker) scoreByRules(text string, candidates []Candidate) []Match {
	var matches []Match

	for _, cand := range candidates {
		sim := c.matcher.Score(text, cand.Title+" "+cand.Description)
		if sim >= c.cfg.StringSimilarityThreshold {
			matches = append(matches, newMatch(cand, sim))
		}
	}

	return matches
}

func newMatch(cand Candidate, sim float64) Match {
	return Match{
		ID:         cand.ID,
		Title:      cand.Title,
		Excerpt:    excerpt(cand.Description),
		Similarity: sim,
		Status:     cand.Status,
		CreatedAt:  cand.CreatedAt,
	}
}

func excerpt(description string) string {
	runes := []rune(description)
	if len(runes) <= excerptRunes {
		return description
	}

	return string(runes[:excerptRunes])
}

// CosineSimilarity returns the cosine of the angle between two vectors.
// Mismatched lengths, empty vectors and zero norms all score 0.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float32

	for i := 0; i < len(a); i++ {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
