// Package api exposes the report intake HTTP endpoints. The duplicate check
// result is advisory: a submission is stored regardless of the decision, and
// matches are returned so the client can ask the citizen to confirm.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/botvecna47/CityWatchMain-sub000/internal/dedup"
	"github.com/botvecna47/CityWatchMain-sub000/internal/observability"
	"github.com/botvecna47/CityWatchMain-sub000/internal/storage"
)

const shutdownTimeout = 5 * time.Second

// DuplicateChecker runs the duplicate decision pipeline.
type DuplicateChecker interface {
	Check(ctx context.Context, req dedup.Request) dedup.Result
}

// Embedder produces the embedding persisted alongside a stored report.
type Embedder interface {
	Generate(ctx context.Context, text string) []float32
}

// ReportStore persists reports and their embeddings.
type ReportStore interface {
	CreateReport(ctx context.Context, r *storage.Report) error
	SaveEmbedding(ctx context.Context, reportID string, embedding []float32) error
}

type Server struct {
	store    ReportStore
	checker  DuplicateChecker
	embedder Embedder
	port     int
	logger   *zerolog.Logger
}

func NewServer(store ReportStore, checker DuplicateChecker, embedder Embedder, port int, logger *zerolog.Logger) *Server {
	return &Server{
		store:    store,
		checker:  checker,
		embedder: embedder,
		port:     port,
		logger:   logger,
	}
}

// Handler returns the HTTP handler for the intake API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/reports", s.handleCreateReport)
	mux.HandleFunc("POST /v1/reports/check", s.handleCheckDuplicate)

	return mux
}

// Start serves the intake API until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)

		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Int("port", s.port).Msg("API server starting")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

type reportRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CityID      string  `json:"cityId"`
}

type reportResponse struct {
	ID             string       `json:"id"`
	Status         string       `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	DuplicateCheck dedup.Result `json:"duplicateCheck"`
}

func (r *reportRequest) validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}

	if r.CityID == "" {
		return errors.New("cityId is required")
	}

	return nil
}

func (r *reportRequest) toCheckRequest() dedup.Request {
	return dedup.Request{
		Title:       r.Title,
		Description: r.Description,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		CityID:      r.CityID,
	}
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")

		return
	}

	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	result := s.checker.Check(r.Context(), req.toCheckRequest())

	report := &storage.Report{
		CityID:      req.CityID,
		Title:       req.Title,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	if err := s.store.CreateReport(r.Context(), report); err != nil {
		s.logger.Error().Err(err).Msg("failed to create report")
		writeError(w, http.StatusInternalServerError, "failed to create report")

		return
	}

	if emb := s.embedder.Generate(r.Context(), req.Title+" "+req.Description); len(emb) > 0 {
		if err := s.store.SaveEmbedding(r.Context(), report.ID, emb); err != nil {
			// The report is already saved; a missing embedding only weakens
			// future duplicate checks.
			s.logger.Warn().Err(err).Str("report_id", report.ID).Msg("failed to save embedding")
		}
	}

	observability.ReportsCreated.WithLabelValues(fmt.Sprintf("%t", result.Duplicate)).Inc()

	writeJSON(w, http.StatusCreated, reportResponse{
		ID:             report.ID,
		Status:         report.Status,
		CreatedAt:      report.CreatedAt,
		DuplicateCheck: result,
	})
}

func (s *Server) handleCheckDuplicate(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")

		return
	}

	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	writeJSON(w, http.StatusOK, s.checker.Check(r.Context(), req.toCheckRequest()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
