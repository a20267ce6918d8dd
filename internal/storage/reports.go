package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/botvecna47/CityWatchMain-sub000/internal/dedup"
	"github.com/botvecna47/CityWatchMain-sub000/internal/geo"
)

// ErrReportNotFound is returned when a report id does not exist or the
// report was soft-deleted.
var ErrReportNotFound = errors.New("report not found")

// Report is a citizen-filed issue report.
type Report struct {
	ID          string
	CityID      string
	Title       string
	Description string
	Latitude    float64
	Longitude   float64
	Status      string
	CreatedAt   time.Time
}

// CreateReport inserts a new report. A missing id or status is filled in.
func (db *DB) CreateReport(ctx context.Context, r *Report) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	if r.Status == "" {
		r.Status = ReportStatusOpen
	}

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO reports (id, city_id, title, description, latitude, longitude, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, r.ID, r.CityID, r.Title, r.Description, r.Latitude, r.Longitude, r.Status).Scan(&r.CreatedAt)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	return nil
}

// GetReport returns a report by id, excluding soft-deleted rows.
func (db *DB) GetReport(ctx context.Context, id string) (*Report, error) {
	var r Report

	err := db.Pool.QueryRow(ctx, `
		SELECT id, city_id, title, description, latitude, longitude, status, created_at
		FROM reports
		WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(&r.ID, &r.CityID, &r.Title, &r.Description, &r.Latitude, &r.Longitude, &r.Status, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}

		return nil, fmt.Errorf("get report: %w", err)
	}

	return &r, nil
}

// SoftDeleteReport marks a report deleted without removing the row, so past
// duplicate matches keep resolving.
func (db *DB) SoftDeleteReport(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE reports SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete report: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrReportNotFound
	}

	return nil
}

// FindNearbyCandidates returns non-deleted reports in the city created after
// since whose coordinates fall inside the bounding box, most recent first.
// The box is a coarse pre-filter; the caller refines by exact distance.
func (db *DB) FindNearbyCandidates(ctx context.Context, cityID string, box geo.Box, since time.Time, limit int) ([]dedup.Candidate, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT r.id, r.title, r.description, r.latitude, r.longitude, r.status, r.created_at, e.embedding::text
		FROM reports r
		LEFT JOIN report_embeddings e ON e.report_id = r.id
		WHERE r.city_id = $1
		  AND r.deleted_at IS NULL
		  AND r.created_at > $2
		  AND r.latitude IS NOT NULL
		  AND r.longitude IS NOT NULL
		  AND r.latitude BETWEEN $3 AND $4
		  AND r.longitude BETWEEN $5 AND $6
		ORDER BY r.created_at DESC
		LIMIT $7
	`, cityID, since, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng, limit)
	if err != nil {
		return nil, fmt.Errorf("find nearby candidates: %w", err)
	}
	defer rows.Close()

	var candidates []dedup.Candidate

	for rows.Next() {
		var (
			cand         dedup.Candidate
			embeddingStr *string
		)

		if err := rows.Scan(&cand.ID, &cand.Title, &cand.Description, &cand.Latitude, &cand.Longitude,
			&cand.Status, &cand.CreatedAt, &embeddingStr); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}

		if embeddingStr != nil {
			var v pgvector.Vector
			if err := v.Parse(*embeddingStr); err != nil {
				return nil, fmt.Errorf("parse embedding vector: %w", err)
			}

			cand.Embedding = v.Slice()
		}

		candidates = append(candidates, cand)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return candidates, nil
}

// SaveEmbedding upserts the embedding for a report. Idempotent by report id,
// so a retried submission cannot produce duplicate rows.
func (db *DB) SaveEmbedding(ctx context.Context, reportID string, embedding []float32) error {
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO report_embeddings (report_id, embedding)
		VALUES ($1, $2)
		ON CONFLICT (report_id) DO UPDATE SET embedding = EXCLUDED.embedding, updated_at = now()
	`, reportID, pgvector.NewVector(embedding)); err != nil {
		return fmt.Errorf("save embedding: %w", err)
	}

	return nil
}
