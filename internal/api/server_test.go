package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botvecna47/CityWatchMain-sub000/internal/dedup"
	"github.com/botvecna47/CityWatchMain-sub000/internal/storage"
)

type fakeChecker struct {
	result dedup.Result
	calls  int
}

func (f *fakeChecker) Check(_ context.Context, _ dedup.Request) dedup.Result {
	f.calls++

	return f.result
}

type fakeStore struct {
	created    []*storage.Report
	embeddings map[string][]float32
	createErr  error
}

func (f *fakeStore) CreateReport(_ context.Context, r *storage.Report) error {
	if f.createErr != nil {
		return f.createErr
	}

	r.ID = "report-1"
	r.Status = storage.ReportStatusOpen
	r.CreatedAt = time.Now()
	f.created = append(f.created, r)

	return nil
}

func (f *fakeStore) SaveEmbedding(_ context.Context, reportID string, embedding []float32) error {
	if f.embeddings == nil {
		f.embeddings = make(map[string][]float32)
	}

	f.embeddings[reportID] = embedding

	return nil
}

type fakeEmbedder struct {
	vector []float32
}

func (f *fakeEmbedder) Generate(_ context.Context, _ string) []float32 {
	return f.vector
}

func newTestServer(store *fakeStore, checker *fakeChecker, embedder *fakeEmbedder) *Server {
	logger := zerolog.Nop()

	return NewServer(store, checker, embedder, 0, &logger)
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	return rec
}

func validReport() map[string]any {
	return map[string]any{
		"title":       "Broken streetlight on Main Street",
		"description": "The light has been out for two days",
		"latitude":    52.52,
		"longitude":   13.405,
		"cityId":      "berlin",
	}
}

func TestCreateReport(t *testing.T) {
	store := &fakeStore{}
	checker := &fakeChecker{result: dedup.Result{Matches: []dedup.Match{}}}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}

	srv := newTestServer(store, checker, embedder)

	rec := postJSON(t, srv.Handler(), "/v1/reports", validReport())

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.created, 1)
	assert.Equal(t, 1, checker.calls)

	var resp reportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "report-1", resp.ID)
	assert.False(t, resp.DuplicateCheck.Duplicate)

	// The embedding produced for the new report is persisted for future checks.
	assert.Equal(t, []float32{0.1, 0.2}, store.embeddings["report-1"])
}

func TestCreateReport_DuplicateIsAdvisory(t *testing.T) {
	store := &fakeStore{}
	checker := &fakeChecker{result: dedup.Result{
		Duplicate: true,
		Matches: []dedup.Match{
			{ID: "other", Title: "Broken streetlight", Similarity: 0.95, Status: "open"},
		},
	}}

	srv := newTestServer(store, checker, &fakeEmbedder{})

	rec := postJSON(t, srv.Handler(), "/v1/reports", validReport())

	// A duplicate flag must never block submission.
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.created, 1)

	var resp reportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.DuplicateCheck.Duplicate)
	require.Len(t, resp.DuplicateCheck.Matches, 1)
	assert.Equal(t, "other", resp.DuplicateCheck.Matches[0].ID)
}

func TestCreateReport_Validation(t *testing.T) {
	srv := newTestServer(&fakeStore{}, &fakeChecker{}, &fakeEmbedder{})

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"cityId": "berlin"}},
		{"missing city", map[string]any{"title": "pothole"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, srv.Handler(), "/v1/reports", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateReport_InvalidJSON(t *testing.T) {
	srv := newTestServer(&fakeStore{}, &fakeChecker{}, &fakeEmbedder{})

	req := httptest.NewRequest(http.MethodPost, "/v1/reports", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckDuplicate_DryRun(t *testing.T) {
	store := &fakeStore{}
	checker := &fakeChecker{result: dedup.Result{
		Duplicate: true,
		Matches:   []dedup.Match{{ID: "other", Similarity: 0.9}},
	}}

	srv := newTestServer(store, checker, &fakeEmbedder{})

	rec := postJSON(t, srv.Handler(), "/v1/reports/check", validReport())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.created, "dry-run check must not create a report")

	var result dedup.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Duplicate)
}
