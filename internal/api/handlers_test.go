package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steamdbtools/steamdb-scraper/internal/models"
)

type stubScraper struct {
	rows map[int64]models.FlatRow
	err  error
}

func (s *stubScraper) ScrapeApp(_ context.Context, appID int64) (models.FlatRow, error) {
	if s.err != nil {
		return models.FlatRow{}, s.err
	}
	return s.rows[appID], nil
}

type stubStore struct {
	rows map[int64]*models.FlatRow
}

func (s *stubStore) GetApp(_ context.Context, appID int64) (*models.FlatRow, error) {
	return s.rows[appID], nil
}

func newTestRouter(scraper AppScraper, store AppStore) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(NewHandlers(scraper, store, logger))
}

func strPtr(s string) *string { return &s }

func TestHealth(t *testing.T) {
	router := newTestRouter(&stubScraper{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestScrapeApp(t *testing.T) {
	appID := int64(440)
	scraper := &stubScraper{rows: map[int64]models.FlatRow{
		appID: {AppID: &appID, AppType: strPtr("Game")},
	}}
	router := newTestRouter(scraper, nil)

	body := bytes.NewBufferString(`{"app_id": 440}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/scrape", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var row models.FlatRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	require.NotNil(t, row.AppID)
	assert.Equal(t, appID, *row.AppID)
	assert.Equal(t, "Game", *row.AppType)
	assert.Nil(t, row.Developer)
}

func TestScrapeAppBadRequests(t *testing.T) {
	router := newTestRouter(&stubScraper{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{`},
		{name: "missing app_id", body: `{}`},
		{name: "negative app_id", body: `{"app_id": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/scrape", bytes.NewBufferString(tt.body))
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestScrapeAppUpstreamFailure(t *testing.T) {
	router := newTestRouter(&stubScraper{err: errors.New("timeout waiting for selector")}, nil)

	body := bytes.NewBufferString(`{"app_id": 440}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/scrape", body))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetApp(t *testing.T) {
	appID := int64(730)
	store := &stubStore{rows: map[int64]*models.FlatRow{
		appID: {AppID: &appID, Tags: strPtr("FPS | Shooter")},
	}}
	router := newTestRouter(&stubScraper{}, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/apps/730", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var row models.FlatRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	assert.Equal(t, "FPS | Shooter", *row.Tags)
}

func TestGetAppNotFound(t *testing.T) {
	router := newTestRouter(&stubScraper{}, &stubStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/apps/730", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAppInvalidID(t *testing.T) {
	router := newTestRouter(&stubScraper{}, &stubStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/apps/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAppWithoutStore(t *testing.T) {
	router := newTestRouter(&stubScraper{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/apps/730", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
