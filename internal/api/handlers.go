// Package api exposes the extractor over HTTP for one-off scrapes and
// reading previously stored rows.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/steamdbtools/steamdb-scraper/internal/models"
)

// AppScraper runs a synchronous single-app extraction.
type AppScraper interface {
	ScrapeApp(ctx context.Context, appID int64) (models.FlatRow, error)
}

// AppStore reads previously persisted rows.
type AppStore interface {
	GetApp(ctx context.Context, appID int64) (*models.FlatRow, error)
}

type Handlers struct {
	scraper AppScraper
	store   AppStore
	logger  *slog.Logger
}

func NewHandlers(scraper AppScraper, store AppStore, logger *slog.Logger) *Handlers {
	return &Handlers{
		scraper: scraper,
		store:   store,
		logger:  logger.With("component", "api"),
	}
}

// ScrapeRequest is the body of POST /api/v1/scrape.
type ScrapeRequest struct {
	AppID int64 `json:"app_id"`
}

func (h *Handlers) ScrapeApp(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AppID <= 0 {
		h.respondError(w, http.StatusBadRequest, "app_id is required")
		return
	}

	row, err := h.scraper.ScrapeApp(r.Context(), req.AppID)
	if err != nil {
		h.logger.Error("scrape failed", "app_id", req.AppID, "error", err)
		h.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, row)
}

func (h *Handlers) GetApp(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.respondError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	appID, err := strconv.ParseInt(chi.URLParam(r, "appID"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid app id")
		return
	}

	row, err := h.store.GetApp(r.Context(), appID)
	if err != nil {
		h.logger.Error("lookup failed", "app_id", appID, "error", err)
		h.respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if row == nil {
		h.respondError(w, http.StatusNotFound, "app not found")
		return
	}

	h.respondJSON(w, http.StatusOK, row)
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
