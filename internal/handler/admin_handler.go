package handler

import (
	"context"
	"net/http"
	"time"

	"restaurant-dashboard/internal/dataset"
	"restaurant-dashboard/internal/model"

	"github.com/rs/zerolog"
)

// Refresher reloads the cached dataset snapshot.
type Refresher interface {
	Refresh(ctx context.Context) (*dataset.Tables, error)
}

// SnapshotResponse describes a freshly loaded dataset snapshot.
type SnapshotResponse struct {
	SnapshotID string    `json:"snapshotId"`
	LoadedAt   time.Time `json:"loadedAt"`
	Sales      int       `json:"sales"`
	Menu       int       `json:"menu"`
	Expenses   int       `json:"expenses"`
}

// AdminHandler handles operational endpoints.
type AdminHandler struct {
	refresher Refresher
	logger    zerolog.Logger
}

// NewAdminHandler creates a new admin handler. A nil refresher means caching
// is disabled and refresh requests are rejected.
func NewAdminHandler(refresher Refresher, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		refresher: refresher,
		logger:    logger.With().Str("handler", "admin").Logger(),
	}
}

// Refresh handles POST /api/admin/refresh.
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost, h.logger) {
		return
	}

	if h.refresher == nil {
		writeError(w, r, http.StatusNotFound, model.ErrCodeCacheDisabled, "dataset caching is disabled; every request already reads the source", h.logger)
		return
	}

	tables, err := h.refresher.Refresh(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	h.logger.Info().Str("snapshot_id", tables.ID.String()).Msg("snapshot refreshed on request")
	writeJSON(w, http.StatusOK, SnapshotResponse{
		SnapshotID: tables.ID.String(),
		LoadedAt:   tables.LoadedAt,
		Sales:      len(tables.Sales),
		Menu:       len(tables.Menu),
		Expenses:   len(tables.Expenses),
	})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
