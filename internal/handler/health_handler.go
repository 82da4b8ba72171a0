package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"quiz-backend/internal/model"
)

type pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Health(ctx); err != nil {
		slog.Warn("health check failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(model.APIResponse{
			Success: false,
			Data:    map[string]string{"status": "unavailable", "database": "down"},
			Error:   &model.APIError{Code: "UNAVAILABLE", Message: "database unreachable"},
		})
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok", "database": "up"})
}
