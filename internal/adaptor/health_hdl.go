package adaptor

import (
	"context"
	"net/http"
	"time"

	"bookstore-api/internal/data/repository"
	"bookstore-api/pkg/utils"

	"go.uber.org/zap"
)

type HealthHandler struct {
	store repository.Pinger
	log   *zap.Logger
}

func NewHealthHandler(store repository.Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store: store,
		log:   log.With(zap.String("handler", "health")),
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, map[string]string{"status": "ok"})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("Readiness check failed", zap.Error(err))
		utils.ResponseUnavailable(w, "Store unavailable")
		return
	}

	utils.ResponseSuccess(w, map[string]string{"status": "ready"})
}
