package wire

import (
	"bookstore-api/internal/adaptor"
	"bookstore-api/pkg/middleware"
	"bookstore-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Credential endpoints share one per-IP budget
	limit := middleware.RateLimit(config.Security.LoginRatePerMinute, config.Security.LoginBurst, log)

	r.With(limit).Post("/signup", authHandler.Signup)
	r.With(limit).Post("/login", authHandler.Login)
}
