package wire

import (
	"net/http"

	"bookstore-api/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser mounts account routes under /api/users. Role checks live in the service.
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	authenticate func(http.Handler) http.Handler,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/", userHandler.GetAllUsers)
		r.Get("/me", userHandler.GetMe)
		r.Get("/favorites", userHandler.GetFavoriteBooks)
		r.Post("/favorites", userHandler.ToggleFavoriteBook)
		r.Post("/{userId}/report", userHandler.ReportUser)
		r.Patch("/{userId}/role", userHandler.PromoteOrDemoteUser)
	})

	// ==================== PUBLIC ROUTES ====================
	r.Get("/{userId}", userHandler.GetUser)
}
