package wire

import (
	"net/http"

	"bookstore-api/internal/adaptor"
	"bookstore-api/internal/data/cache"
	"bookstore-api/internal/data/repository"
	"bookstore-api/internal/usecase"
	"bookstore-api/pkg/metrics"
	"bookstore-api/pkg/middleware"
	"bookstore-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and the router
func Wiring(repo *repository.Repository, profiles cache.ProfileCache, config *utils.Config, logger *zap.Logger) *App {
	metrics.Register()

	service := usecase.NewService(repo, profiles, config, logger)
	handler := adaptor.NewHandler(service, repo.Store, logger)
	tokens := utils.NewTokenManager(config.JWT)

	router := setupRouter(handler, tokens, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	tokens *utils.TokenManager,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	if config.App.RequestTimeout > 0 {
		r.Use(chimw.Timeout(config.App.RequestTimeout))
	}
	r.Use(middleware.CORS(config.App.AllowedOrigins))

	// Ops endpoints
	r.Get("/health", handler.Health.Health)
	r.Get("/ready", handler.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	authenticate := middleware.Authenticate(tokens, logger)

	r.Route("/api/users", func(r chi.Router) {
		wireAuth(r, handler.Auth, config, logger)
		wireUser(r, handler.User, authenticate)
	})
	wireBook(r, handler.Book)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseJSON(w, http.StatusNotFound, utils.ErrorResponse{Message: "Route not found"})
	})

	return r
}
