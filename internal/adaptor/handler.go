package adaptor

import (
	"bookstore-api/internal/data/repository"
	"bookstore-api/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth   *AuthHandler
	User   *UserHandler
	Book   *BookHandler
	Health *HealthHandler
}

func NewHandler(service *usecase.Service, store repository.Pinger, log *zap.Logger) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(service.Auth, log),
		User:   NewUserHandler(service.User, log),
		Book:   NewBookHandler(service.Book, log),
		Health: NewHealthHandler(store, log),
	}
}
