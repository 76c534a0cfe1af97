package usecase

import (
	"bookstore-api/internal/data/cache"
	"bookstore-api/internal/data/repository"
	"bookstore-api/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth AuthService
	User UserService
	Book BookService
}

func NewService(repo *repository.Repository, profiles cache.ProfileCache, config *utils.Config, log *zap.Logger) *Service {
	hasher := utils.NewBcryptHasher(config.Security.BcryptCost)
	tokens := utils.NewTokenManager(config.JWT)

	return &Service{
		Auth: NewAuthService(repo.User, hasher, tokens, log),
		User: NewUserService(repo, profiles, config.Security.MasterAdmins, log),
		Book: NewBookService(repo.Book, log),
	}
}
