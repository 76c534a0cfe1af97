package repository

import (
	"context"
	"errors"

	"bookstore-api/internal/data/entity"
	"bookstore-api/pkg/database"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by update operations whose target does not exist.
	// Lookups return (nil, nil) instead.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned by Create when the normalized email is taken.
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)

	// AddReporter adds reporterID to the target's reportedBy set in one atomic step.
	AddReporter(ctx context.Context, targetID, reporterID uuid.UUID) error
	// ToggleFavoriteBook flips membership of bookID in favoriteBooks in one atomic
	// step and reports whether the book is now a favorite.
	ToggleFavoriteBook(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
	// ToggleRole flips user <-> admin in one atomic step and returns the updated user.
	ToggleRole(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type BookRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	// FindByIDs returns the books that exist, in the order of ids.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Book, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Book, error)
	CountAll(ctx context.Context) (int64, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Repository struct {
	User  UserRepository
	Book  BookRepository
	Store Pinger
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:  NewUserRepository(db, log),
		Book:  NewBookRepository(db, log),
		Store: db,
	}
}

func NewMongoRepository(db *mongo.Database, log *zap.Logger) *Repository {
	return &Repository{
		User:  NewMongoUserRepository(db, log),
		Book:  NewMongoBookRepository(db, log),
		Store: mongoPinger{db: db},
	}
}

type mongoPinger struct {
	db *mongo.Database
}

func (p mongoPinger) Ping(ctx context.Context) error {
	return p.db.Client().Ping(ctx, nil)
}
