package repository

import (
	"context"
	"errors"
	"fmt"

	"bookstore-api/internal/data/entity"
	"bookstore-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

// uuid[] columns are read as text[] and parsed here.
const userColumns = `
	id, first_name, last_name, email, password, role, picture,
	favorite_books::text[], reported_by::text[], liked_comments::text[], liked_reviews::text[],
	created_at, updated_at
`

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, password, role,
		                   picture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Picture,
		user.CreatedAt,
		user.UpdatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

// FindAll retrieves every user, newest first
func (ur *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := ur.db.Query(ctx, query)
	if err != nil {
		ur.log.Error("Failed to get all users", zap.Error(err))
		return nil, fmt.Errorf("find all users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) AddReporter(ctx context.Context, targetID, reporterID uuid.UUID) error {
	query := `
		UPDATE users
		SET reported_by = CASE
		        WHEN $2::uuid = ANY(reported_by) THEN reported_by
		        ELSE array_append(reported_by, $2::uuid)
		    END,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query, targetID, reporterID)
	if err != nil {
		ur.log.Error("Failed to add reporter",
			zap.Error(err),
			zap.String("target_id", targetID.String()),
			zap.String("reporter_id", reporterID.String()),
		)
		return fmt.Errorf("add reporter to user %s: %w", targetID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (ur *userRepository) ToggleFavoriteBook(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	// RETURNING sees the updated row
	query := `
		UPDATE users
		SET favorite_books = CASE
		        WHEN $2::uuid = ANY(favorite_books) THEN array_remove(favorite_books, $2::uuid)
		        ELSE array_append(favorite_books, $2::uuid)
		    END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING $2::uuid = ANY(favorite_books)
	`

	var added bool
	err := ur.db.QueryRow(ctx, query, userID, bookID).Scan(&added)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		ur.log.Error("Failed to toggle favorite book",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("book_id", bookID.String()),
		)
		return false, fmt.Errorf("toggle favorite book for user %s: %w", userID.String(), err)
	}

	return added, nil
}

func (ur *userRepository) ToggleRole(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		UPDATE users
		SET role = CASE WHEN role = 'user' THEN 'admin' ELSE 'user' END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		ur.log.Error("Failed to toggle user role",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("toggle role for user %s: %w", id.String(), err)
	}

	return user, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		user                                                entity.User
		favoriteBooks, reportedBy, likedComments, likedRevs []string
	)

	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Picture,
		&favoriteBooks,
		&reportedBy,
		&likedComments,
		&likedRevs,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if user.FavoriteBooks, err = parseUUIDs(favoriteBooks); err != nil {
		return nil, err
	}
	if user.ReportedBy, err = parseUUIDs(reportedBy); err != nil {
		return nil, err
	}
	if user.LikedComments, err = parseUUIDs(likedComments); err != nil {
		return nil, err
	}
	if user.LikedReviews, err = parseUUIDs(likedRevs); err != nil {
		return nil, err
	}

	return &user, nil
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("parse uuid %q: %w", v, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
