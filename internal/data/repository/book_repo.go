package repository

import (
	"context"
	"errors"
	"fmt"

	"bookstore-api/internal/data/entity"
	"bookstore-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const bookColumns = `
	id, title, author, description, genre, cover_image, published_year,
	created_at, updated_at
`

type bookRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookRepository(db database.PgxIface, log *zap.Logger) BookRepository {
	return &bookRepository{
		db:  db,
		log: log.With(zap.String("repository", "book")),
	}
}

func (r *bookRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	book, err := scanBook(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find book by ID",
			zap.Error(err),
			zap.String("book_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find book: %w", err)
	}

	return book, nil
}

func (r *bookRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Book, error) {
	if len(ids) == 0 {
		return []*entity.Book{}, nil
	}

	params := make([]string, len(ids))
	for i, id := range ids {
		params[i] = id.String()
	}

	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = ANY($1::uuid[])
		ORDER BY array_position($1::uuid[], id)
	`

	rows, err := r.db.Query(ctx, query, params)
	if err != nil {
		r.log.Error("Failed to find books by IDs",
			zap.Error(err),
			zap.Int("count", len(ids)),
		)
		return nil, fmt.Errorf("failed to find books: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *bookRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		ORDER BY title ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find all books",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("failed to find books: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *bookRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&count); err != nil {
		r.log.Error("Failed to count books", zap.Error(err))
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return count, nil
}

func (r *bookRepository) collect(rows pgx.Rows) ([]*entity.Book, error) {
	books := []*entity.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			r.log.Error("Failed to scan book row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}

func scanBook(row pgx.Row) (*entity.Book, error) {
	var book entity.Book
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.Genre,
		&book.CoverImage,
		&book.PublishedYear,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}
