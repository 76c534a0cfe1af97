package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore-api/internal/data/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const booksCollection = "books"

type bookDocument struct {
	ID            string    `bson:"_id"`
	Title         string    `bson:"title"`
	Author        string    `bson:"author"`
	Description   string    `bson:"description"`
	Genre         string    `bson:"genre"`
	CoverImage    string    `bson:"coverImage"`
	PublishedYear int       `bson:"publishedYear"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

type mongoBookRepository struct {
	col *mongo.Collection
	log *zap.Logger
}

func NewMongoBookRepository(db *mongo.Database, log *zap.Logger) BookRepository {
	return &mongoBookRepository{
		col: db.Collection(booksCollection),
		log: log.With(zap.String("repository", "book"), zap.String("driver", "mongo")),
	}
}

func (r *mongoBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	var doc bookDocument
	err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find book by ID", zap.Error(err), zap.String("book_id", id.String()))
		return nil, fmt.Errorf("failed to find book: %w", err)
	}
	return doc.toEntity()
}

func (r *mongoBookRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Book, error) {
	if len(ids) == 0 {
		return []*entity.Book{}, nil
	}

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": uuidStrings(ids)}})
	if err != nil {
		r.log.Error("Failed to find books by IDs", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("failed to find books: %w", err)
	}

	found, err := r.decode(ctx, cur)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*entity.Book, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}

	// $in does not preserve order
	books := make([]*entity.Book, 0, len(found))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			books = append(books, b)
		}
	}
	return books, nil
}

func (r *mongoBookRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Book, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "title", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		r.log.Error("Failed to find all books",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("failed to find books: %w", err)
	}
	return r.decode(ctx, cur)
}

func (r *mongoBookRepository) CountAll(ctx context.Context) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		r.log.Error("Failed to count books", zap.Error(err))
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return count, nil
}

func (r *mongoBookRepository) decode(ctx context.Context, cur *mongo.Cursor) ([]*entity.Book, error) {
	var docs []bookDocument
	if err := cur.All(ctx, &docs); err != nil {
		r.log.Error("Failed to decode books", zap.Error(err))
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}

	books := make([]*entity.Book, 0, len(docs))
	for i := range docs {
		book, err := docs[i].toEntity()
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

func (d *bookDocument) toEntity() (*entity.Book, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse book id %q: %w", d.ID, err)
	}
	return &entity.Book{
		Base: entity.Base{
			ID:        id,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
		Title:         d.Title,
		Author:        d.Author,
		Description:   d.Description,
		Genre:         d.Genre,
		CoverImage:    d.CoverImage,
		PublishedYear: d.PublishedYear,
	}, nil
}
