package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

func TestMongoBookRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	bookDoc := func(id uuid.UUID, title string) bson.D {
		now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		return bson.D{
			{Key: "_id", Value: id.String()},
			{Key: "title", Value: title},
			{Key: "author", Value: "Anon"},
			{Key: "publishedYear", Value: 1965},
			{Key: "createdAt", Value: now},
			{Key: "updatedAt", Value: now},
		}
	}

	mt.Run("find by ids restores requested order", func(mt *mtest.T) {
		repo := NewMongoBookRepository(mt.DB, zap.NewNop())
		a, b, missing := uuid.New(), uuid.New(), uuid.New()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.books", mtest.FirstBatch,
			bookDoc(a, "Dune"), bookDoc(b, "Emma")))

		books, err := repo.FindByIDs(ctx, []uuid.UUID{b, missing, a})
		if err != nil {
			mt.Fatalf("find by ids: %v", err)
		}
		if len(books) != 2 || books[0].ID != b || books[1].ID != a || books[1].PublishedYear != 1965 {
			mt.Fatalf("unexpected books %+v", books)
		}
	})

	mt.Run("count", func(mt *mtest.T) {
		repo := NewMongoBookRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.books", mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(3)}}))

		count, err := repo.CountAll(ctx)
		if err != nil || count != 3 {
			mt.Fatalf("expected 3, got %d, %v", count, err)
		}
	})
}
