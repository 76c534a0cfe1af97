package repository

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"bookstore-api/internal/data/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

func userDoc(id uuid.UUID, role string, favorites ...string) bson.D {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if favorites == nil {
		favorites = []string{}
	}
	return bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "firstName", Value: "Jane"},
		{Key: "lastName", Value: "Doe"},
		{Key: "email", Value: "jane@example.com"},
		{Key: "password", Value: "$2a$10$hash"},
		{Key: "role", Value: role},
		{Key: "picture", Value: "https://avatar.example/jane"},
		{Key: "favoriteBooks", Value: favorites},
		{Key: "reportedBy", Value: []string{}},
		{Key: "likedComments", Value: []string{}},
		{Key: "likedReviews", Value: []string{}},
		{Key: "createdAt", Value: now},
		{Key: "updatedAt", Value: now},
	}
}

func findAndModifyReply(doc bson.D) bson.D {
	var value any
	if doc != nil {
		value = doc
	}
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: value})
}

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create maps duplicate key", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))

		if err := repo.Create(ctx, newUser("jane@example.com")); !errors.Is(err, ErrDuplicateEmail) {
			mt.Fatalf("expected duplicate email, got %v", err)
		}
	})

	mt.Run("find by id decodes document", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		id, book := uuid.New(), uuid.New()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, userDoc(id, "admin", book.String())))

		u, err := repo.FindByID(ctx, id)
		if err != nil {
			mt.Fatalf("find by id: %v", err)
		}
		if u.ID != id || u.Role != entity.RoleAdmin || !slices.Equal(u.FavoriteBooks, []uuid.UUID{book}) {
			mt.Fatalf("unexpected user %+v", u)
		}
		if got := mt.GetStartedEvent().Command.Lookup("filter", "_id").StringValue(); got != id.String() {
			mt.Fatalf("unexpected filter id %q", got)
		}
	})

	mt.Run("find by email missing is nil", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		u, err := repo.FindByEmail(ctx, "ghost@example.com")
		if u != nil || err != nil {
			mt.Fatalf("expected nil, nil; got %v, %v", u, err)
		}
	})

	mt.Run("add reporter is one update", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		if err := repo.AddReporter(ctx, uuid.New(), uuid.New()); err != nil {
			mt.Fatalf("add reporter: %v", err)
		}
		evt := mt.GetStartedEvent()
		if evt.CommandName != "update" {
			mt.Fatalf("expected a single update command, got %s", evt.CommandName)
		}
	})

	mt.Run("add reporter missing target", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		if err := repo.AddReporter(ctx, uuid.New(), uuid.New()); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected not found, got %v", err)
		}
	})

	mt.Run("toggle favorite reads returned document", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		userID, book := uuid.New(), uuid.New()
		mt.AddMockResponses(
			findAndModifyReply(userDoc(userID, "user", book.String())),
			findAndModifyReply(userDoc(userID, "user")),
		)

		added, err := repo.ToggleFavoriteBook(ctx, userID, book)
		if err != nil || !added {
			mt.Fatalf("first toggle: added=%v err=%v", added, err)
		}

		evt := mt.GetStartedEvent()
		if evt.CommandName != "findAndModify" {
			mt.Fatalf("expected findAndModify, got %s", evt.CommandName)
		}
		if got := evt.Command.Lookup("query", "_id").StringValue(); got != userID.String() {
			mt.Fatalf("unexpected query id %q", got)
		}
		if evt.Command.Lookup("update").Type != bson.TypeArray {
			mt.Fatalf("expected a pipeline update, got %s", evt.Command.Lookup("update").Type)
		}
		if !evt.Command.Lookup("new").Boolean() {
			mt.Fatalf("expected the updated document to be returned")
		}

		added, err = repo.ToggleFavoriteBook(ctx, userID, book)
		if err != nil || added {
			mt.Fatalf("second toggle: added=%v err=%v", added, err)
		}
	})

	mt.Run("toggle favorite missing user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(findAndModifyReply(nil))

		if _, err := repo.ToggleFavoriteBook(ctx, uuid.New(), uuid.New()); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected not found, got %v", err)
		}
	})

	mt.Run("toggle role returns updated user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		id := uuid.New()
		mt.AddMockResponses(findAndModifyReply(userDoc(id, "admin")))

		u, err := repo.ToggleRole(ctx, id)
		if err != nil {
			mt.Fatalf("toggle role: %v", err)
		}
		if u.ID != id || u.Role != entity.RoleAdmin {
			mt.Fatalf("unexpected user %+v", u)
		}
	})

	mt.Run("toggle role missing user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(findAndModifyReply(nil))

		if _, err := repo.ToggleRole(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected not found, got %v", err)
		}
	})
}
