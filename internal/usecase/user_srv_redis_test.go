package usecase

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"bookstore-api/internal/data/cache"
	"bookstore-api/internal/data/entity"
	"bookstore-api/internal/data/repository"
	"bookstore-api/internal/dto/request"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// newRedisFixture wires the services to a real Redis protocol server.
func newRedisFixture(t *testing.T) (*fixture, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	config := testConfig()
	store := repository.NewMemoryStore()
	repo := store.Repository()
	profiles := cache.NewProfileCache(rdb, 5*time.Minute, zap.NewNop())

	return &fixture{
		svc:   NewService(repo, profiles, config, zap.NewNop()),
		store: store,
		repo:  repo,
	}, srv
}

func TestGetUserReflectsRoleChangeThroughRedis(t *testing.T) {
	f, srv := newRedisFixture(t)
	ctx := context.Background()
	adminID := f.signup(t, "boss@example.com")
	f.promote(t, adminID)
	admin := f.caller(t, adminID)
	targetID := f.signup(t, "member@example.com")
	key := "user:profile:" + targetID.String()

	before, err := f.svc.User.GetUser(ctx, targetID.String())
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if before.Role != entity.RoleUser {
		t.Fatalf("expected user role, got %s", before.Role)
	}
	if !srv.Exists(key) {
		t.Fatalf("expected profile to be cached under %s", key)
	}

	if _, err := f.svc.User.PromoteOrDemoteUser(ctx, admin, targetID.String()); err != nil {
		t.Fatalf("promote: %v", err)
	}

	after, err := f.svc.User.GetUser(ctx, targetID.String())
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if after.Role != entity.RoleAdmin {
		t.Fatalf("expected admin role after promotion, got %s", after.Role)
	}

	// once the invalidation window closes the fresh profile is cached again
	srv.FastForward(10 * time.Second)
	if _, err := f.svc.User.GetUser(ctx, targetID.String()); err != nil {
		t.Fatalf("get user: %v", err)
	}
	cached, err := srv.Get(key)
	if err != nil {
		t.Fatalf("expected cached profile: %v", err)
	}
	if !strings.Contains(cached, `"role":"admin"`) {
		t.Fatalf("cached profile has stale role: %s", cached)
	}
}

func TestGetUserReflectsFavoriteToggleThroughRedis(t *testing.T) {
	f, _ := newRedisFixture(t)
	ctx := context.Background()
	userID := f.signup(t, "reader@example.com")
	me := f.caller(t, userID)
	book := f.addBook("Dune")

	if _, err := f.svc.User.GetUser(ctx, userID.String()); err != nil {
		t.Fatalf("get user: %v", err)
	}

	if _, err := f.svc.User.ToggleFavoriteBook(ctx, me, &request.ToggleFavoriteRequest{BookID: book.ID.String()}); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	got, err := f.svc.User.GetUser(ctx, userID.String())
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !slices.Equal(got.FavoriteBooks, []string{book.ID.String()}) {
		t.Fatalf("expected favorite to be visible, got %v", got.FavoriteBooks)
	}
}
