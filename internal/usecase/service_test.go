package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"bookstore-api/internal/data/entity"
	"bookstore-api/internal/data/repository"
	"bookstore-api/internal/dto/request"
	"bookstore-api/internal/dto/response"
	"bookstore-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type mapProfileCache struct {
	mu          sync.Mutex
	items       map[uuid.UUID]response.UserResponse
	invalidated []uuid.UUID
}

func newMapProfileCache() *mapProfileCache {
	return &mapProfileCache{items: make(map[uuid.UUID]response.UserResponse)}
}

func (c *mapProfileCache) Get(ctx context.Context, id uuid.UUID) (*response.UserResponse, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.items[id]
	if !ok {
		return nil, false, nil
	}
	return &u, true, nil
}

func (c *mapProfileCache) Set(ctx context.Context, user *response.UserResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[uuid.MustParse(user.ID)] = *user
	return nil
}

func (c *mapProfileCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

type fixture struct {
	svc      *Service
	store    *repository.MemoryStore
	repo     *repository.Repository
	profiles *mapProfileCache
	tokens   *utils.TokenManager
}

func testConfig() *utils.Config {
	return &utils.Config{
		JWT: utils.JWTConfig{
			Secret:      testSecret,
			ExpiryHours: 24,
			Issuer:      "bookstore-api",
		},
		Security: utils.SecurityConfig{
			BcryptCost:   bcrypt.MinCost,
			MasterAdmins: []string{"admin123@gmail.com", "bookstore@gmail.com"},
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	config := testConfig()
	store := repository.NewMemoryStore()
	repo := store.Repository()
	profiles := newMapProfileCache()

	return &fixture{
		svc:      NewService(repo, profiles, config, zap.NewNop()),
		store:    store,
		repo:     repo,
		profiles: profiles,
		tokens:   utils.NewTokenManager(config.JWT),
	}
}

// signup registers an account and returns its id.
func (f *fixture) signup(t *testing.T, email string) uuid.UUID {
	t.Helper()
	u, err := f.svc.Auth.Signup(context.Background(), &request.SignupRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Password:  "s3cret",
	})
	if err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	return uuid.MustParse(u.ID)
}

func (f *fixture) caller(t *testing.T, id uuid.UUID) utils.CallerContext {
	t.Helper()
	u, err := f.repo.User.FindByID(context.Background(), id)
	if err != nil || u == nil {
		t.Fatalf("load user %s: %v", id, err)
	}
	return utils.CallerContext{UserID: u.ID, Role: string(u.Role)}
}

func (f *fixture) promote(t *testing.T, id uuid.UUID) {
	t.Helper()
	if _, err := f.repo.User.ToggleRole(context.Background(), id); err != nil {
		t.Fatalf("promote %s: %v", id, err)
	}
}

func (f *fixture) addBook(title string) *entity.Book {
	now := time.Now()
	book := &entity.Book{
		Base:   entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Title:  title,
		Author: "Anon",
	}
	f.store.PutBook(book)
	return book
}
