package repository

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"bookstore-api/internal/data/entity"

	"github.com/google/uuid"
)

// MemoryStore is a process-local store used for local development and tests.
// Every method copies on the way in and out so callers never share state with it.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]*entity.User
	byEmail map[string]uuid.UUID
	books   map[uuid.UUID]*entity.Book
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[uuid.UUID]*entity.User),
		byEmail: make(map[string]uuid.UUID),
		books:   make(map[uuid.UUID]*entity.Book),
	}
}

func (s *MemoryStore) Repository() *Repository {
	return &Repository{
		User:  &memoryUserRepository{store: s},
		Book:  &memoryBookRepository{store: s},
		Store: s,
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// PutBook inserts or replaces a catalog entry.
func (s *MemoryStore) PutBook(book *entity.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := *book
	s.books[b.ID] = &b
}

type memoryUserRepository struct {
	store *MemoryStore
}

func (r *memoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := s.byEmail[key]; ok {
		return ErrDuplicateEmail
	}
	s.users[user.ID] = cloneUser(user)
	s.byEmail[key] = user.ID
	return nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return cloneUser(s.users[id]), nil
}

func (r *memoryUserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*entity.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (r *memoryUserRepository) AddReporter(ctx context.Context, targetID, reporterID uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[targetID]
	if !ok {
		return ErrNotFound
	}
	if !slices.Contains(u.ReportedBy, reporterID) {
		u.ReportedBy = append(u.ReportedBy, reporterID)
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (r *memoryUserRepository) ToggleFavoriteBook(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return false, ErrNotFound
	}

	u.UpdatedAt = time.Now()
	if i := slices.Index(u.FavoriteBooks, bookID); i >= 0 {
		u.FavoriteBooks = slices.Delete(u.FavoriteBooks, i, i+1)
		return false, nil
	}
	u.FavoriteBooks = append(u.FavoriteBooks, bookID)
	return true, nil
}

func (r *memoryUserRepository) ToggleRole(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.Role == entity.RoleUser {
		u.Role = entity.RoleAdmin
	} else {
		u.Role = entity.RoleUser
	}
	u.UpdatedAt = time.Now()
	return cloneUser(u), nil
}

type memoryBookRepository struct {
	store *MemoryStore
}

func (r *memoryBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	if !ok {
		return nil, nil
	}
	book := *b
	return &book, nil
}

func (r *memoryBookRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Book, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]*entity.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := s.books[id]; ok {
			book := *b
			books = append(books, &book)
		}
	}
	return books, nil
}

func (r *memoryBookRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Book, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*entity.Book, 0, len(s.books))
	for _, b := range s.books {
		book := *b
		all = append(all, &book)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })

	if offset >= len(all) {
		return []*entity.Book{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memoryBookRepository) CountAll(ctx context.Context) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.books)), nil
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.FavoriteBooks = slices.Clone(u.FavoriteBooks)
	c.ReportedBy = slices.Clone(u.ReportedBy)
	c.LikedComments = slices.Clone(u.LikedComments)
	c.LikedReviews = slices.Clone(u.LikedReviews)
	return &c
}
