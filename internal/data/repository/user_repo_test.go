package repository

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"bookstore-api/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// userRow lays out a users row in userColumns order.
func userRow(id uuid.UUID, email, role string, favorites, reporters []string) []any {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return []any{
		id, "Jane", "Doe", email, "$2a$10$hash", role, "https://avatar.example/jane",
		favorites, reporters, []string{}, []string{},
		now, now,
	}
}

func TestPgCreateMapsUniqueViolation(t *testing.T) {
	db := (&fakePgx{}).queue(pgResult{err: &pgconn.PgError{Code: "23505"}})
	repo := NewUserRepository(db, zap.NewNop())

	err := repo.Create(context.Background(), newUser("jane@example.com"))
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
}

func TestPgFindByIDMissingIsNil(t *testing.T) {
	db := &fakePgx{}
	repo := NewUserRepository(db, zap.NewNop())
	id := uuid.New()

	u, err := repo.FindByID(context.Background(), id)
	if u != nil || err != nil {
		t.Fatalf("expected nil, nil; got %v, %v", u, err)
	}
	if call := db.lastCall(); len(call.args) != 1 || call.args[0] != id {
		t.Fatalf("unexpected args %v", call.args)
	}
}

func TestPgFindByEmailParsesArrays(t *testing.T) {
	id, book, reporter := uuid.New(), uuid.New(), uuid.New()
	db := (&fakePgx{}).queue(pgResult{rows: [][]any{
		userRow(id, "jane@example.com", "user", []string{book.String()}, []string{reporter.String()}),
	}})
	repo := NewUserRepository(db, zap.NewNop())

	u, err := repo.FindByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if u.ID != id || u.Role != entity.RoleUser || u.PasswordHash != "$2a$10$hash" {
		t.Fatalf("unexpected user %+v", u)
	}
	if !slices.Equal(u.FavoriteBooks, []uuid.UUID{book}) || !slices.Equal(u.ReportedBy, []uuid.UUID{reporter}) {
		t.Fatalf("arrays not parsed: %v %v", u.FavoriteBooks, u.ReportedBy)
	}
	if u.LikedComments == nil || len(u.LikedComments) != 0 {
		t.Fatalf("expected empty non-nil liked comments, got %#v", u.LikedComments)
	}
	if !strings.Contains(db.lastCall().sql, "WHERE email = $1") {
		t.Fatalf("unexpected sql %s", db.lastCall().sql)
	}
}

func TestPgFindByEmailRejectsCorruptArray(t *testing.T) {
	db := (&fakePgx{}).queue(pgResult{rows: [][]any{
		userRow(uuid.New(), "jane@example.com", "user", []string{"not-a-uuid"}, []string{}),
	}})
	repo := NewUserRepository(db, zap.NewNop())

	if _, err := repo.FindByEmail(context.Background(), "jane@example.com"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestPgFindAllScansEveryRow(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	db := (&fakePgx{}).queue(pgResult{rows: [][]any{
		userRow(a, "a@example.com", "admin", []string{}, []string{}),
		userRow(b, "b@example.com", "user", []string{}, []string{}),
	}})
	repo := NewUserRepository(db, zap.NewNop())

	users, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(users) != 2 || users[0].ID != a || users[1].ID != b || users[0].Role != entity.RoleAdmin {
		t.Fatalf("unexpected users %+v", users)
	}
	if !strings.Contains(db.lastCall().sql, "ORDER BY created_at DESC") {
		t.Fatalf("expected newest-first ordering, got %s", db.lastCall().sql)
	}
}

func TestPgAddReporterIsSingleConditionalUpdate(t *testing.T) {
	db := (&fakePgx{}).queue(pgResult{tag: "UPDATE 1"})
	repo := NewUserRepository(db, zap.NewNop())
	target, reporter := uuid.New(), uuid.New()

	if err := repo.AddReporter(context.Background(), target, reporter); err != nil {
		t.Fatalf("add reporter: %v", err)
	}
	if len(db.calls) != 1 {
		t.Fatalf("expected exactly one statement, got %d", len(db.calls))
	}
	call := db.lastCall()
	for _, frag := range []string{"UPDATE users", "$2::uuid = ANY(reported_by) THEN reported_by", "array_append(reported_by, $2::uuid)", "WHERE id = $1"} {
		if !strings.Contains(call.sql, frag) {
			t.Fatalf("sql missing %q:\n%s", frag, call.sql)
		}
	}
	if len(call.args) != 2 || call.args[0] != target || call.args[1] != reporter {
		t.Fatalf("unexpected args %v", call.args)
	}
}

func TestPgAddReporterMissingTarget(t *testing.T) {
	db := (&fakePgx{}).queue(pgResult{tag: "UPDATE 0"})
	repo := NewUserRepository(db, zap.NewNop())

	if err := repo.AddReporter(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPgAddReporterDriverError(t *testing.T) {
	boom := errors.New("connection reset")
	db := (&fakePgx{}).queue(pgResult{err: boom})
	repo := NewUserRepository(db, zap.NewNop())

	err := repo.AddReporter(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, boom) || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}

func TestPgToggleFavoriteBookReadsReturning(t *testing.T) {
	db := (&fakePgx{}).queue(
		pgResult{rows: [][]any{{true}}},
		pgResult{rows: [][]any{{false}}},
	)
	repo := NewUserRepository(db, zap.NewNop())
	ctx := context.Background()
	user, book := uuid.New(), uuid.New()

	added, err := repo.ToggleFavoriteBook(ctx, user, book)
	if err != nil || !added {
		t.Fatalf("first toggle: added=%v err=%v", added, err)
	}
	added, err = repo.ToggleFavoriteBook(ctx, user, book)
	if err != nil || added {
		t.Fatalf("second toggle: added=%v err=%v", added, err)
	}

	call := db.lastCall()
	for _, frag := range []string{"array_remove(favorite_books, $2::uuid)", "array_append(favorite_books, $2::uuid)", "RETURNING $2::uuid = ANY(favorite_books)"} {
		if !strings.Contains(call.sql, frag) {
			t.Fatalf("sql missing %q:\n%s", frag, call.sql)
		}
	}
	if len(call.args) != 2 || call.args[0] != user || call.args[1] != book {
		t.Fatalf("unexpected args %v", call.args)
	}
}

func TestPgToggleFavoriteBookMissingUser(t *testing.T) {
	db := (&fakePgx{}).queue(pgResult{})
	repo := NewUserRepository(db, zap.NewNop())

	if _, err := repo.ToggleFavoriteBook(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPgToggleRoleReturnsUpdatedRow(t *testing.T) {
	id := uuid.New()
	db := (&fakePgx{}).queue(pgResult{rows: [][]any{
		userRow(id, "member@example.com", "admin", []string{}, []string{}),
	}})
	repo := NewUserRepository(db, zap.NewNop())

	u, err := repo.ToggleRole(context.Background(), id)
	if err != nil {
		t.Fatalf("toggle role: %v", err)
	}
	if u.ID != id || u.Role != entity.RoleAdmin {
		t.Fatalf("unexpected user %+v", u)
	}

	call := db.lastCall()
	if !strings.Contains(call.sql, "CASE WHEN role = 'user' THEN 'admin' ELSE 'user' END") ||
		!strings.Contains(call.sql, "RETURNING") {
		t.Fatalf("unexpected sql:\n%s", call.sql)
	}
	if len(call.args) != 1 || call.args[0] != id {
		t.Fatalf("unexpected args %v", call.args)
	}
}

func TestPgToggleRoleMissingUser(t *testing.T) {
	db := (&fakePgx{}).queue(pgResult{})
	repo := NewUserRepository(db, zap.NewNop())

	if _, err := repo.ToggleRole(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
