package usecase

import (
	"context"
	"errors"
	"testing"

	"bookstore-api/internal/dto/request"
	"bookstore-api/pkg/apperr"

	"github.com/google/uuid"
)

func TestGetBooksPaginates(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"Carrie", "Amelia", "Dune", "Beloved", "Emma"} {
		f.addBook(title)
	}

	page, err := f.svc.Book.GetBooks(context.Background(), &request.PaginatedRequest{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("get books: %v", err)
	}
	if len(page.Books) != 2 || page.Books[0].Title != "Carrie" || page.Books[1].Title != "Dune" {
		t.Fatalf("unexpected page %+v", page.Books)
	}
	if page.Pagination.Total != 5 || page.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected pagination %+v", page.Pagination)
	}

	empty, err := f.svc.Book.GetBooks(context.Background(), &request.PaginatedRequest{Page: 9, PerPage: 2})
	if err != nil {
		t.Fatalf("get books past end: %v", err)
	}
	if len(empty.Books) != 0 {
		t.Fatalf("expected no books past the end, got %d", len(empty.Books))
	}
}

func TestGetBooksDefaults(t *testing.T) {
	f := newFixture(t)
	f.addBook("Dune")

	page, err := f.svc.Book.GetBooks(context.Background(), &request.PaginatedRequest{})
	if err != nil {
		t.Fatalf("get books: %v", err)
	}
	if page.Pagination.Page != 1 || page.Pagination.PerPage != 10 {
		t.Fatalf("unexpected defaults %+v", page.Pagination)
	}
}

func TestGetBookByID(t *testing.T) {
	f := newFixture(t)
	book := f.addBook("Dune")

	got, err := f.svc.Book.GetBookByID(context.Background(), book.ID.String())
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if got.Title != "Dune" {
		t.Fatalf("unexpected book %+v", got)
	}

	for _, id := range []string{uuid.NewString(), "nope"} {
		if _, err := f.svc.Book.GetBookByID(context.Background(), id); !errors.Is(err, apperr.ErrBookNotFound) {
			t.Fatalf("id %q: expected book not found, got %v", id, err)
		}
	}
}
