package response

import (
	"time"

	"bookstore-api/internal/data/entity"
)

type BookResponse struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	Genre         string    `json:"genre"`
	CoverImage    string    `json:"coverImage"`
	PublishedYear int       `json:"publishedYear"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type BookEnvelope struct {
	Book *BookResponse `json:"book"`
}

type BookListResponse struct {
	Books []BookResponse `json:"books"`
}

// PaginatedBooksResponse is returned by the public catalog listing.

type PaginatedBooksResponse struct {
	Books      []BookResponse `json:"books"`
	Pagination PaginationMeta `json:"pagination"`
}

type FavoriteToggleResponse struct {
	Message string        `json:"message"`
	Book    *BookResponse `json:"book"`
	Added   bool          `json:"-"`
}

// Helper converters
func BookToResponse(book *entity.Book) BookResponse {
	return BookResponse{
		ID:            book.ID.String(),
		Title:         book.Title,
		Author:        book.Author,
		Description:   book.Description,
		Genre:         book.Genre,
		CoverImage:    book.CoverImage,
		PublishedYear: book.PublishedYear,
		CreatedAt:     book.CreatedAt,
		UpdatedAt:     book.UpdatedAt,
	}
}

func BooksToResponse(books []*entity.Book) []BookResponse {
	out := make([]BookResponse, len(books))
	for i, b := range books {
		out[i] = BookToResponse(b)
	}
	return out
}
