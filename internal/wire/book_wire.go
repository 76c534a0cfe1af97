package wire

import (
	"bookstore-api/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBook(r chi.Router, bookHandler *adaptor.BookHandler) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/books", bookHandler.GetBooks)
	r.Get("/api/books/{bookId}", bookHandler.GetBookByID)
}
