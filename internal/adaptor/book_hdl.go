package adaptor

import (
	"net/http"

	"bookstore-api/internal/dto/request"
	"bookstore-api/internal/dto/response"
	"bookstore-api/internal/usecase"
	"bookstore-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookHandler struct {
	service usecase.BookService
	log     *zap.Logger
}

func NewBookHandler(service usecase.BookService, log *zap.Logger) *BookHandler {
	return &BookHandler{
		service: service,
		log:     log.With(zap.String("handler", "book")),
	}
}

// GetBooks handles GET /api/books?page=1&per_page=10
func (h *BookHandler) GetBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	books, err := h.service.GetBooks(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get books")
		return
	}

	utils.ResponseSuccess(w, books)
}

// GetBookByID handles GET /api/books/{bookId}
func (h *BookHandler) GetBookByID(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.GetBookByID(r.Context(), chi.URLParam(r, "bookId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get book by ID")
		return
	}

	utils.ResponseSuccess(w, response.BookEnvelope{Book: book})
}
