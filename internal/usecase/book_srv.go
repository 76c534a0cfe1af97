package usecase

import (
	"context"
	"fmt"

	"bookstore-api/internal/data/repository"
	"bookstore-api/internal/dto/request"
	"bookstore-api/internal/dto/response"
	"bookstore-api/pkg/apperr"
	"bookstore-api/pkg/utils"

	"go.uber.org/zap"
)

type BookService interface {
	GetBooks(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedBooksResponse, error)
	GetBookByID(ctx context.Context, bookID string) (*response.BookResponse, error)
}

type bookService struct {
	bookRepo repository.BookRepository
	log      *zap.Logger
}

func NewBookService(bookRepo repository.BookRepository, log *zap.Logger) BookService {
	return &bookService{
		bookRepo: bookRepo,
		log:      log.With(zap.String("service", "book")),
	}
}

func (s *bookService) GetBooks(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedBooksResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	req.PerPage = req.Limit()

	books, err := s.bookRepo.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get books",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, apperr.Internal(fmt.Errorf("get books: %w", err))
	}

	// Total count for pagination metadata
	total, err := s.bookRepo.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count books", zap.Error(err))
		return nil, apperr.Internal(fmt.Errorf("count books: %w", err))
	}

	s.log.Info("Books retrieved",
		zap.Int("count", len(books)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
		zap.Int("per_page", req.PerPage),
	)

	return &response.PaginatedBooksResponse{
		Books:      response.BooksToResponse(books),
		Pagination: response.NewPaginationMeta(req.Page, req.PerPage, total),
	}, nil
}

func (s *bookService) GetBookByID(ctx context.Context, bookID string) (*response.BookResponse, error) {
	id, ok := utils.ParseUUID(bookID)
	if !ok {
		s.log.Warn("Invalid book ID format", zap.String("book_id", bookID))
		return nil, apperr.BookNotFound(msgBookNotFound)
	}

	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find book", zap.Error(err), zap.String("book_id", bookID))
		return nil, apperr.Internal(fmt.Errorf("find book: %w", err))
	}
	if book == nil {
		return nil, apperr.BookNotFound(msgBookNotFound)
	}

	resp := response.BookToResponse(book)
	return &resp, nil
}
