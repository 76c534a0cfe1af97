package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"bookstore-api/internal/data/cache"
	"bookstore-api/internal/data/entity"
	"bookstore-api/internal/data/repository"
	"bookstore-api/internal/dto/request"
	"bookstore-api/internal/dto/response"
	"bookstore-api/pkg/apperr"
	"bookstore-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgUserNotFound   = "User not found"
	msgBookNotFound   = "Book not found"
	msgBookIDRequired = "Book ID is required"
)

type UserService interface {
	GetAllUsers(ctx context.Context, caller utils.CallerContext) ([]response.UserResponse, error)
	ReportUser(ctx context.Context, caller utils.CallerContext, targetID string) error
	ToggleFavoriteBook(ctx context.Context, caller utils.CallerContext, req *request.ToggleFavoriteRequest) (*response.FavoriteToggleResponse, error)
	GetFavoriteBooks(ctx context.Context, caller utils.CallerContext) ([]response.BookResponse, error)
	GetMe(ctx context.Context, caller utils.CallerContext) (*response.UserResponse, error)
	GetUser(ctx context.Context, userID string) (*response.UserResponse, error)
	PromoteOrDemoteUser(ctx context.Context, caller utils.CallerContext, targetID string) (*response.RoleChangeResponse, error)
}

type userService struct {
	repo         *repository.Repository
	profiles     cache.ProfileCache
	masterAdmins []string
	log          *zap.Logger
}

func NewUserService(
	repo *repository.Repository,
	profiles cache.ProfileCache,
	masterAdmins []string,
	log *zap.Logger,
) UserService {
	admins := make([]string, 0, len(masterAdmins))
	for _, email := range masterAdmins {
		if email = utils.NormalizeEmail(email); email != "" {
			admins = append(admins, email)
		}
	}

	return &userService{
		repo:         repo,
		profiles:     profiles,
		masterAdmins: admins,
		log:          log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetAllUsers(ctx context.Context, caller utils.CallerContext) ([]response.UserResponse, error) {
	if !isAdmin(caller) {
		us.log.Warn("Non-admin tried to list users", zap.String("caller_id", caller.UserID.String()))
		return nil, apperr.NotAuthorized("Not Authorized")
	}

	users, err := us.repo.User.FindAll(ctx)
	if err != nil {
		us.log.Error("Failed to get all users", zap.Error(err))
		return nil, apperr.Internal(fmt.Errorf("get all users: %w", err))
	}

	result := make([]response.UserResponse, len(users))
	for i, user := range users {
		result[i] = response.UserToResponse(user)
	}

	us.log.Info("Users listed", zap.Int("count", len(result)))
	return result, nil
}

// ReportUser adds the caller to the target's reportedBy set. Reporting oneself is allowed.
func (us *userService) ReportUser(ctx context.Context, caller utils.CallerContext, targetID string) error {
	id, ok := utils.ParseUUID(targetID)
	if !ok {
		us.log.Warn("Invalid user ID", zap.String("user_id", targetID))
		return apperr.UserNotFound(msgUserNotFound)
	}

	if err := us.repo.User.AddReporter(ctx, id, caller.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.UserNotFound(msgUserNotFound)
		}
		us.log.Error("Failed to report user",
			zap.Error(err),
			zap.String("target_id", targetID),
			zap.String("reporter_id", caller.UserID.String()),
		)
		return apperr.Internal(fmt.Errorf("report user: %w", err))
	}

	us.invalidate(ctx, id)

	us.log.Info("User reported",
		zap.String("target_id", targetID),
		zap.String("reporter_id", caller.UserID.String()))
	return nil
}

func (us *userService) ToggleFavoriteBook(ctx context.Context, caller utils.CallerContext, req *request.ToggleFavoriteRequest) (*response.FavoriteToggleResponse, error) {
	bookRef := strings.TrimSpace(req.BookID)
	if bookRef == "" {
		return nil, apperr.Validation(msgBookIDRequired, map[string]string{"bookId": "bookId is required"})
	}

	// 1. Both sides must resolve
	if _, err := us.findUser(ctx, caller.UserID); err != nil {
		return nil, err
	}

	bookID, ok := utils.ParseUUID(bookRef)
	if !ok {
		return nil, apperr.BookNotFound(msgBookNotFound)
	}
	book, err := us.repo.Book.FindByID(ctx, bookID)
	if err != nil {
		us.log.Error("Failed to find book", zap.Error(err), zap.String("book_id", bookRef))
		return nil, apperr.Internal(fmt.Errorf("find book: %w", err))
	}
	if book == nil {
		return nil, apperr.BookNotFound(msgBookNotFound)
	}

	// 2. Flip membership in one store operation
	added, err := us.repo.User.ToggleFavoriteBook(ctx, caller.UserID, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.UserNotFound(msgUserNotFound)
		}
		us.log.Error("Failed to toggle favorite book",
			zap.Error(err),
			zap.String("user_id", caller.UserID.String()),
			zap.String("book_id", bookRef),
		)
		return nil, apperr.Internal(fmt.Errorf("toggle favorite book: %w", err))
	}

	us.invalidate(ctx, caller.UserID)

	message := "Book removed from favorites"
	if added {
		message = "Book added to favorites"
	}

	us.log.Info("Favorite book toggled",
		zap.String("user_id", caller.UserID.String()),
		zap.String("book_id", bookRef),
		zap.Bool("added", added))

	bookResp := response.BookToResponse(book)
	return &response.FavoriteToggleResponse{
		Message: message,
		Book:    &bookResp,
		Added:   added,
	}, nil
}

func (us *userService) GetFavoriteBooks(ctx context.Context, caller utils.CallerContext) ([]response.BookResponse, error) {
	user, err := us.findUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	books, err := us.repo.Book.FindByIDs(ctx, user.FavoriteBooks)
	if err != nil {
		us.log.Error("Failed to resolve favorite books",
			zap.Error(err),
			zap.String("user_id", caller.UserID.String()),
			zap.Int("count", len(user.FavoriteBooks)),
		)
		return nil, apperr.Internal(fmt.Errorf("resolve favorite books: %w", err))
	}

	return response.BooksToResponse(books), nil
}

func (us *userService) GetMe(ctx context.Context, caller utils.CallerContext) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// GetUser serves public profiles through the profile cache.
func (us *userService) GetUser(ctx context.Context, userID string) (*response.UserResponse, error) {
	id, ok := utils.ParseUUID(userID)
	if !ok {
		us.log.Warn("Invalid user ID", zap.String("user_id", userID))
		return nil, apperr.UserNotFound("User not Found")
	}

	cached, hit, err := us.profiles.Get(ctx, id)
	if err != nil {
		us.log.Warn("Profile cache read failed", zap.Error(err), zap.String("user_id", userID))
	}
	if hit {
		return cached, nil
	}

	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID))
		return nil, apperr.Internal(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperr.UserNotFound("User not Found")
	}

	resp := response.UserToResponse(user)
	if err := us.profiles.Set(ctx, &resp); err != nil {
		us.log.Warn("Profile cache write failed", zap.Error(err), zap.String("user_id", userID))
	}
	return &resp, nil
}

func (us *userService) PromoteOrDemoteUser(ctx context.Context, caller utils.CallerContext, targetID string) (*response.RoleChangeResponse, error) {
	// 1. Only admins change roles
	if !isAdmin(caller) {
		us.log.Warn("Non-admin tried to change a role",
			zap.String("caller_id", caller.UserID.String()),
			zap.String("target_id", targetID))
		return nil, apperr.NotAuthorized("You are not authorized")
	}

	// 2. Target must exist
	id, ok := utils.ParseUUID(targetID)
	if !ok {
		return nil, apperr.UserNotFound(msgUserNotFound)
	}
	target, err := us.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. Master admins are frozen
	if us.isMasterAdmin(target.Email) {
		us.log.Warn("Attempt to change master admin role",
			zap.String("caller_id", caller.UserID.String()),
			zap.String("target_id", targetID))
		return nil, apperr.ProtectedAccount("Master Admin cannot be modified")
	}

	// 4. Flip role atomically
	updated, err := us.repo.User.ToggleRole(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.UserNotFound(msgUserNotFound)
		}
		us.log.Error("Failed to toggle role", zap.Error(err), zap.String("target_id", targetID))
		return nil, apperr.Internal(fmt.Errorf("toggle role: %w", err))
	}

	us.invalidate(ctx, id)

	message := "User was Demoted to User"
	if updated.Role == entity.RoleAdmin {
		message = "User was Promoted to Admin"
	}

	us.log.Info("User role changed",
		zap.String("caller_id", caller.UserID.String()),
		zap.String("target_id", targetID),
		zap.String("role", string(updated.Role)))

	resp := response.UserToResponse(updated)
	return &response.RoleChangeResponse{
		Message: message,
		User:    &resp,
	}, nil
}

// ==================== HELPER METHODS ====================

func (us *userService) findUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", id.String()))
		return nil, apperr.Internal(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperr.UserNotFound(msgUserNotFound)
	}
	return user, nil
}

func (us *userService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := us.profiles.Invalidate(ctx, id); err != nil {
		us.log.Warn("Failed to invalidate cached profile", zap.Error(err), zap.String("user_id", id.String()))
	}
}

func (us *userService) isMasterAdmin(email string) bool {
	return slices.Contains(us.masterAdmins, utils.NormalizeEmail(email))
}

func isAdmin(caller utils.CallerContext) bool {
	return caller.Role == string(entity.RoleAdmin)
}
