package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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
	msgEmailExists        = "Email already exists"
	msgInvalidCredentials = "Invalid email or password"
)

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	hasher   utils.PasswordHasher
	tokens   *utils.TokenManager
	log      *zap.Logger

	// compared against when the email is unknown so both login failures cost the same
	dummyHash string
}

func NewAuthService(
	userRepo repository.UserRepository,
	hasher utils.PasswordHasher,
	tokens *utils.TokenManager,
	log *zap.Logger,
) AuthService {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		log.Warn("Failed to prepare dummy password hash", zap.Error(err))
	}

	return &authService{
		userRepo:  userRepo,
		hasher:    hasher,
		tokens:    tokens,
		log:       log.With(zap.String("service", "auth")),
		dummyHash: dummy,
	}
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.UserResponse, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = utils.NormalizeEmail(req.Email)

	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Signup validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: "+utils.FormatValidationErrors(errs), errs)
	}

	// 2. Check email is free
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, apperr.Internal(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		s.log.Warn("Signup with existing email", zap.String("email", req.Email))
		return nil, apperr.DuplicateAccount(msgEmailExists)
	}

	// 3. Hash password
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	// 4. Build user, picture is fixed from here on
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		PasswordHash:  hashed,
		Role:          entity.RoleUser,
		Picture:       utils.AvatarURL(req.Email),
		FavoriteBooks: []uuid.UUID{},
		ReportedBy:    []uuid.UUID{},
		LikedComments: []uuid.UUID{},
		LikedReviews:  []uuid.UUID{},
	}

	// 5. Save; the unique index catches a concurrent signup that passed step 2
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.log.Warn("Signup lost race on email", zap.String("email", req.Email))
			return nil, apperr.DuplicateAccount(msgEmailExists)
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, apperr.Internal(fmt.Errorf("create user: %w", err))
	}

	s.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	req.Email = utils.NormalizeEmail(req.Email)

	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: "+utils.FormatValidationErrors(errs), errs)
	}

	// 2. Find user
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", req.Email))
		return nil, apperr.Internal(fmt.Errorf("find user: %w", err))
	}

	// 3. Unknown email and wrong password look the same to the caller
	if user == nil {
		s.hasher.Check(req.Password, s.dummyHash)
		s.log.Warn("Login for unknown email", zap.String("email", req.Email))
		return nil, apperr.InvalidCredentials(msgInvalidCredentials)
	}
	if !s.hasher.Check(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, apperr.InvalidCredentials(msgInvalidCredentials)
	}

	// 4. Issue token
	token, err := s.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, apperr.Internal(fmt.Errorf("sign token: %w", err))
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &response.LoginResponse{
		Token:   token,
		Role:    user.Role,
		Message: fmt.Sprintf("Welcome %s! to the Book World", user.FirstName),
	}, nil
}
