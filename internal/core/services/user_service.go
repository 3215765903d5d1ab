package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Anurag-933/simplebank/internal/apperrors"
	"github.com/Anurag-933/simplebank/internal/core/domain"
	portsrepo "github.com/Anurag-933/simplebank/internal/core/ports/repositories"
	portssvc "github.com/Anurag-933/simplebank/internal/core/ports/services"
	"github.com/Anurag-933/simplebank/internal/dto"
	"github.com/Anurag-933/simplebank/internal/middleware"
	"github.com/Anurag-933/simplebank/internal/utils"
)

// userService provides user registration and authentication.
type userService struct {
	userRepo   portsrepo.UserRepositoryFacade
	accountSvc portssvc.AccountWriterSvc
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, accountSvc portssvc.AccountWriterSvc) portssvc.UserSvcFacade {
	return &userService{
		userRepo:   userRepo,
		accountSvc: accountSvc,
	}
}

// Ensure userService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser creates a new user and opens their account.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		FullName:     req.FullName,
		Username:     req.Username,
		PasswordHash: passwordHash,
		IsReviewer:   false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Username already taken", slog.String("username", req.Username))
		}
		return nil, err
	}

	if _, err := s.accountSvc.OpenAccount(ctx, userID); err != nil {
		logger.Error("Failed to open account for new user", slog.String("user_id", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to open account for user %s: %w", userID, err)
	}

	logger.Info("User registered", slog.String("user_id", userID), slog.String("username", req.Username))
	return &user, nil
}

// AuthenticateUser authenticates a user with username and password.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// GetUserByUsername retrieves a user by username.
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.FindUserByUsername(ctx, username)
}
