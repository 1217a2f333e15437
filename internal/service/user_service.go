package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/boardpulse/boardpulse/internal/models"
	apierrors "github.com/boardpulse/boardpulse/internal/pkg/errors"
	"github.com/boardpulse/boardpulse/internal/repository"
)

// UserService defines the interface for user account operations.
type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (*models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// CreateUserRequest is the input for registering a user.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Age      *int   `json:"age" validate:"omitempty,gte=0"`
	IsAdmin  bool   `json:"is_admin"`
}

type userService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, logger *slog.Logger) UserService {
	return &userService{
		users:  users,
		logger: logger,
	}
}

// Create registers a new user. Usernames are unique; a duplicate yields a
// conflict error.
func (s *userService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apierrors.NewValidationError("username", "must not be empty")
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierrors.NewConflictError("Username already taken")
	}

	user := &models.User{
		Username: username,
		Email:    req.Email,
		Age:      req.Age,
		IsAdmin:  req.IsAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User created",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Get retrieves a user by id.
func (s *userService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByUsername retrieves a user by their unique username.
func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users.GetByUsername(ctx, username)
}
