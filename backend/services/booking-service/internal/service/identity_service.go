package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"evcharge/backend/services/booking-service/internal/models"
	"evcharge/backend/services/booking-service/internal/repository"
)

// UserRepository defines storage contract used by the identity service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// PasswordChecker verifies a login password.
type PasswordChecker interface {
	Matches(candidate string) bool
}

// RegisterInput carries a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
	Phone    string
}

// IdentityService contains demo login and registration logic.
type IdentityService struct {
	repo      UserRepository
	passwords PasswordChecker
	tokenizer *TokenService
	logger    *zap.Logger
	now       func() time.Time
}

// NewIdentityService builds IdentityService.
func NewIdentityService(repo UserRepository, passwords PasswordChecker, tokenizer *TokenService, logger *zap.Logger) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{
		repo:      repo,
		passwords: passwords,
		tokenizer: tokenizer,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an account. Every account shares the demo password, so the supplied
// password only has to be present.
func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, errors.New("auth: email required")
	}
	if input.Password == "" {
		return nil, errors.New("auth: password required")
	}
	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, fmt.Errorf("auth: unknown role %q", role)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	user := &models.User{
		ID:        newID("user"),
		Email:     email,
		Name:      strings.TrimSpace(input.Name),
		Role:      role,
		Phone:     strings.TrimSpace(input.Phone),
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// Login authenticates a user and produces a JWT.
func (s *IdentityService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.passwords.Matches(password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenizer.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return token, user, nil
}

// CurrentUser resolves a token to the caller identity.
func (s *IdentityService) CurrentUser(_ context.Context, token string) (models.Identity, error) {
	claims, err := s.tokenizer.ValidateToken(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return models.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// Profile returns the stored account behind identity.
func (s *IdentityService) Profile(ctx context.Context, identity models.Identity) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, identity.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	return user, err
}
