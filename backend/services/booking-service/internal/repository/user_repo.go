package repository

import (
	"context"
	"errors"
	"strings"

	"evcharge/backend/services/booking-service/internal/models"
	"evcharge/backend/services/booking-service/internal/store"
)

// ErrUserNotFound represents missing user records.
var ErrUserNotFound = errors.New("user not found")

// UserRepository handles the users bucket.
type UserRepository struct {
	col *store.Collection[models.User]
}

// NewUserRepository returns repository instance.
func NewUserRepository(s *store.Store) *UserRepository {
	return &UserRepository{col: store.NewCollection[models.User](s, store.BucketUsers)}
}

// Create appends a user with a normalized email.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	return r.col.Insert(ctx, *user)
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)
	users, err := r.col.Filter(ctx, func(u models.User) bool { return normalizeEmail(u.Email) == email })
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return &users[0], nil
}

// GetByID fetches a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := r.col.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
