package repository

import (
	"context"
	"errors"

	"evcharge/backend/services/booking-service/internal/models"
	"evcharge/backend/services/booking-service/internal/store"
)

// ErrBookingNotFound represents a missing booking record.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepository handles the bookings bucket.
type BookingRepository struct {
	col *store.Collection[models.Booking]
}

// NewBookingRepository returns repository instance.
func NewBookingRepository(s *store.Store) *BookingRepository {
	return &BookingRepository{col: store.NewCollection[models.Booking](s, store.BucketBookings)}
}

// Create appends a booking.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.col.Insert(ctx, *booking)
}

// Get fetches a booking by id.
func (r *BookingRepository) Get(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := r.col.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// Update applies fn to the stored booking and persists the result.
func (r *BookingRepository) Update(ctx context.Context, id string, fn func(*models.Booking) error) (*models.Booking, error) {
	booking, err := r.col.Update(ctx, id, fn)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// List returns every booking in insertion order.
func (r *BookingRepository) List(ctx context.Context) ([]models.Booking, error) {
	return r.col.List(ctx)
}

// ListByUser returns the bookings owned by userID.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.col.Filter(ctx, func(b models.Booking) bool { return b.UserID == userID })
}

// ListByStatus returns bookings in the given status.
func (r *BookingRepository) ListByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	return r.col.Filter(ctx, func(b models.Booking) bool { return b.Status == status })
}
