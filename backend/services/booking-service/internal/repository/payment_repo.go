package repository

import (
	"context"

	"evcharge/backend/services/booking-service/internal/models"
	"evcharge/backend/services/booking-service/internal/store"
)

// PaymentRepository handles the payments bucket.
type PaymentRepository struct {
	col *store.Collection[models.Payment]
}

// NewPaymentRepository returns repository instance.
func NewPaymentRepository(s *store.Store) *PaymentRepository {
	return &PaymentRepository{col: store.NewCollection[models.Payment](s, store.BucketPayments)}
}

// Save inserts or replaces a payment.
func (r *PaymentRepository) Save(ctx context.Context, payment *models.Payment) error {
	return r.col.Upsert(ctx, *payment)
}

// ListByBooking returns the payments recorded for a booking.
func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID string) ([]models.Payment, error) {
	return r.col.Filter(ctx, func(p models.Payment) bool { return p.BookingID == bookingID })
}
