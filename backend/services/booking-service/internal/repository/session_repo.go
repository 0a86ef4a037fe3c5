package repository

import (
	"context"
	"errors"
	"time"

	"evcharge/backend/services/booking-service/internal/models"
	"evcharge/backend/services/booking-service/internal/store"
)

// ErrSessionNotFound represents a missing charging session.
var ErrSessionNotFound = errors.New("charging session not found")

// SessionRepository handles the charging sessions bucket.
type SessionRepository struct {
	col *store.Collection[models.ChargingSession]
}

// NewSessionRepository returns repository instance.
func NewSessionRepository(s *store.Store) *SessionRepository {
	return &SessionRepository{col: store.NewCollection[models.ChargingSession](s, store.BucketSessions)}
}

// Save inserts or replaces a session.
func (r *SessionRepository) Save(ctx context.Context, session *models.ChargingSession) error {
	return r.col.Upsert(ctx, *session)
}

// Get fetches a session by id.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.ChargingSession, error) {
	session, err := r.col.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Complete closes the session at endTime.
func (r *SessionRepository) Complete(ctx context.Context, id string, endTime time.Time) (*models.ChargingSession, error) {
	session, err := r.col.Update(ctx, id, func(s *models.ChargingSession) error {
		end := endTime.UTC()
		s.EndTime = &end
		s.Status = models.ChargingSessionCompleted
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// List returns every session.
func (r *SessionRepository) List(ctx context.Context) ([]models.ChargingSession, error) {
	return r.col.List(ctx)
}
