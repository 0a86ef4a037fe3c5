package repository

import (
	"context"
	"errors"

	"evcharge/backend/services/booking-service/internal/models"
	"evcharge/backend/services/booking-service/internal/store"
)

// ErrStationNotFound represents a missing station record.
var ErrStationNotFound = errors.New("station not found")

// StationRepository handles the stations bucket.
type StationRepository struct {
	col *store.Collection[models.Station]
}

// NewStationRepository returns repository instance.
func NewStationRepository(s *store.Store) *StationRepository {
	return &StationRepository{col: store.NewCollection[models.Station](s, store.BucketStations)}
}

// List returns stations in insertion order.
func (r *StationRepository) List(ctx context.Context) ([]models.Station, error) {
	return r.col.List(ctx)
}

// Get fetches a station by id.
func (r *StationRepository) Get(ctx context.Context, id string) (*models.Station, error) {
	station, err := r.col.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return &station, nil
}

// Create appends a station.
func (r *StationRepository) Create(ctx context.Context, station *models.Station) error {
	return r.col.Insert(ctx, *station)
}

// Update applies fn to the stored station and persists the result.
func (r *StationRepository) Update(ctx context.Context, id string, fn func(*models.Station) error) (*models.Station, error) {
	station, err := r.col.Update(ctx, id, fn)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return &station, nil
}

// Delete removes a station and reports whether it existed.
func (r *StationRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.col.Delete(ctx, id)
}
