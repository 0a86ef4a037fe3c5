package repository

import (
	"context"

	"evcharge/backend/services/booking-service/internal/models"
	"evcharge/backend/services/booking-service/internal/store"
)

// ChargerRepository reads the chargers bucket.
type ChargerRepository struct {
	col *store.Collection[models.Charger]
}

// NewChargerRepository returns repository instance.
func NewChargerRepository(s *store.Store) *ChargerRepository {
	return &ChargerRepository{col: store.NewCollection[models.Charger](s, store.BucketChargers)}
}

// List returns every charger.
func (r *ChargerRepository) List(ctx context.Context) ([]models.Charger, error) {
	return r.col.List(ctx)
}

// ListByStation returns the chargers of one station.
func (r *ChargerRepository) ListByStation(ctx context.Context, stationID string) ([]models.Charger, error) {
	return r.col.Filter(ctx, func(c models.Charger) bool { return c.StationID == stationID })
}
