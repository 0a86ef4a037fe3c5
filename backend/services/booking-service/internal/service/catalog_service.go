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

// StationInput carries the fields of a new station.
type StationInput struct {
	Name              string               `json:"name"`
	Address           string               `json:"address"`
	City              string               `json:"city"`
	State             string               `json:"state"`
	Latitude          float64              `json:"latitude"`
	Longitude         float64              `json:"longitude"`
	TotalChargers     int                  `json:"total_chargers"`
	AvailableChargers int                  `json:"available_chargers"`
	PowerOutput       string               `json:"power_output"`
	ConnectorTypes    []string             `json:"connector_types"`
	Amenities         []string             `json:"amenities"`
	PricePerKWh       float64              `json:"price_per_kwh"`
	Status            models.StationStatus `json:"status"`
	OwnerID           string               `json:"owner_id"`
}

// DefaultStationInput mirrors the blank admin form.
func DefaultStationInput() StationInput {
	return StationInput{
		TotalChargers:     1,
		AvailableChargers: 1,
		PowerOutput:       "22kW",
		PricePerKWh:       0.5,
		Status:            models.StationActive,
	}
}

// StationPatch is a partial station update. Nil fields are left untouched.
type StationPatch struct {
	Name              *string               `json:"name"`
	Address           *string               `json:"address"`
	City              *string               `json:"city"`
	State             *string               `json:"state"`
	Latitude          *float64              `json:"latitude"`
	Longitude         *float64              `json:"longitude"`
	TotalChargers     *int                  `json:"total_chargers"`
	AvailableChargers *int                  `json:"available_chargers"`
	PowerOutput       *string               `json:"power_output"`
	ConnectorTypes    *[]string             `json:"connector_types"`
	Amenities         *[]string             `json:"amenities"`
	PricePerKWh       *float64              `json:"price_per_kwh"`
	Status            *models.StationStatus `json:"status"`
	OwnerID           *string               `json:"owner_id"`
}

func (p StationPatch) apply(st *models.Station) {
	if p.Name != nil {
		st.Name = *p.Name
	}
	if p.Address != nil {
		st.Address = *p.Address
	}
	if p.City != nil {
		st.City = *p.City
	}
	if p.State != nil {
		st.State = *p.State
	}
	if p.Latitude != nil {
		st.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		st.Longitude = *p.Longitude
	}
	if p.TotalChargers != nil {
		st.TotalChargers = *p.TotalChargers
	}
	if p.AvailableChargers != nil {
		st.AvailableChargers = *p.AvailableChargers
	}
	if p.PowerOutput != nil {
		st.PowerOutput = *p.PowerOutput
	}
	if p.ConnectorTypes != nil {
		st.ConnectorTypes = nonNil(*p.ConnectorTypes)
	}
	if p.Amenities != nil {
		st.Amenities = nonNil(*p.Amenities)
	}
	if p.PricePerKWh != nil {
		st.PricePerKWh = *p.PricePerKWh
	}
	if p.Status != nil {
		st.Status = *p.Status
	}
	if p.OwnerID != nil {
		st.OwnerID = *p.OwnerID
	}
}

// CatalogService manages charging stations.
type CatalogService struct {
	stations *repository.StationRepository
	chargers *repository.ChargerRepository
	events   Publisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewCatalogService builds CatalogService. A nil publisher drops events and a nil
// logger discards output.
func NewCatalogService(
	stations *repository.StationRepository,
	chargers *repository.ChargerRepository,
	events Publisher,
	logger *zap.Logger,
) *CatalogService {
	if events == nil {
		events = nopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		stations: stations,
		chargers: chargers,
		events:   events,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and stores a new station.
func (s *CatalogService) Create(ctx context.Context, input StationInput) (*models.Station, error) {
	if input.Status == "" {
		input.Status = models.StationActive
	}
	now := s.now()
	station := &models.Station{
		ID:                newID("station"),
		Name:              strings.TrimSpace(input.Name),
		Address:           input.Address,
		City:              input.City,
		State:             input.State,
		Latitude:          input.Latitude,
		Longitude:         input.Longitude,
		TotalChargers:     input.TotalChargers,
		AvailableChargers: input.AvailableChargers,
		PowerOutput:       input.PowerOutput,
		ConnectorTypes:    nonNil(input.ConnectorTypes),
		Amenities:         nonNil(input.Amenities),
		PricePerKWh:       input.PricePerKWh,
		Status:            input.Status,
		OwnerID:           input.OwnerID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := validateStation(station); err != nil {
		return nil, err
	}

	if err := s.stations.Create(ctx, station); err != nil {
		return nil, err
	}

	s.logger.Info("station created", zap.String("station_id", station.ID), zap.String("name", station.Name))
	s.events.Publish(models.NewEvent(models.EventStationCreated, station.ID, "", station))
	return station, nil
}

// Get returns a station by id.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Station, error) {
	station, err := s.stations.Get(ctx, id)
	if errors.Is(err, repository.ErrStationNotFound) {
		return nil, ErrStationNotFound
	}
	return station, err
}

// List returns all stations in insertion order.
func (s *CatalogService) List(ctx context.Context) ([]models.Station, error) {
	return s.stations.List(ctx)
}

// Update merges patch into the stored station. The merged record must pass validation
// or nothing is written.
func (s *CatalogService) Update(ctx context.Context, id string, patch StationPatch) (*models.Station, error) {
	station, err := s.stations.Update(ctx, id, func(st *models.Station) error {
		patch.apply(st)
		if err := validateStation(st); err != nil {
			return err
		}
		st.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	s.logger.Info("station updated", zap.String("station_id", station.ID))
	s.events.Publish(models.NewEvent(models.EventStationUpdated, station.ID, "", station))
	return station, nil
}

// Delete removes a station. Bookings that reference it are left in place and a
// missing id is not an error.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	removed, err := s.stations.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		s.logger.Debug("station delete skipped, not found", zap.String("station_id", id))
		return nil
	}

	s.logger.Info("station deleted", zap.String("station_id", id))
	s.events.Publish(models.NewEvent(models.EventStationDeleted, id, "", nil))
	return nil
}

// MapMarkers projects every station onto a map marker.
func (s *CatalogService) MapMarkers(ctx context.Context) ([]models.MapMarker, error) {
	stations, err := s.stations.List(ctx)
	if err != nil {
		return nil, err
	}
	markers := make([]models.MapMarker, 0, len(stations))
	for _, st := range stations {
		markers = append(markers, st.Marker())
	}
	return markers, nil
}

// ListChargers returns the chargers of an existing station.
func (s *CatalogService) ListChargers(ctx context.Context, stationID string) ([]models.Charger, error) {
	if _, err := s.Get(ctx, stationID); err != nil {
		return nil, err
	}
	return s.chargers.ListByStation(ctx, stationID)
}

func validateStation(st *models.Station) error {
	switch {
	case strings.TrimSpace(st.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidStation)
	case st.TotalChargers < 1:
		return fmt.Errorf("%w: total_chargers must be at least 1", ErrInvalidStation)
	case st.AvailableChargers < 0 || st.AvailableChargers > st.TotalChargers:
		return fmt.Errorf("%w: available_chargers must be between 0 and total_chargers", ErrInvalidStation)
	case st.PricePerKWh <= 0:
		return fmt.Errorf("%w: price_per_kwh must be positive", ErrInvalidStation)
	case !st.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidStation, st.Status)
	}
	return nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
