package models

import "time"

// StationStatus is the lifecycle state of a station.
type StationStatus string

const (
	StationActive      StationStatus = "active"
	StationMaintenance StationStatus = "maintenance"
	StationInactive    StationStatus = "inactive"
)

// Valid reports whether s is a known status.
func (s StationStatus) Valid() bool {
	switch s {
	case StationActive, StationMaintenance, StationInactive:
		return true
	}
	return false
}

// Station is a charging location with its capacity and tariff.
type Station struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Address           string        `json:"address"`
	City              string        `json:"city"`
	State             string        `json:"state"`
	Latitude          float64       `json:"latitude"`
	Longitude         float64       `json:"longitude"`
	TotalChargers     int           `json:"total_chargers"`
	AvailableChargers int           `json:"available_chargers"`
	PowerOutput       string        `json:"power_output"`
	ConnectorTypes    []string      `json:"connector_types"`
	Amenities         []string      `json:"amenities"`
	PricePerKWh       float64       `json:"price_per_kwh"`
	Status            StationStatus `json:"status"`
	OwnerID           string        `json:"owner_id"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// RecordID implements store.Record.
func (s Station) RecordID() string { return s.ID }

// MapMarker is the subset of a station rendered on the map.
type MapMarker struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Address           string  `json:"address"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	AvailableChargers int     `json:"available_chargers"`
	TotalChargers     int     `json:"total_chargers"`
	PricePerKWh       float64 `json:"price_per_kwh"`
}

// Marker projects the station onto its map marker.
func (s Station) Marker() MapMarker {
	return MapMarker{
		ID:                s.ID,
		Name:              s.Name,
		Address:           s.Address,
		Latitude:          s.Latitude,
		Longitude:         s.Longitude,
		AvailableChargers: s.AvailableChargers,
		TotalChargers:     s.TotalChargers,
		PricePerKWh:       s.PricePerKWh,
	}
}
