package models

// ChargerStatus describes a single charge point.
type ChargerStatus string

const (
	ChargerAvailable   ChargerStatus = "available"
	ChargerOccupied    ChargerStatus = "occupied"
	ChargerMaintenance ChargerStatus = "maintenance"
	ChargerReserved    ChargerStatus = "reserved"
)

// Charger is one charge point of a station.
type Charger struct {
	ID               string        `json:"id"`
	StationID        string        `json:"station_id"`
	ChargerNumber    string        `json:"charger_number"`
	Status           ChargerStatus `json:"status"`
	ConnectorType    string        `json:"connector_type"`
	PowerOutput      string        `json:"power_output"`
	CurrentSessionID string        `json:"current_session_id,omitempty"`
}

// RecordID implements store.Record.
func (c Charger) RecordID() string { return c.ID }
