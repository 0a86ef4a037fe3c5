package models

import "time"

// ChargingSessionStatus tracks an energy delivery tied to a paid booking.
type ChargingSessionStatus string

const (
	ChargingSessionActive    ChargingSessionStatus = "active"
	ChargingSessionCompleted ChargingSessionStatus = "completed"
)

// ChargingSession records energy and cost attributed to a booking.
type ChargingSession struct {
	ID          string                `json:"id"`
	BookingID   string                `json:"booking_id"`
	UserID      string                `json:"user_id"`
	StationID   string                `json:"station_id"`
	ChargerID   string                `json:"charger_id"`
	StartTime   time.Time             `json:"start_time"`
	EndTime     *time.Time            `json:"end_time,omitempty"`
	KWhConsumed float64               `json:"kwh_consumed"`
	Cost        float64               `json:"cost"`
	Status      ChargingSessionStatus `json:"status"`
}

// RecordID implements store.Record.
func (s ChargingSession) RecordID() string { return s.ID }
