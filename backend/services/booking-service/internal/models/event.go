package models

import "time"

// EventType names a change broadcast to live subscribers.
type EventType string

const (
	EventStationCreated   EventType = "station_created"
	EventStationUpdated   EventType = "station_updated"
	EventStationDeleted   EventType = "station_deleted"
	EventBookingCreated   EventType = "booking_created"
	EventBookingPaid      EventType = "booking_paid"
	EventBookingCancelled EventType = "booking_cancelled"
	EventBookingCompleted EventType = "booking_completed"
)

// Event is a catalog or booking change.
type Event struct {
	Type      EventType   `json:"type"`
	StationID string      `json:"station_id,omitempty"`
	BookingID string      `json:"booking_id,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// NewEvent stamps an event with the current time in milliseconds.
func NewEvent(eventType EventType, stationID, bookingID string, payload interface{}) Event {
	return Event{
		Type:      eventType,
		StationID: stationID,
		BookingID: bookingID,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
}
