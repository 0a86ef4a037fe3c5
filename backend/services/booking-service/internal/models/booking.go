package models

import "time"

// BookingStatus is the reservation state.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// PaymentStatus is the payment state of a booking.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Booking reserves a charger of a station for a time window.
type Booking struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	StationID     string        `json:"station_id"`
	ChargerID     string        `json:"charger_id"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	Status        BookingStatus `json:"status"`
	TotalKWh      *float64      `json:"total_kwh,omitempty"`
	TotalCost     *float64      `json:"total_cost,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// RecordID implements store.Record.
func (b Booking) RecordID() string { return b.ID }

// DurationHours is the reserved window in fractional hours. Inverted windows yield
// a negative value.
func (b Booking) DurationHours() float64 {
	return b.EndTime.Sub(b.StartTime).Hours()
}

// StationRef is the result of resolving a booking's station reference. Dangling is set
// when the station no longer exists.
type StationRef struct {
	StationID string   `json:"station_id"`
	Station   *Station `json:"station,omitempty"`
	Dangling  bool     `json:"dangling"`
}

// BookingView pairs a booking with its resolved station.
type BookingView struct {
	Booking Booking    `json:"booking"`
	Station StationRef `json:"station"`
}
