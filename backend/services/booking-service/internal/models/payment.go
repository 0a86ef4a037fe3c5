package models

import "time"

// PaymentRecordStatus is the outcome of a payment attempt.
type PaymentRecordStatus string

const (
	PaymentRecordPending   PaymentRecordStatus = "pending"
	PaymentRecordCompleted PaymentRecordStatus = "completed"
	PaymentRecordFailed    PaymentRecordStatus = "failed"
)

// Payment is the ledger entry for a booking payment.
type Payment struct {
	ID            string              `json:"id"`
	BookingID     string              `json:"booking_id"`
	UserID        string              `json:"user_id"`
	Amount        float64             `json:"amount"`
	Status        PaymentRecordStatus `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	Reference     string              `json:"reference,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// RecordID implements store.Record.
func (p Payment) RecordID() string { return p.ID }
