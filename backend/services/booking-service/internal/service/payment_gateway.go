package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChargeRequest is a payment to capture for a booking.
type ChargeRequest struct {
	BookingID string
	UserID    string
	Amount    float64
}

// ChargeResult is a captured payment.
type ChargeResult struct {
	Reference string
	Method    string
}

// PaymentGateway captures booking payments.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// SimulatedGateway approves every charge after a fixed delay.
type SimulatedGateway struct {
	delay time.Duration
}

// NewSimulatedGateway returns a gateway that waits delay before approving.
func NewSimulatedGateway(delay time.Duration) *SimulatedGateway {
	if delay < 0 {
		delay = 0
	}
	return &SimulatedGateway{delay: delay}
}

// Charge waits for the configured delay and approves the payment. It returns the
// context error if ctx ends first.
func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return &ChargeResult{
		Reference: "sim_" + uuid.NewString(),
		Method:    "card",
	}, nil
}
