package service

import "errors"

var (
	// ErrStationNotFound is returned for unknown station ids.
	ErrStationNotFound = errors.New("catalog: station not found")
	// ErrInvalidStation is returned when station fields break capacity or tariff rules.
	ErrInvalidStation = errors.New("catalog: invalid station")
	// ErrBookingNotFound is returned for unknown booking ids.
	ErrBookingNotFound = errors.New("booking: booking not found")
	// ErrInvalidTransition is returned when a booking cannot move to the requested status.
	ErrInvalidTransition = errors.New("booking: invalid status transition")
	// ErrPaymentFailed is returned when the gateway declines a payment.
	ErrPaymentFailed = errors.New("booking: payment failed")
	// ErrForbidden is returned when the caller neither owns the booking nor is an admin.
	ErrForbidden = errors.New("booking: forbidden")
	// ErrEmailInUse is returned when attempting to register duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidToken is returned for malformed, expired or foreign tokens.
	ErrInvalidToken = errors.New("auth: invalid token")
)
