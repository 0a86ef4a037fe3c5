package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"evcharge/backend/services/booking-service/internal/models"
	"evcharge/backend/services/booking-service/internal/repository"
)

// DefaultChargerID is booked when the caller does not pick a charger.
const DefaultChargerID = "charger-1"

// Booking counter labels.
const (
	bookingEventCreated   = "created"
	bookingEventPaid      = "paid"
	bookingEventFailed    = "payment_failed"
	bookingEventCancelled = "cancelled"
	bookingEventCompleted = "completed"
)

// CreateBookingInput carries the requested charging window.
type CreateBookingInput struct {
	StationID string
	ChargerID string
	StartTime time.Time
	EndTime   time.Time
}

// BookingServiceDeps groups BookingService collaborators.
type BookingServiceDeps struct {
	Bookings *repository.BookingRepository
	Stations *repository.StationRepository
	Sessions *repository.SessionRepository
	Payments *repository.PaymentRepository
	Gateway  PaymentGateway
	Cost     CostModel
	Events   Publisher
	Recorder Recorder
	Logger   *zap.Logger
}

// BookingService drives the booking lifecycle: creation, payment, cancellation and
// completion.
type BookingService struct {
	bookings *repository.BookingRepository
	stations *repository.StationRepository
	sessions *repository.SessionRepository
	payments *repository.PaymentRepository
	gateway  PaymentGateway
	cost     CostModel
	events   Publisher
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewBookingService builds BookingService. Missing hooks default to no-ops and a
// missing gateway approves instantly.
func NewBookingService(deps BookingServiceDeps) *BookingService {
	svc := &BookingService{
		bookings: deps.Bookings,
		stations: deps.Stations,
		sessions: deps.Sessions,
		payments: deps.Payments,
		gateway:  deps.Gateway,
		cost:     deps.Cost,
		events:   deps.Events,
		recorder: deps.Recorder,
		logger:   deps.Logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
	if svc.gateway == nil {
		svc.gateway = NewSimulatedGateway(0)
	}
	if svc.events == nil {
		svc.events = nopPublisher{}
	}
	if svc.recorder == nil {
		svc.recorder = nopRecorder{}
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// CreateBooking stores a pending booking for the caller. The window is taken as given:
// inverted ranges, overlaps and unknown stations are all accepted.
func (s *BookingService) CreateBooking(ctx context.Context, identity models.Identity, input CreateBookingInput) (*models.Booking, error) {
	if input.ChargerID == "" {
		input.ChargerID = DefaultChargerID
	}
	booking := &models.Booking{
		ID:            newID("booking"),
		UserID:        identity.UserID,
		StationID:     input.StationID,
		ChargerID:     input.ChargerID,
		StartTime:     input.StartTime.UTC(),
		EndTime:       input.EndTime.UTC(),
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     s.now(),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("station_id", booking.StationID),
		zap.String("user_id", booking.UserID),
		zap.Float64("duration_hours", booking.DurationHours()),
	)
	s.recorder.BookingEvent(bookingEventCreated)
	s.events.Publish(models.NewEvent(models.EventBookingCreated, booking.StationID, booking.ID, booking))
	return booking, nil
}

// EstimateForStation prices a window of hours at the station's current tariff.
func (s *BookingService) EstimateForStation(ctx context.Context, stationID string, hours float64) (*Estimate, error) {
	station, err := s.stations.Get(ctx, stationID)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	est := s.cost.Estimate(hours, station.PricePerKWh)
	est.StationID = station.ID
	return &est, nil
}

// CompletePayment charges the booking through the gateway and activates it. Energy and
// cost are recomputed from the window and the station's current price on every call.
// A booking that is already paid is not charged again; only its totals are rewritten.
func (s *BookingService) CompletePayment(ctx context.Context, identity models.Identity, bookingID string) (*models.Booking, error) {
	booking, err := s.authorized(ctx, identity, bookingID)
	if err != nil {
		return nil, err
	}
	if !canPay(booking.Status) {
		return nil, fmt.Errorf("%w: cannot pay a %s booking", ErrInvalidTransition, booking.Status)
	}

	price, err := s.priceFor(ctx, booking.StationID)
	if err != nil {
		return nil, err
	}
	hours := booking.DurationHours()
	kwh := s.cost.EnergyKWh(hours)
	amount := s.cost.EstimateCost(hours, price)

	if booking.PaymentStatus == models.PaymentPaid {
		return s.reprice(ctx, booking.ID, kwh, amount)
	}

	result, chargeErr := s.gateway.Charge(ctx, ChargeRequest{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		Amount:    amount,
	})
	if chargeErr != nil {
		if errors.Is(chargeErr, context.Canceled) || errors.Is(chargeErr, context.DeadlineExceeded) {
			return nil, chargeErr
		}
		return nil, s.failPayment(ctx, booking, amount, chargeErr)
	}

	updated, err := s.bookings.Update(ctx, booking.ID, func(b *models.Booking) error {
		if !canPay(b.Status) {
			return fmt.Errorf("%w: cannot pay a %s booking", ErrInvalidTransition, b.Status)
		}
		b.Status = models.BookingActive
		b.PaymentStatus = models.PaymentPaid
		b.TotalKWh = &kwh
		b.TotalCost = &amount
		return nil
	})
	if err != nil {
		return nil, s.mapBookingErr(err)
	}

	if err := s.payments.Save(ctx, &models.Payment{
		ID:            paymentID(updated.ID),
		BookingID:     updated.ID,
		UserID:        updated.UserID,
		Amount:        amount,
		Status:        models.PaymentRecordCompleted,
		PaymentMethod: result.Method,
		Reference:     result.Reference,
		CreatedAt:     s.now(),
	}); err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, &models.ChargingSession{
		ID:          sessionID(updated.ID),
		BookingID:   updated.ID,
		UserID:      updated.UserID,
		StationID:   updated.StationID,
		ChargerID:   updated.ChargerID,
		StartTime:   updated.StartTime,
		KWhConsumed: kwh,
		Cost:        amount,
		Status:      models.ChargingSessionActive,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("booking paid",
		zap.String("booking_id", updated.ID),
		zap.String("station_id", updated.StationID),
		zap.Float64("kwh", kwh),
		zap.Float64("amount", amount),
	)
	s.recorder.BookingEvent(bookingEventPaid)
	s.recorder.PaymentCaptured(amount)
	s.events.Publish(models.NewEvent(models.EventBookingPaid, updated.StationID, updated.ID, updated))
	return updated, nil
}

// reprice rewrites the totals of a paid booking, its payment record and its session
// without touching the gateway.
func (s *BookingService) reprice(ctx context.Context, bookingID string, kwh, amount float64) (*models.Booking, error) {
	updated, err := s.bookings.Update(ctx, bookingID, func(b *models.Booking) error {
		if !canPay(b.Status) {
			return fmt.Errorf("%w: cannot pay a %s booking", ErrInvalidTransition, b.Status)
		}
		b.TotalKWh = &kwh
		b.TotalCost = &amount
		return nil
	})
	if err != nil {
		return nil, s.mapBookingErr(err)
	}

	payments, err := s.payments.ListByBooking(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		if payments[i].ID != paymentID(updated.ID) || payments[i].Amount == amount {
			continue
		}
		payments[i].Amount = amount
		if err := s.payments.Save(ctx, &payments[i]); err != nil {
			return nil, err
		}
	}

	session, err := s.sessions.Get(ctx, sessionID(updated.ID))
	switch {
	case err == nil:
		session.KWhConsumed = kwh
		session.Cost = amount
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	case !errors.Is(err, repository.ErrSessionNotFound):
		return nil, err
	}

	s.logger.Info("paid booking repriced",
		zap.String("booking_id", updated.ID),
		zap.Float64("kwh", kwh),
		zap.Float64("amount", amount),
	)
	return updated, nil
}

func (s *BookingService) failPayment(ctx context.Context, booking *models.Booking, amount float64, cause error) error {
	s.logger.Warn("payment declined",
		zap.String("booking_id", booking.ID),
		zap.Float64("amount", amount),
		zap.Error(cause),
	)
	s.recorder.BookingEvent(bookingEventFailed)

	var alreadyPaid bool
	if _, err := s.bookings.Update(ctx, booking.ID, func(b *models.Booking) error {
		if b.PaymentStatus == models.PaymentPaid {
			alreadyPaid = true
			return nil
		}
		b.PaymentStatus = models.PaymentFailed
		return nil
	}); err != nil {
		return s.mapBookingErr(err)
	}
	if alreadyPaid {
		return fmt.Errorf("%w: %v", ErrPaymentFailed, cause)
	}
	if err := s.payments.Save(ctx, &models.Payment{
		ID:            paymentID(booking.ID),
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		Amount:        amount,
		Status:        models.PaymentRecordFailed,
		PaymentMethod: "card",
		CreatedAt:     s.now(),
	}); err != nil {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPaymentFailed, cause)
}

// CancelBooking cancels a pending or active booking. The payment status is kept as is.
func (s *BookingService) CancelBooking(ctx context.Context, identity models.Identity, bookingID string) (*models.Booking, error) {
	if _, err := s.authorized(ctx, identity, bookingID); err != nil {
		return nil, err
	}

	var wasActive bool
	updated, err := s.bookings.Update(ctx, bookingID, func(b *models.Booking) error {
		if b.Status != models.BookingPending && b.Status != models.BookingActive {
			return fmt.Errorf("%w: cannot cancel a %s booking", ErrInvalidTransition, b.Status)
		}
		wasActive = b.Status == models.BookingActive
		b.Status = models.BookingCancelled
		return nil
	})
	if err != nil {
		return nil, s.mapBookingErr(err)
	}

	if wasActive {
		s.closeSession(ctx, updated.ID, s.now())
	}

	s.logger.Info("booking cancelled", zap.String("booking_id", updated.ID), zap.String("user_id", identity.UserID))
	s.recorder.BookingEvent(bookingEventCancelled)
	s.events.Publish(models.NewEvent(models.EventBookingCancelled, updated.StationID, updated.ID, updated))
	return updated, nil
}

// CompleteBooking moves an active booking to completed and closes its charging session.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	updated, err := s.bookings.Update(ctx, bookingID, func(b *models.Booking) error {
		if b.Status != models.BookingActive {
			return fmt.Errorf("%w: cannot complete a %s booking", ErrInvalidTransition, b.Status)
		}
		b.Status = models.BookingCompleted
		return nil
	})
	if err != nil {
		return nil, s.mapBookingErr(err)
	}

	endTime := s.now()
	if updated.EndTime.Before(endTime) {
		endTime = updated.EndTime
	}
	s.closeSession(ctx, updated.ID, endTime)

	s.logger.Info("booking completed", zap.String("booking_id", updated.ID), zap.String("station_id", updated.StationID))
	s.recorder.BookingEvent(bookingEventCompleted)
	s.events.Publish(models.NewEvent(models.EventBookingCompleted, updated.StationID, updated.ID, updated))
	return updated, nil
}

// CompleteExpired completes every active booking whose window ended at or before now.
// Failures are logged and skipped; the number of completed bookings is returned.
func (s *BookingService) CompleteExpired(ctx context.Context, now time.Time) (int, error) {
	active, err := s.bookings.ListByStatus(ctx, models.BookingActive)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, b := range active {
		if b.EndTime.After(now) {
			continue
		}
		if _, err := s.CompleteBooking(ctx, b.ID); err != nil {
			s.logger.Warn("failed to complete expired booking", zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		completed++
	}
	return completed, nil
}

// GetBooking returns a booking with its station for its owner or an admin.
func (s *BookingService) GetBooking(ctx context.Context, identity models.Identity, bookingID string) (*models.BookingView, error) {
	booking, err := s.authorized(ctx, identity, bookingID)
	if err != nil {
		return nil, err
	}
	views, err := s.resolve(ctx, []models.Booking{*booking})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListUserBookings returns the bookings of userID with their stations.
func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]models.BookingView, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, bookings)
}

// ListBookings returns every booking with its station.
func (s *BookingService) ListBookings(ctx context.Context) ([]models.BookingView, error) {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, bookings)
}

func (s *BookingService) resolve(ctx context.Context, bookings []models.Booking) ([]models.BookingView, error) {
	stations, err := s.stations.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Station, len(stations))
	for _, st := range stations {
		byID[st.ID] = st
	}

	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, models.BookingView{Booking: b, Station: stationRef(byID, b.StationID)})
	}
	return views, nil
}

func (s *BookingService) authorized(ctx context.Context, identity models.Identity, bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, s.mapBookingErr(err)
	}
	if !identity.IsAdmin() && booking.UserID != identity.UserID {
		return nil, ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) priceFor(ctx context.Context, stationID string) (float64, error) {
	station, err := s.stations.Get(ctx, stationID)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			s.logger.Warn("station missing, using fallback price",
				zap.String("station_id", stationID),
				zap.Float64("price_per_kwh", s.cost.fallback()),
			)
			return s.cost.fallback(), nil
		}
		return 0, err
	}
	return station.PricePerKWh, nil
}

func (s *BookingService) closeSession(ctx context.Context, bookingID string, endTime time.Time) {
	if _, err := s.sessions.Complete(ctx, sessionID(bookingID), endTime); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		s.logger.Warn("failed to close charging session", zap.String("booking_id", bookingID), zap.Error(err))
	}
}

func (s *BookingService) mapBookingErr(err error) error {
	if errors.Is(err, repository.ErrBookingNotFound) {
		return ErrBookingNotFound
	}
	return err
}

func stationRef(byID map[string]models.Station, stationID string) models.StationRef {
	st, ok := byID[stationID]
	if !ok {
		return models.StationRef{StationID: stationID, Dangling: true}
	}
	return models.StationRef{StationID: stationID, Station: &st}
}

func canPay(status models.BookingStatus) bool {
	return status == models.BookingPending || status == models.BookingActive
}

func paymentID(bookingID string) string { return "payment-" + bookingID }

func sessionID(bookingID string) string { return "session-" + bookingID }
