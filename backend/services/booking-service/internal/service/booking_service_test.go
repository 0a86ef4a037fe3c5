package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evcharge/backend/services/booking-service/internal/models"
)

type decliningGateway struct{}

func (decliningGateway) Charge(context.Context, ChargeRequest) (*ChargeResult, error) {
	return nil, errors.New("card declined")
}

type flakyGateway struct {
	calls int
}

func (g *flakyGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	g.calls++
	if g.calls == 1 {
		return nil, errors.New("issuer unavailable")
	}
	return NewSimulatedGateway(0).Charge(ctx, req)
}

// approveOnceGateway approves its first charge and declines every later one.
type approveOnceGateway struct {
	calls int
}

func (g *approveOnceGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	g.calls++
	if g.calls > 1 {
		return nil, errors.New("issuer unavailable")
	}
	return NewSimulatedGateway(0).Charge(ctx, req)
}

func TestCreateBookingPersistsPending(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	env.booking.now = func() time.Time { return baseTime.Add(-time.Hour) }

	booking, err := env.booking.CreateBooking(ctx, alice, window(baseTime, 2))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(booking.ID, "booking-"))
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, models.PaymentPending, booking.PaymentStatus)
	assert.Equal(t, DefaultChargerID, booking.ChargerID)
	assert.Equal(t, alice.UserID, booking.UserID)
	assert.Nil(t, booking.TotalCost)
	assert.Nil(t, booking.TotalKWh)

	stored, err := env.bookings.Get(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, *booking, *stored)
	assert.Equal(t, 1, env.recorder.events[bookingEventCreated])
}

func TestCreateBookingAcceptsInvertedWindow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	in := CreateBookingInput{StationID: "station-1", ChargerID: "station-1-charger-2", StartTime: baseTime, EndTime: baseTime.Add(-time.Hour)}
	booking, err := env.booking.CreateBooking(ctx, alice, in)
	require.NoError(t, err)
	assert.InDelta(t, -1, booking.DurationHours(), 1e-9)
	assert.Equal(t, "station-1-charger-2", booking.ChargerID)

	paid, err := env.booking.CompletePayment(ctx, alice, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, paid.TotalCost)
	assert.Less(t, *paid.TotalCost, 0.0)
}

func TestCreateBookingAllowsOverlaps(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	_, err := env.booking.CreateBooking(ctx, alice, window(baseTime, 2))
	require.NoError(t, err)
	_, err = env.booking.CreateBooking(ctx, bob, window(baseTime.Add(30*time.Minute), 2))
	require.NoError(t, err)

	all, err := env.booking.ListBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCompletePaymentTwoHoursAtDefaultPrice(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	_, err := env.catalog.Update(ctx, "station-1", StationPatch{PricePerKWh: ptr(0.89)})
	require.NoError(t, err)
	booking, err := env.booking.CreateBooking(ctx, alice, window(baseTime, 2))
	require.NoError(t, err)

	paid, err := env.booking.CompletePayment(ctx, alice, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingActive, paid.Status)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	require.NotNil(t, paid.TotalKWh)
	require.NotNil(t, paid.TotalCost)
	assert.InDelta(t, 80, *paid.TotalKWh, 1e-9)
	assert.InDelta(t, 71.20, *paid.TotalCost, 1e-9)

	payments, err := env.payments.ListByBooking(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentRecordCompleted, payments[0].Status)
	assert.InDelta(t, 71.20, payments[0].Amount, 1e-9)
	assert.True(t, strings.HasPrefix(payments[0].Reference, "sim_"))

	session, err := env.sessions.Get(ctx, "session-"+booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChargingSessionActive, session.Status)
	assert.InDelta(t, 80, session.KWhConsumed, 1e-9)

	assert.InDelta(t, 71.20, env.recorder.captured, 1e-9)
	assert.Contains(t, env.events.types(), models.EventBookingPaid)
}

func TestCompletePaymentMatchesFormula(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	for _, hours := range []float64{0.5, 1, 1.75, 3, 8} {
		booking, err := env.booking.CreateBooking(ctx, alice, window(baseTime, hours))
		require.NoError(t, err)
		paid, err := env.booking.CompletePayment(ctx, alice, booking.ID)
		require.NoError(t, err)

		d := booking.DurationHours()
		assert.Equal(t, d*40*0.89, *paid.TotalCost, "hours=%v", hours)
		assert.Equal(t, d*40, *paid.TotalKWh, "hours=%v", hours)
	}
}

func TestCompletePaymentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	booking, err := env.booking.CreateBooking(ctx, alice, window(baseTime, 3))
	require.NoError(t, err)

	first, err := env.booking.CompletePayment(ctx, alice, booking.ID)
	require.NoError(t, err)
	second, err := env.booking.CompletePayment(ctx, alice, booking.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, *first.TotalKWh, *second.TotalKWh)
	assert.Equal(t, *first.TotalCost, *second.TotalCost)

	payments, err := env.payments.ListByBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1, "payment record is upserted")

	sessions, err := env.sessions.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestCompletePaymentDoesNotChargePaidBookingAgain(t *testing.T) {
	ctx := context.Background()
	gateway := &approveOnceGateway{}
	env := newTestEnv(t, gateway)
	booking, err := env.booking.CreateBooking(ctx, alice, window(baseTime, 2))
	require.NoError(t, err)

	first, err := env.booking.CompletePayment(ctx, alice, booking.ID)
	require.NoError(t, err)
	firstPayments, err := env.payments.ListByBooking(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, firstPayments, 1)

	second, err := env.booking.CompletePayment(ctx, alice, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.calls)
	assert.Equal(t, models.BookingActive, second.Status)
	assert.Equal(t, models.PaymentPaid, second.PaymentStatus)
	assert.Equal(t, *first.TotalCost, *second.TotalCost)

	payments, err := env.payments.ListByBooking(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentRecordCompleted, payments[0].Status)
	assert.Equal(t, firstPayments[0].Reference, payments[0].Reference)

	assert.InDelta(t, 71.20, env.recorder.captured, 1e-9)
	assert.Equal(t, 1, env.recorder.events[bookingEventPaid])
	assert.Zero(t, env.recorder.events[bookingEventFailed])

	summary, err := env.dashboard.Summary(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 71.20, summary.TotalRevenue, 1e-9)
}

func TestCompletePaymentRepricesPaidBooking(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	booking, err := env.booking.CreateBooking(ctx, alice, window(baseTime, 2))
	require.NoError(t, err)
	_, err = env.booking.CompletePayment(ctx, alice, booking.ID)
	require.NoError(t, err)

	_, err = env.catalog.Update(ctx, "station-1", StationPatch{PricePerKWh: ptr(1.0)})
	require.NoError(t, err)
	repriced, err := env.booking.CompletePayment(ctx, alice, booking.ID)
	require.NoError(t, err)
	assert.InDelta(t, 80, *repriced.TotalCost, 1e-9)

	payments, err := env.payments.ListByBooking(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.InDelta(t, 80, payments[0].Amount, 1e-9)

	session, err := env.sessions.Get(ctx, "session-"+booking.ID)
	require.NoError(t, err)
	assert.InDelta(t, 80, session.Cost, 1e-9)
}

func TestFailedChargeNeverDowngradesPaidBooking(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	booking, err := env.booking.CreateBooking(ctx, alice, window(baseTime, 1))
	require.NoError(t, err)
	_, err = env.booking.CompletePayment(ctx, alice, booking.ID)
	require.NoError(t, err)

	err = env.booking.failPayment(ctx, booking, 35.6, errors.New("late decline"))
	assert.ErrorIs(t, err, ErrPaymentFailed)

	stored, err := env.bookings.Get(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
	assert.Equal(t, models.BookingActive, stored.Status)

	payments, err := env.payments.ListByBooking(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentRecordCompleted, payments[0].Status)
}

func TestCompletePaymentUsesFallbackPriceForDeletedStation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	station := mustCreateStation(t, env, validInput())

	in := window(baseTime, 2)
	in.StationID = station.ID
	booking, err := env.booking.CreateBooking(ctx, alice, in)
	require.NoError(t, err)
	require.NoError(t, env.catalog.Delete(ctx, station.ID))

	paid, err := env.booking.CompletePayment(ctx, alice, booking.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2*40*DefaultFallbackPrice, *paid.TotalCost, 1e-9)
}

func TestCompletePaymentDeclined(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, decliningGateway{})
	booking, err := env.booking.CreateBooking(ctx, alice, window(baseTime, 2))
	require.NoError(t, err)

	_, err = env.booking.CompletePayment(ctx, alice, booking.ID)
	assert.ErrorIs(t, err, ErrPaymentFailed)

	stored, err := env.bookings.Get(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, stored.Status)
	assert.Equal(t, models.PaymentFailed, stored.PaymentStatus)
	assert.Nil(t, stored.TotalCost)

	payments, err := env.payments.ListByBooking(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentRecordFailed, payments[0].Status)
	assert.Equal(t, 1, env.recorder.events[bookingEventFailed])
}

func TestCompletePaymentRetryAfterFailure(t *testing.T) {
	ctx := context.Background()
	gateway := &flakyGateway{}
	env := newTestEnv(t, gateway)
	booking, err := env.booking.CreateBooking(ctx, alice, window(baseTime, 1))
	require.NoError(t, err)

	_, err = env.booking.CompletePayment(ctx, alice, booking.ID)
	require.ErrorIs(t, err, ErrPaymentFailed)

	paid, err := env.booking.CompletePayment(ctx, alice, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, models.BookingActive, paid.Status)

	payments, err := env.payments.ListByBooking(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentRecordCompleted, payments[0].Status)
}

func TestCompletePaymentHonoursContext(t *testing.T) {
	env := newTestEnv(t, NewSimulatedGateway(time.Minute))
	booking, err := env.booking.CreateBooking(context.Background(), alice, window(baseTime, 1))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = env.booking.CompletePayment(ctx, alice, booking.ID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	stored, err := env.bookings.Get(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)
}

func TestCompletePaymentAuthorization(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	booking, err := env.booking.CreateBooking(ctx, alice, window(baseTime, 1))
	require.NoError(t, err)

	_, err = env.booking.CompletePayment(ctx, bob, booking.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.booking.CompletePayment(ctx, alice, "booking-missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = env.booking.CompletePayment(ctx, admin, booking.ID)
	assert.NoError(t, err)
}

func TestLifecycleTransitions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	pending, err := env.booking.CreateBooking(ctx, alice, window(baseTime, 1))
	require.NoError(t, err)

	_, err = env.booking.CompleteBooking(ctx, pending.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition, "pending bookings cannot complete")

	_, err = env.booking.CompletePayment(ctx, alice, pending.ID)
	require.NoError(t, err)

	completed, err := env.booking.CompleteBooking(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, completed.Status)
	assert.Equal(t, models.PaymentPaid, completed.PaymentStatus)

	session, err := env.sessions.Get(ctx, "session-"+pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChargingSessionCompleted, session.Status)
	require.NotNil(t, session.EndTime)
	assert.True(t, session.EndTime.Equal(completed.EndTime), "session closes at the booked end when it has passed")

	_, err = env.booking.CompletePayment(ctx, alice, pending.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = env.booking.CancelBooking(ctx, alice, pending.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	pending, err := env.booking.CreateBooking(ctx, alice, window(baseTime, 1))
	require.NoError(t, err)
	_, err = env.booking.CancelBooking(ctx, bob, pending.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	cancelled, err := env.booking.CancelBooking(ctx, alice, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	assert.Equal(t, models.PaymentPending, cancelled.PaymentStatus)

	_, err = env.booking.CompletePayment(ctx, alice, pending.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	active, err := env.booking.CreateBooking(ctx, alice, window(baseTime, 1))
	require.NoError(t, err)
	_, err = env.booking.CompletePayment(ctx, alice, active.ID)
	require.NoError(t, err)

	cancelled, err = env.booking.CancelBooking(ctx, admin, active.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	assert.Equal(t, models.PaymentPaid, cancelled.PaymentStatus, "no refunds")

	session, err := env.sessions.Get(ctx, "session-"+active.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChargingSessionCompleted, session.Status)
}

func TestCompleteExpired(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	ended, err := env.booking.CreateBooking(ctx, alice, window(baseTime, 1))
	require.NoError(t, err)
	running, err := env.booking.CreateBooking(ctx, alice, window(baseTime.Add(2*time.Hour), 4))
	require.NoError(t, err)
	unpaid, err := env.booking.CreateBooking(ctx, bob, window(baseTime, 1))
	require.NoError(t, err)

	for _, id := range []string{ended.ID, running.ID} {
		_, err := env.booking.CompletePayment(ctx, alice, id)
		require.NoError(t, err)
	}

	count, err := env.booking.CompleteExpired(ctx, baseTime.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	statuses := map[string]models.BookingStatus{}
	all, err := env.bookings.List(ctx)
	require.NoError(t, err)
	for _, b := range all {
		statuses[b.ID] = b.Status
	}
	assert.Equal(t, models.BookingCompleted, statuses[ended.ID])
	assert.Equal(t, models.BookingActive, statuses[running.ID])
	assert.Equal(t, models.BookingPending, statuses[unpaid.ID])
}

func TestBookingViews(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	mine, err := env.booking.CreateBooking(ctx, alice, window(baseTime, 1))
	require.NoError(t, err)
	orphan := window(baseTime, 1)
	orphan.StationID = "station-gone"
	_, err = env.booking.CreateBooking(ctx, alice, orphan)
	require.NoError(t, err)
	_, err = env.booking.CreateBooking(ctx, bob, window(baseTime, 1))
	require.NoError(t, err)

	views, err := env.booking.ListUserBookings(ctx, alice.UserID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, mine.ID, views[0].Booking.ID)
	require.NotNil(t, views[0].Station.Station)
	assert.Equal(t, "EV Charge Paulista", views[0].Station.Station.Name)
	assert.False(t, views[0].Station.Dangling)
	assert.True(t, views[1].Station.Dangling)
	assert.Equal(t, "station-gone", views[1].Station.StationID)

	_, err = env.booking.GetBooking(ctx, bob, mine.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	view, err := env.booking.GetBooking(ctx, admin, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, view.Booking.ID)
}

func TestEstimateForStation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	est, err := env.booking.EstimateForStation(ctx, "station-2", 2)
	require.NoError(t, err)
	assert.Equal(t, "station-2", est.StationID)
	assert.InDelta(t, 80, est.EnergyKWh, 1e-9)
	assert.InDelta(t, 2*40*0.79, est.Amount, 1e-9)

	_, err = env.booking.EstimateForStation(ctx, "station-404", 2)
	assert.ErrorIs(t, err, ErrStationNotFound)
}
