package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"evcharge/backend/services/booking-service/internal/models"
	"evcharge/backend/services/booking-service/internal/repository"
	"evcharge/backend/services/booking-service/internal/store"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(ev models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type recordingRecorder struct {
	mu       sync.Mutex
	events   map[string]int
	captured float64
}

func (r *recordingRecorder) BookingEvent(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.events == nil {
		r.events = map[string]int{}
	}
	r.events[event]++
}

func (r *recordingRecorder) PaymentCaptured(amount float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.captured += amount
}

type testEnv struct {
	store     *store.Store
	stations  *repository.StationRepository
	chargers  *repository.ChargerRepository
	bookings  *repository.BookingRepository
	sessions  *repository.SessionRepository
	payments  *repository.PaymentRepository
	users     *repository.UserRepository
	events    *recordingPublisher
	recorder  *recordingRecorder
	catalog   *CatalogService
	booking   *BookingService
	dashboard *DashboardService
}

var (
	alice = models.Identity{UserID: "user-1", Role: models.RoleUser}
	bob   = models.Identity{UserID: "user-2", Role: models.RoleUser}
	admin = models.Identity{UserID: "admin-1", Role: models.RoleAdmin}
)

func newTestEnv(t *testing.T, gateway PaymentGateway) *testEnv {
	t.Helper()
	s := store.New(store.NewMemoryBackend(), store.DefaultSeed())
	env := &testEnv{
		store:    s,
		stations: repository.NewStationRepository(s),
		chargers: repository.NewChargerRepository(s),
		bookings: repository.NewBookingRepository(s),
		sessions: repository.NewSessionRepository(s),
		payments: repository.NewPaymentRepository(s),
		users:    repository.NewUserRepository(s),
		events:   &recordingPublisher{},
		recorder: &recordingRecorder{},
	}
	logger := zap.NewNop()
	env.catalog = NewCatalogService(env.stations, env.chargers, env.events, logger)
	env.booking = NewBookingService(BookingServiceDeps{
		Bookings: env.bookings,
		Stations: env.stations,
		Sessions: env.sessions,
		Payments: env.payments,
		Gateway:  gateway,
		Events:   env.events,
		Recorder: env.recorder,
		Logger:   logger,
	})
	env.dashboard = NewDashboardService(env.stations, env.bookings)
	return env
}

func window(start time.Time, hours float64) CreateBookingInput {
	return CreateBookingInput{
		StationID: "station-1",
		StartTime: start,
		EndTime:   start.Add(time.Duration(hours * float64(time.Hour))),
	}
}

var baseTime = time.Date(2024, time.June, 10, 14, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func mustCreateStation(t *testing.T, env *testEnv, input StationInput) *models.Station {
	t.Helper()
	st, err := env.catalog.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create station: %v", err)
	}
	return st
}
