package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"evcharge/backend/services/booking-service/internal/http/handlers"
	"evcharge/backend/services/booking-service/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers     *handlers.AuthHandlers
	StationsHandlers *handlers.StationsHandlers
	BookingsHandlers *handlers.BookingsHandlers
	AdminHandlers    *handlers.AdminHandlers
	HealthHandler    http.HandlerFunc
	MetricsHandler   http.Handler
	LiveFeed         http.HandlerFunc
	Auth             func(http.Handler) http.Handler
	Metrics          func(http.Handler) http.Handler
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := mux.NewRouter()
	if deps.Metrics != nil {
		r.Use(deps.Metrics)
	}

	r.Handle("/health", deps.HealthHandler).Methods(http.MethodGet)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler).Methods(http.MethodGet)
	}
	if deps.LiveFeed != nil {
		r.Handle("/ws/stations", deps.LiveFeed).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/login", deps.AuthHandlers.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", deps.AuthHandlers.Register).Methods(http.MethodPost)

	api.HandleFunc("/stations", deps.StationsHandlers.List).Methods(http.MethodGet)
	api.HandleFunc("/stations/map", deps.StationsHandlers.Map).Methods(http.MethodGet)
	api.HandleFunc("/stations/{id}", deps.StationsHandlers.Get).Methods(http.MethodGet)
	api.HandleFunc("/stations/{id}/chargers", deps.StationsHandlers.Chargers).Methods(http.MethodGet)
	api.HandleFunc("/stations/{id}/estimate", deps.StationsHandlers.Estimate).Methods(http.MethodGet)

	authenticated := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, deps.Auth)
	}
	admin := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, deps.Auth, middleware.RequireAdmin)
	}

	api.Handle("/auth/me", authenticated(deps.AuthHandlers.Me)).Methods(http.MethodGet)

	api.Handle("/bookings", authenticated(deps.BookingsHandlers.Create)).Methods(http.MethodPost)
	api.Handle("/bookings", authenticated(deps.BookingsHandlers.List)).Methods(http.MethodGet)
	api.Handle("/bookings/{id}", authenticated(deps.BookingsHandlers.Get)).Methods(http.MethodGet)
	api.Handle("/bookings/{id}/payment", authenticated(deps.BookingsHandlers.Pay)).Methods(http.MethodPost)
	api.Handle("/bookings/{id}/cancel", authenticated(deps.BookingsHandlers.Cancel)).Methods(http.MethodPost)

	api.Handle("/admin/stations", admin(deps.AdminHandlers.CreateStation)).Methods(http.MethodPost)
	api.Handle("/admin/stations/{id}", admin(deps.AdminHandlers.UpdateStation)).Methods(http.MethodPatch)
	api.Handle("/admin/stations/{id}", admin(deps.AdminHandlers.DeleteStation)).Methods(http.MethodDelete)
	api.Handle("/admin/bookings", admin(deps.AdminHandlers.ListBookings)).Methods(http.MethodGet)
	api.Handle("/admin/bookings/{id}/complete", admin(deps.AdminHandlers.CompleteBooking)).Methods(http.MethodPost)
	api.Handle("/admin/dashboard", admin(deps.AdminHandlers.Dashboard)).Methods(http.MethodGet)

	return r
}
