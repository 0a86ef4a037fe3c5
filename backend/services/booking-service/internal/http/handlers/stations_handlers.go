package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"evcharge/backend/services/booking-service/internal/service"
)

// StationsHandlers serves the public station catalog.
type StationsHandlers struct {
	catalog  *service.CatalogService
	bookings *service.BookingService
	logger   *zap.Logger
}

// NewStationsHandlers returns handler.
func NewStationsHandlers(catalog *service.CatalogService, bookings *service.BookingService, logger *zap.Logger) *StationsHandlers {
	return &StationsHandlers{catalog: catalog, bookings: bookings, logger: logger}
}

// List handles GET /api/stations.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	stations, err := h.catalog.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list stations")
		return
	}
	writeJSON(w, http.StatusOK, stations)
}

// Map handles GET /api/stations/map.
func (h *StationsHandlers) Map(w http.ResponseWriter, r *http.Request) {
	markers, err := h.catalog.MapMarkers(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list map markers")
		return
	}
	writeJSON(w, http.StatusOK, markers)
}

// Get handles GET /api/stations/{id}.
func (h *StationsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	station, err := h.catalog.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to load station")
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// Chargers handles GET /api/stations/{id}/chargers.
func (h *StationsHandlers) Chargers(w http.ResponseWriter, r *http.Request) {
	chargers, err := h.catalog.ListChargers(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list chargers")
		return
	}
	writeJSON(w, http.StatusOK, chargers)
}

// Estimate handles GET /api/stations/{id}/estimate?duration_hours=N. The duration
// defaults to one hour.
func (h *StationsHandlers) Estimate(w http.ResponseWriter, r *http.Request) {
	hours := 1.0
	if raw := r.URL.Query().Get("duration_hours"); raw != "" {
		parsed, ok := parseHours(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "duration_hours must be a non-negative number")
			return
		}
		hours = parsed
	}

	estimate, err := h.bookings.EstimateForStation(r.Context(), mux.Vars(r)["id"], hours)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to estimate cost")
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}
