package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"evcharge/backend/services/booking-service/internal/service"
)

// AdminHandlers serves station management, booking oversight and the dashboard.
type AdminHandlers struct {
	catalog   *service.CatalogService
	bookings  *service.BookingService
	dashboard *service.DashboardService
	logger    *zap.Logger
}

// NewAdminHandlers returns handler.
func NewAdminHandlers(catalog *service.CatalogService, bookings *service.BookingService, dashboard *service.DashboardService, logger *zap.Logger) *AdminHandlers {
	return &AdminHandlers{catalog: catalog, bookings: bookings, dashboard: dashboard, logger: logger}
}

// CreateStation handles POST /api/admin/stations. Omitted fields take the blank form
// defaults and the owner defaults to the caller.
func (h *AdminHandlers) CreateStation(w http.ResponseWriter, r *http.Request) {
	input := service.DefaultStationInput()
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if input.OwnerID == "" {
		input.OwnerID = identity(r).UserID
	}

	station, err := h.catalog.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to create station")
		return
	}
	writeJSON(w, http.StatusCreated, station)
}

// UpdateStation handles PATCH /api/admin/stations/{id}.
func (h *AdminHandlers) UpdateStation(w http.ResponseWriter, r *http.Request) {
	var patch service.StationPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	station, err := h.catalog.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to update station")
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// DeleteStation handles DELETE /api/admin/stations/{id}.
func (h *AdminHandlers) DeleteStation(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.logger, err, "failed to delete station")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBookings handles GET /api/admin/bookings.
func (h *AdminHandlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	views, err := h.bookings.ListBookings(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list bookings")
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// CompleteBooking handles POST /api/admin/bookings/{id}/complete.
func (h *AdminHandlers) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.CompleteBooking(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to complete booking")
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// Dashboard handles GET /api/admin/dashboard.
func (h *AdminHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summary(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to build dashboard")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
