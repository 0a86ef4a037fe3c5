package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"evcharge/backend/services/booking-service/internal/service"
)

// BookingsHandlers serves the booking endpoints of the signed-in user.
type BookingsHandlers struct {
	bookings *service.BookingService
	logger   *zap.Logger
}

// NewBookingsHandlers returns handler.
func NewBookingsHandlers(bookings *service.BookingService, logger *zap.Logger) *BookingsHandlers {
	return &BookingsHandlers{bookings: bookings, logger: logger}
}

type createBookingRequest struct {
	StationID     string     `json:"station_id"`
	ChargerID     string     `json:"charger_id"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	DurationHours *float64   `json:"duration_hours"`
}

// Create handles POST /api/bookings. The window is given either by end_time or by
// duration_hours counted from start_time.
func (h *BookingsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.StationID = strings.TrimSpace(req.StationID)
	if req.StationID == "" {
		writeError(w, http.StatusBadRequest, "station_id is required")
		return
	}
	if req.StartTime.IsZero() {
		writeError(w, http.StatusBadRequest, "start_time is required")
		return
	}

	var end time.Time
	switch {
	case req.EndTime != nil:
		end = *req.EndTime
	case req.DurationHours != nil:
		if !validHours(*req.DurationHours) {
			writeError(w, http.StatusBadRequest, "duration_hours must be a positive number")
			return
		}
		end = req.StartTime.Add(time.Duration(*req.DurationHours * float64(time.Hour)))
	default:
		writeError(w, http.StatusBadRequest, "end_time or duration_hours is required")
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), identity(r), service.CreateBookingInput{
		StationID: req.StationID,
		ChargerID: strings.TrimSpace(req.ChargerID),
		StartTime: req.StartTime,
		EndTime:   end,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to create booking")
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// List handles GET /api/bookings.
func (h *BookingsHandlers) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.bookings.ListUserBookings(r.Context(), identity(r).UserID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list bookings")
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// Get handles GET /api/bookings/{id}.
func (h *BookingsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.bookings.GetBooking(r.Context(), identity(r), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to load booking")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Pay handles POST /api/bookings/{id}/payment. The call blocks for the gateway delay.
func (h *BookingsHandlers) Pay(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.CompletePayment(r.Context(), identity(r), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to complete payment")
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// Cancel handles POST /api/bookings/{id}/cancel.
func (h *BookingsHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.CancelBooking(r.Context(), identity(r), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to cancel booking")
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// parseHours reads an estimate duration. Zero is allowed; bookings use validHours.
func parseHours(raw string) (float64, bool) {
	hours, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || hours < 0 || math.IsInf(hours, 0) || math.IsNaN(hours) {
		return 0, false
	}
	return hours, true
}

func validHours(hours float64) bool {
	return hours > 0 && !math.IsInf(hours, 0) && !math.IsNaN(hours)
}
