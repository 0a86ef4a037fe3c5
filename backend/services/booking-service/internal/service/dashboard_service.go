package service

import (
	"context"
	"math"
	"sort"

	"evcharge/backend/services/booking-service/internal/models"
	"evcharge/backend/services/booking-service/internal/repository"
)

// StationRevenue aggregates paid bookings of one station.
type StationRevenue struct {
	StationID   string  `json:"station_id"`
	StationName string  `json:"station_name,omitempty"`
	Dangling    bool    `json:"dangling"`
	Revenue     float64 `json:"revenue"`
	Sessions    int     `json:"sessions"`
}

// Summary is the admin dashboard.
type Summary struct {
	TotalStations       int              `json:"total_stations"`
	TotalChargers       int              `json:"total_chargers"`
	AvailableChargers   int              `json:"available_chargers"`
	AvailabilityPercent float64          `json:"availability_percent"`
	ActiveBookings      int              `json:"active_bookings"`
	TotalBookings       int              `json:"total_bookings"`
	TotalRevenue        float64          `json:"total_revenue"`
	Stations            []StationRevenue `json:"stations"`
}

// DashboardService computes admin KPIs.
type DashboardService struct {
	stations *repository.StationRepository
	bookings *repository.BookingRepository
}

// NewDashboardService builds DashboardService.
func NewDashboardService(stations *repository.StationRepository, bookings *repository.BookingRepository) *DashboardService {
	return &DashboardService{stations: stations, bookings: bookings}
}

// Summary computes capacity and revenue figures. Availability is a whole percentage,
// zero when there are no chargers. Revenue counts paid bookings only; bookings of
// deleted stations are grouped under their dangling station id after the live stations.
func (s *DashboardService) Summary(ctx context.Context) (*Summary, error) {
	stations, err := s.stations.List(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalStations: len(stations),
		TotalBookings: len(bookings),
		Stations:      make([]StationRevenue, 0, len(stations)),
	}
	index := make(map[string]int, len(stations))
	for _, st := range stations {
		summary.TotalChargers += st.TotalChargers
		summary.AvailableChargers += st.AvailableChargers
		index[st.ID] = len(summary.Stations)
		summary.Stations = append(summary.Stations, StationRevenue{StationID: st.ID, StationName: st.Name})
	}
	if summary.TotalChargers > 0 {
		summary.AvailabilityPercent = math.Round(float64(summary.AvailableChargers) / float64(summary.TotalChargers) * 100)
	}

	dangling := make(map[string]*StationRevenue)
	for _, b := range bookings {
		if b.Status == models.BookingActive {
			summary.ActiveBookings++
		}
		if b.PaymentStatus != models.PaymentPaid {
			continue
		}
		cost := 0.0
		if b.TotalCost != nil {
			cost = *b.TotalCost
		}
		summary.TotalRevenue += cost

		var row *StationRevenue
		if i, ok := index[b.StationID]; ok {
			row = &summary.Stations[i]
		} else {
			row = dangling[b.StationID]
			if row == nil {
				row = &StationRevenue{StationID: b.StationID, Dangling: true}
				dangling[b.StationID] = row
			}
		}
		row.Revenue += cost
		row.Sessions++
	}

	orphans := make([]string, 0, len(dangling))
	for id := range dangling {
		orphans = append(orphans, id)
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		summary.Stations = append(summary.Stations, *dangling[id])
	}
	return summary, nil
}
