package service

import "time"

const (
	// DefaultKWhPerHour is the flat charging rate assumed for every charger.
	DefaultKWhPerHour = 40.0
	// DefaultFallbackPrice is charged per kWh when the booked station no longer exists.
	DefaultFallbackPrice = 0.89
)

// CostModel prices a booking from its duration.
type CostModel struct {
	KWhPerHour    float64
	FallbackPrice float64
}

// Estimate is a priced charging window.
type Estimate struct {
	StationID     string  `json:"station_id,omitempty"`
	DurationHours float64 `json:"duration_hours"`
	EnergyKWh     float64 `json:"energy_kwh"`
	PricePerKWh   float64 `json:"price_per_kwh"`
	Amount        float64 `json:"amount"`
}

// DurationHours returns end-start in fractional hours.
func DurationHours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

func (m CostModel) rate() float64 {
	if m.KWhPerHour <= 0 {
		return DefaultKWhPerHour
	}
	return m.KWhPerHour
}

func (m CostModel) fallback() float64 {
	if m.FallbackPrice <= 0 {
		return DefaultFallbackPrice
	}
	return m.FallbackPrice
}

// EnergyKWh is the energy delivered over hours.
func (m CostModel) EnergyKWh(hours float64) float64 {
	return hours * m.rate()
}

// EstimateCost is hours × kWh-per-hour × pricePerKWh.
func (m CostModel) EstimateCost(hours, pricePerKWh float64) float64 {
	return m.EnergyKWh(hours) * pricePerKWh
}

// Estimate prices hours at pricePerKWh.
func (m CostModel) Estimate(hours, pricePerKWh float64) Estimate {
	return Estimate{
		DurationHours: hours,
		EnergyKWh:     m.EnergyKWh(hours),
		PricePerKWh:   pricePerKWh,
		Amount:        m.EstimateCost(hours, pricePerKWh),
	}
}
