package store

import (
	"fmt"
	"time"

	"evcharge/backend/services/booking-service/internal/models"
)

var seedEpoch = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

// DefaultSeed is the canned demo dataset: stations around São Paulo, their chargers and
// two accounts. Bookings, sessions and payments start empty.
func DefaultSeed() Seed {
	stations := seedStations()
	return Seed{
		BucketStations: stations,
		BucketChargers: seedChargers(stations),
		BucketBookings: []models.Booking{},
		BucketSessions: []models.ChargingSession{},
		BucketPayments: []models.Payment{},
		BucketUsers:    seedUsers(),
	}
}

func seedStations() []models.Station {
	stations := []models.Station{
		{
			ID:                "station-1",
			Name:              "EV Charge Paulista",
			Address:           "Av. Paulista, 1578",
			City:              "São Paulo",
			State:             "SP",
			Latitude:          -23.5614,
			Longitude:         -46.6558,
			TotalChargers:     6,
			AvailableChargers: 4,
			PowerOutput:       "150kW",
			ConnectorTypes:    []string{"CCS2", "Type 2", "CHAdeMO"},
			Amenities:         []string{"Wi-Fi", "Café", "Banheiro"},
			PricePerKWh:       0.89,
			Status:            models.StationActive,
		},
		{
			ID:                "station-2",
			Name:              "EV Charge Ibirapuera",
			Address:           "Av. Pedro Álvares Cabral, s/n",
			City:              "São Paulo",
			State:             "SP",
			Latitude:          -23.5874,
			Longitude:         -46.6576,
			TotalChargers:     4,
			AvailableChargers: 2,
			PowerOutput:       "50kW",
			ConnectorTypes:    []string{"CCS2", "Type 2"},
			Amenities:         []string{"Estacionamento", "Parque"},
			PricePerKWh:       0.79,
			Status:            models.StationActive,
		},
		{
			ID:                "station-3",
			Name:              "EV Charge Pinheiros",
			Address:           "Rua dos Pinheiros, 870",
			City:              "São Paulo",
			State:             "SP",
			Latitude:          -23.5670,
			Longitude:         -46.6911,
			TotalChargers:     3,
			AvailableChargers: 0,
			PowerOutput:       "22kW",
			ConnectorTypes:    []string{"Type 2"},
			Amenities:         []string{"Restaurante"},
			PricePerKWh:       0.69,
			Status:            models.StationActive,
		},
		{
			ID:                "station-4",
			Name:              "EV Charge Vila Olímpia",
			Address:           "Rua Funchal, 418",
			City:              "São Paulo",
			State:             "SP",
			Latitude:          -23.5955,
			Longitude:         -46.6863,
			TotalChargers:     8,
			AvailableChargers: 8,
			PowerOutput:       "350kW",
			ConnectorTypes:    []string{"CCS2", "CHAdeMO"},
			Amenities:         []string{"Wi-Fi", "Shopping", "Banheiro"},
			PricePerKWh:       1.09,
			Status:            models.StationMaintenance,
		},
	}
	for i := range stations {
		stations[i].OwnerID = "admin-1"
		stations[i].CreatedAt = seedEpoch
		stations[i].UpdatedAt = seedEpoch
	}
	return stations
}

func seedChargers(stations []models.Station) []models.Charger {
	var chargers []models.Charger
	for _, station := range stations {
		connector := "Type 2"
		if len(station.ConnectorTypes) > 0 {
			connector = station.ConnectorTypes[0]
		}
		for n := 1; n <= station.TotalChargers; n++ {
			status := models.ChargerAvailable
			if n > station.AvailableChargers {
				status = models.ChargerOccupied
			}
			if station.Status == models.StationMaintenance {
				status = models.ChargerMaintenance
			}
			chargers = append(chargers, models.Charger{
				ID:            fmt.Sprintf("%s-charger-%d", station.ID, n),
				StationID:     station.ID,
				ChargerNumber: fmt.Sprintf("%02d", n),
				Status:        status,
				ConnectorType: connector,
				PowerOutput:   station.PowerOutput,
			})
		}
	}
	return chargers
}

func seedUsers() []models.User {
	return []models.User{
		{
			ID:        "admin-1",
			Email:     "admin@evcharge.com",
			Name:      "Admin Charger",
			Role:      models.RoleAdmin,
			CreatedAt: seedEpoch,
		},
		{
			ID:        "user-1",
			Email:     "joao@email.com",
			Name:      "João Silva",
			Role:      models.RoleUser,
			Phone:     "+55 11 99999-0000",
			CreatedAt: seedEpoch,
		},
	}
}
