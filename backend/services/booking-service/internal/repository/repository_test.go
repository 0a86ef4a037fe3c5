package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evcharge/backend/services/booking-service/internal/models"
	"evcharge/backend/services/booking-service/internal/store"
)

func seededStore() *store.Store {
	return store.New(store.NewMemoryBackend(), store.DefaultSeed())
}

func TestStationRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewStationRepository(seededStore())

	_, err := repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrStationNotFound)

	_, err = repo.Update(ctx, "nope", func(*models.Station) error { return nil })
	assert.ErrorIs(t, err, ErrStationNotFound)

	removed, err := repo.Delete(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestChargerRepositoryListByStation(t *testing.T) {
	repo := NewChargerRepository(seededStore())
	chargers, err := repo.ListByStation(context.Background(), "station-2")
	require.NoError(t, err)
	require.Len(t, chargers, 4)
	for _, c := range chargers {
		assert.Equal(t, "station-2", c.StationID)
	}
}

func TestUserRepositoryGetByEmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(seededStore())

	user, err := repo.GetByEmail(ctx, "  Admin@EVCharge.com ")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = repo.GetByEmail(ctx, "ghost@email.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, repo.Create(ctx, &models.User{ID: "user-9", Email: " NEW@Email.com", Role: models.RoleUser}))
	created, err := repo.GetByID(ctx, "user-9")
	require.NoError(t, err)
	assert.Equal(t, "new@email.com", created.Email)
}

func TestSessionRepositoryComplete(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(seededStore())
	require.NoError(t, repo.Save(ctx, &models.ChargingSession{ID: "session-b1", BookingID: "b1", Status: models.ChargingSessionActive}))

	end := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	session, err := repo.Complete(ctx, "session-b1", end)
	require.NoError(t, err)
	assert.Equal(t, models.ChargingSessionCompleted, session.Status)
	require.NotNil(t, session.EndTime)
	assert.True(t, end.Equal(*session.EndTime))

	_, err = repo.Complete(ctx, "session-missing", end)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestBookingRepositoryFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(seededStore())
	require.NoError(t, repo.Create(ctx, &models.Booking{ID: "b1", UserID: "u1", Status: models.BookingPending}))
	require.NoError(t, repo.Create(ctx, &models.Booking{ID: "b2", UserID: "u2", Status: models.BookingActive}))
	require.NoError(t, repo.Create(ctx, &models.Booking{ID: "b3", UserID: "u1", Status: models.BookingActive}))

	mine, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	active, err := repo.ListByStatus(ctx, models.BookingActive)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	_, err = repo.Get(ctx, "b9")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
