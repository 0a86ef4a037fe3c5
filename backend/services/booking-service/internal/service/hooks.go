package service

import (
	"fmt"

	"github.com/google/uuid"

	"evcharge/backend/services/booking-service/internal/models"
)

// Publisher receives change events for live subscribers.
type Publisher interface {
	Publish(event models.Event)
}

// Recorder receives booking counters for metrics.
type Recorder interface {
	BookingEvent(event string)
	PaymentCaptured(amount float64)
}

type nopPublisher struct{}

func (nopPublisher) Publish(models.Event) {}

type nopRecorder struct{}

func (nopRecorder) BookingEvent(string)      {}
func (nopRecorder) PaymentCaptured(float64) {}

// newID returns prefix-<uuid v7>; v7 ids sort by creation time.
func newID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return fmt.Sprintf("%s-%s", prefix, id.String())
}
