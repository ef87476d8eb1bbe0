// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types, also used as routing keys.
const (
	BookingCreated = "booking.created"
	BookingUpdated = "booking.updated"
)

// BookingEvent is published after a booking is created or moved to
// another room.  It carries enough for consumers to log or notify
// without querying the primary database.
type BookingEvent struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	BookingID  uint64 `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	RoomID     uint64 `json:"room_id"`
	OccurredAt string `json:"occurred_at"`
}

func NewBookingEvent(kind string, bookingID, userID, roomID uint64, at time.Time) BookingEvent {
	return BookingEvent{
		ID:         uuid.NewString(),
		Type:       kind,
		BookingID:  bookingID,
		UserID:     userID,
		RoomID:     roomID,
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
}

// Discard drops every event.  It stands in when no broker is configured.
type Discard struct{}

func (Discard) PublishBooking(context.Context, BookingEvent) error { return nil }
