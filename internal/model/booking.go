package model

import "time"

// Booking assigns one user to one room.  A user holds at most one
// booking (bookings.user_id is unique).  Room is populated when the
// booking is loaded together with its room.
type Booking struct {
	ID        uint64    // bookings.id
	UserID    uint64    // bookings.user_id
	RoomID    uint64    // bookings.room_id
	Room      *Room     // joined rooms row (nil when not loaded)
	CreatedAt time.Time // bookings.created_at
	UpdatedAt time.Time // bookings.updated_at
}
