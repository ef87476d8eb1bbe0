package model

import "time"

// Hotel is an accommodation partner of the event.  Hotels are managed
// outside this service; the booking core only reads them.
type Hotel struct {
	ID        uint64    // hotels.id
	Name      string    // hotels.name
	Image     string    // hotels.image
	CreatedAt time.Time // hotels.created_at
	UpdatedAt time.Time // hotels.updated_at
}

// Room is a bookable room of a hotel.  Capacity is the maximum number
// of simultaneous bookings the room accepts and is always positive.
// Booked is filled in by listing queries that count bookings per room
// and is zero otherwise.
type Room struct {
	ID        uint64    // rooms.id
	HotelID   uint64    // rooms.hotel_id
	Name      string    // rooms.name
	Capacity  int       // rooms.capacity
	Booked    int       // COUNT(bookings) for listing queries
	CreatedAt time.Time // rooms.created_at
	UpdatedAt time.Time // rooms.updated_at
}
