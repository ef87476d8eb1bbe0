package service

import (
	"context"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/queue"
)

// Lookups return (nil, nil) when the row does not exist.  Any non-nil
// error is a store failure.

type EnrollmentStore interface {
	FindEnrollmentByUser(ctx context.Context, userID uint64) (*model.Enrollment, error)
}

type EnrollmentRepository interface {
	EnrollmentStore
	UpsertEnrollment(ctx context.Context, e *model.Enrollment) error
}

type TicketStore interface {
	FindTicketByEnrollment(ctx context.Context, enrollmentID uint64) (*model.Ticket, error)
}

type TicketRepository interface {
	TicketStore
	ListTicketTypes(ctx context.Context) ([]model.TicketType, error)
	FindTicketType(ctx context.Context, id uint64) (*model.TicketType, error)
	CreateTicket(ctx context.Context, t *model.Ticket) error
}

// RoomStore reads rooms and their occupancy.  LockRoom behaves like
// FindRoomByID but, inside WithTx, keeps the room row locked against
// other writers until the transaction ends.
type RoomStore interface {
	FindRoomByID(ctx context.Context, roomID uint64) (*model.Room, error)
	LockRoom(ctx context.Context, roomID uint64) (*model.Room, error)
	CountBookingsForRoom(ctx context.Context, roomID uint64) (int, error)
}

type HotelStore interface {
	ListHotels(ctx context.Context) ([]model.Hotel, error)
	FindHotelByID(ctx context.Context, hotelID uint64) (*model.Hotel, error)
	ListRoomsByHotel(ctx context.Context, hotelID uint64) ([]model.Room, error)
}

// BookingStore is everything the allocator needs from persistence.
// CreateBooking must enforce one booking per user and report a second
// one as repository.ErrDuplicate.  ReassignBookingRoom returns nil when
// no booking has the given id.
type BookingStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	EnrollmentStore
	TicketStore
	RoomStore
	CreateBooking(ctx context.Context, userID, roomID uint64) (*model.Booking, error)
	FindBookingByUser(ctx context.Context, userID uint64) (*model.Booking, error)
	ReassignBookingRoom(ctx context.Context, bookingID, roomID uint64) (*model.Booking, error)
}

// EventPublisher delivers booking events to downstream consumers.
type EventPublisher interface {
	PublishBooking(ctx context.Context, ev queue.BookingEvent) error
}
