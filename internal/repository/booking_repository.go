package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

// BookingRepo provides access to the bookings table.  bookings.user_id
// is unique, so the database itself refuses a second booking per user.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingWithRoom = `SELECT b.id, b.user_id, b.room_id, b.created_at, b.updated_at,
                                r.id, r.hotel_id, r.name, r.capacity, r.created_at, r.updated_at
                         FROM bookings b
                         JOIN rooms r ON r.id = b.room_id`

// CreateBooking inserts a booking and returns it with its room.  A
// second booking for the same user yields ErrDuplicate.
func (r *BookingRepo) CreateBooking(ctx context.Context, userID, roomID uint64) (*model.Booking, error) {
	const q = `INSERT INTO bookings (user_id, room_id) VALUES (?, ?)`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, userID, roomID)
	if err != nil {
		return nil, classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	b, err := r.findOne(ctx, bookingWithRoom+` WHERE b.id = ?`, uint64(id))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

// FindBookingByUser returns the user's booking with its room, or nil.
func (r *BookingRepo) FindBookingByUser(ctx context.Context, userID uint64) (*model.Booking, error) {
	return r.findOne(ctx, bookingWithRoom+` WHERE b.user_id = ?`, userID)
}

// ReassignBookingRoom points booking bookingID at roomID and returns the
// updated row, or nil when no booking has that id.  The row is reloaded
// instead of trusting RowsAffected, which MySQL reports as 0 when the
// room does not change.
func (r *BookingRepo) ReassignBookingRoom(ctx context.Context, bookingID, roomID uint64) (*model.Booking, error) {
	const q = `UPDATE bookings SET room_id = ? WHERE id = ?`
	if _, err := conn(ctx, r.db).ExecContext(ctx, q, roomID, bookingID); err != nil {
		return nil, classify(err)
	}
	return r.findOne(ctx, bookingWithRoom+` WHERE b.id = ?`, bookingID)
}

func (r *BookingRepo) findOne(ctx context.Context, q string, arg uint64) (*model.Booking, error) {
	var b model.Booking
	var room model.Room
	err := conn(ctx, r.db).QueryRowContext(ctx, q, arg).Scan(
		&b.ID, &b.UserID, &b.RoomID, &b.CreatedAt, &b.UpdatedAt,
		&room.ID, &room.HotelID, &room.Name, &room.Capacity, &room.CreatedAt, &room.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b.Room = &room
	return &b, nil
}
