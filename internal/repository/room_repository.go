package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

// RoomRepo reads rooms and their booking counts.
type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, hotel_id, name, capacity, created_at, updated_at`

func (r *RoomRepo) FindRoomByID(ctx context.Context, roomID uint64) (*model.Room, error) {
	return r.findRoom(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, roomID)
}

// LockRoom reads the room with SELECT ... FOR UPDATE.  Inside a
// transaction the row stays locked until commit or rollback, which
// serialises every booking write that targets the room.
func (r *RoomRepo) LockRoom(ctx context.Context, roomID uint64) (*model.Room, error) {
	return r.findRoom(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ? FOR UPDATE`, roomID)
}

func (r *RoomRepo) findRoom(ctx context.Context, q string, roomID uint64) (*model.Room, error) {
	var room model.Room
	err := conn(ctx, r.db).QueryRowContext(ctx, q, roomID).Scan(
		&room.ID, &room.HotelID, &room.Name, &room.Capacity, &room.CreatedAt, &room.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &room, nil
}

func (r *RoomRepo) CountBookingsForRoom(ctx context.Context, roomID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE room_id = ?`
	var n int
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, roomID).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}
