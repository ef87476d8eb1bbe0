package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

// CapacityTracker compares a room's current occupancy with its capacity.
type CapacityTracker struct {
	rooms RoomStore
}

func NewCapacityTracker(rooms RoomStore) *CapacityTracker {
	return &CapacityTracker{rooms: rooms}
}

// CheckCapacity returns how many more bookings the room accepts.  It
// fails with ErrNotFound for an unknown room and ErrInvalidBooking when
// the room is full.  The answer is only a snapshot; writers must go
// through Claim.
func (t *CapacityTracker) CheckCapacity(ctx context.Context, roomID uint64) (int, error) {
	room, err := t.rooms.FindRoomByID(ctx, roomID)
	if err != nil {
		return 0, fmt.Errorf("find room: %w", err)
	}
	return t.remaining(ctx, room)
}

// Claim is CheckCapacity under the room row lock.  Called inside
// BookingStore.WithTx it holds the lock until commit, so the count it
// sees cannot change before the caller's write lands.
func (t *CapacityTracker) Claim(ctx context.Context, roomID uint64) (int, error) {
	room, err := t.rooms.LockRoom(ctx, roomID)
	if err != nil {
		return 0, fmt.Errorf("lock room: %w", err)
	}
	return t.remaining(ctx, room)
}

func (t *CapacityTracker) remaining(ctx context.Context, room *model.Room) (int, error) {
	if room == nil {
		return 0, ErrNotFound
	}
	count, err := t.rooms.CountBookingsForRoom(ctx, room.ID)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	left := room.Capacity - count
	if left <= 0 {
		return 0, ErrInvalidBooking
	}
	return left, nil
}
