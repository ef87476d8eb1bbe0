package repository

import (
	"context"
	"database/sql"
)

// Store bundles the repositories over one database handle and provides
// the transaction scope they share.  Repository calls made with the
// context handed to WithTx's callback run inside that transaction.
type Store struct {
	db *sql.DB
	*EnrollmentRepo
	*TicketRepo
	*RoomRepo
	*HotelRepo
	*BookingRepo
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:             db,
		EnrollmentRepo: NewEnrollmentRepo(db),
		TicketRepo:     NewTicketRepo(db),
		RoomRepo:       NewRoomRepo(db),
		HotelRepo:      NewHotelRepo(db),
		BookingRepo:    NewBookingRepo(db),
	}
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, s.db, fn)
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }
