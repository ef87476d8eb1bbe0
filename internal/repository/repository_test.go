package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewStore(db), mock
}

var (
	now        = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	roomCols   = []string{"id", "hotel_id", "name", "capacity", "created_at", "updated_at"}
	bookedCols = []string{"id", "user_id", "room_id", "created_at", "updated_at",
		"r.id", "hotel_id", "name", "capacity", "r.created_at", "r.updated_at"}
)

func bookingRow(id, userID, roomID int64, capacity int) *sqlmock.Rows {
	return sqlmock.NewRows(bookedCols).AddRow(id, userID, roomID, now, now, roomID, int64(1), "101", capacity, now, now)
}

func TestBookingInsideLockedRoomTransaction(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms WHERE id = ? FOR UPDATE")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(roomCols).AddRow(int64(10), int64(1), "101", 2, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings WHERE room_id = ?")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings (user_id, room_id) VALUES (?, ?)")).
		WithArgs(int64(5), int64(10)).
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = ?")).
		WithArgs(int64(77)).
		WillReturnRows(bookingRow(77, 5, 10, 2))
	mock.ExpectCommit()

	var created *model.Booking
	err := store.WithTx(context.Background(), func(ctx context.Context) error {
		room, err := store.LockRoom(ctx, 10)
		if err != nil {
			return err
		}
		n, err := store.CountBookingsForRoom(ctx, room.ID)
		if err != nil {
			return err
		}
		require.Equal(t, 1, n)
		created, err = store.CreateBooking(ctx, 5, room.ID)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint64(77), created.ID)
	require.NotNil(t, created.Room)
	assert.Equal(t, 2, created.Room.Capacity)
}

func TestCreateBooking_DuplicateUserRollsBack(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '5' for key 'bookings.user_id'"})
	mock.ExpectRollback()

	err := store.WithTx(context.Background(), func(ctx context.Context) error {
		_, err := store.CreateBooking(ctx, 5, 10)
		return err
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestWithTx_CommitDeadlockIsConflict(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"})

	err := store.WithTx(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrConflict)
}

func TestWithTx_NestedJoinsOuter(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := store.WithTx(context.Background(), func(ctx context.Context) error {
		return store.WithTx(ctx, func(inner context.Context) error {
			calls++
			assert.Same(t, txFromContext(ctx), txFromContext(inner))
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithTx_CallbackErrorRollsBack(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := store.WithTx(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestWithTx_CancelledBeforeCommitRollsBack(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(int64(5), int64(10)).
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = ?")).
		WithArgs(int64(77)).
		WillReturnRows(bookingRow(77, 5, 10, 2))
	mock.ExpectRollback()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err := store.WithTx(ctx, func(txCtx context.Context) error {
		_, err := store.CreateBooking(txCtx, 5, 10)
		cancel()
		return err
	})
	assert.ErrorIs(t, err, context.Canceled)

	// database/sql may roll back from its own watcher goroutine.
	assert.Eventually(t, func() bool { return mock.ExpectationsWereMet() == nil }, time.Second, 5*time.Millisecond)
}

func TestCountBookingsForRoom_DeadlockIsConflict(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings WHERE room_id = ?")).
		WithArgs(int64(10)).
		WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"})

	_, err := store.CountBookingsForRoom(context.Background(), 10)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestFindRoomByID_Missing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms WHERE id = ?")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(roomCols))

	room, err := store.FindRoomByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, room)
}

func TestLockRoom_LockWaitTimeout(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnError(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"})

	_, err := store.LockRoom(context.Background(), 10)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestReassignBookingRoom(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET room_id = ? WHERE id = ?")).
		WithArgs(int64(11), int64(77)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = ?")).
		WithArgs(int64(77)).
		WillReturnRows(bookingRow(77, 5, 11, 3))

	b, err := store.ReassignBookingRoom(context.Background(), 77, 11)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), b.RoomID)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs(int64(11), int64(78)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = ?")).
		WithArgs(int64(78)).
		WillReturnRows(sqlmock.NewRows(bookedCols))

	b, err = store.ReassignBookingRoom(context.Background(), 78, 11)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestFindTicketByEnrollment(t *testing.T) {
	store, mock := newMockStore(t)

	cols := []string{"id", "enrollment_id", "ticket_type_id", "status", "created_at", "updated_at",
		"tt.id", "name", "price_cents", "is_remote", "includes_hotel", "tt.created_at", "tt.updated_at"}
	mock.ExpectQuery(regexp.QuoteMeta("JOIN ticket_types tt ON tt.id = t.ticket_type_id")).
		WithArgs(int64(500)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			int64(9), int64(500), int64(3), "PAID", now, now,
			int64(3), "Presencial + Hotel", int64(60000), false, true, now, now))

	ticket, err := store.FindTicketByEnrollment(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusPaid, ticket.Status)
	assert.True(t, ticket.AllowsHotel())
}

func TestCreateTicket_Duplicate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tickets")).
		WithArgs(int64(500), int64(3), "RESERVED").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := store.CreateTicket(context.Background(), &model.Ticket{EnrollmentID: 500, TicketTypeID: 3, Status: model.TicketStatusReserved})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUpsertEnrollment_Reloads(t *testing.T) {
	store, mock := newMockStore(t)
	birthday := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE")).
		WithArgs(int64(9), "Ana", "12345678901", sqlmock.AnyArg(), "").
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments WHERE user_id = ?")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "cpf", "birthday", "phone", "created_at", "updated_at"}).
			AddRow(int64(31), int64(9), "Ana", "12345678901", birthday, "", now, now))

	e := &model.Enrollment{UserID: 9, Name: "Ana", CPF: "12345678901", Birthday: birthday}
	require.NoError(t, store.UpsertEnrollment(context.Background(), e))
	assert.Equal(t, uint64(31), e.ID)
	assert.Equal(t, now, e.CreatedAt)
}

func TestListRoomsByHotel_CountsBookings(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN bookings b ON b.room_id = r.id")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(append(roomCols, "booked")).
			AddRow(int64(70), int64(7), "101", 3, now, now, 2).
			AddRow(int64(71), int64(7), "102", 1, now, now, 0))

	rooms, err := store.ListRoomsByHotel(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, 2, rooms[0].Booked)
	assert.Equal(t, 1, rooms[1].Capacity)
}

func TestClassify(t *testing.T) {
	plain := errors.New("plain")
	assert.Same(t, plain, classify(plain))
	assert.ErrorIs(t, classify(&mysql.MySQLError{Number: 1062}), ErrDuplicate)
	assert.ErrorIs(t, classify(&mysql.MySQLError{Number: 1205}), ErrConflict)
	assert.ErrorIs(t, classify(&mysql.MySQLError{Number: 1213}), ErrConflict)

	other := &mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"}
	assert.Equal(t, error(other), classify(other))
	assert.ErrorIs(t, classify(sql.ErrNoRows), sql.ErrNoRows)
}
