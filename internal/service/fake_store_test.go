package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/queue"
	"github.com/iliyamo/event-hotel-booking/internal/repository"
)

// memStore is an in-memory BookingStore.  WithTx runs one transaction at
// a time and restores the booking table when fn fails, which is the
// visible behaviour of the room row lock plus rollback in MySQL.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	enrollments map[uint64]*model.Enrollment // by user
	tickets     map[uint64]*model.Ticket     // by enrollment
	ticketTypes map[uint64]*model.TicketType
	hotels      map[uint64]*model.Hotel
	rooms       map[uint64]*model.Room
	bookings    map[uint64]*model.Booking
	nextID      uint64

	lockDelay time.Duration // widens the race window inside a transaction
	createErr error
}

func newMemStore() *memStore {
	return &memStore{
		enrollments: map[uint64]*model.Enrollment{},
		tickets:     map[uint64]*model.Ticket{},
		ticketTypes: map[uint64]*model.TicketType{},
		hotels:      map[uint64]*model.Hotel{},
		rooms:       map[uint64]*model.Room{},
		bookings:    map[uint64]*model.Booking{},
		nextID:      100,
	}
}

// addAttendee enrolls userID with a ticket of the given kind.
func (m *memStore) addAttendee(userID uint64, status model.TicketStatus, remote, hotel bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	enrollmentID := m.nextID
	m.enrollments[userID] = &model.Enrollment{ID: enrollmentID, UserID: userID, Name: "attendee"}
	m.nextID++
	m.tickets[enrollmentID] = &model.Ticket{
		ID:           m.nextID,
		EnrollmentID: enrollmentID,
		Status:       status,
		TicketType:   model.TicketType{IsRemote: remote, IncludesHotel: hotel},
	}
}

func (m *memStore) addEligible(userIDs ...uint64) {
	for _, id := range userIDs {
		m.addAttendee(id, model.TicketStatusPaid, false, true)
	}
}

func (m *memStore) addRoom(id, hotelID uint64, capacity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[id] = &model.Room{ID: id, HotelID: hotelID, Name: "room", Capacity: capacity}
}

func (m *memStore) bookingCount(roomID uint64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked(roomID)
}

func (m *memStore) countLocked(roomID uint64) int {
	n := 0
	for _, b := range m.bookings {
		if b.RoomID == roomID {
			n++
		}
	}
	return n
}

func (m *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := make(map[uint64]model.Booking, len(m.bookings))
	for id, b := range m.bookings {
		snapshot[id] = *b
	}
	m.mu.Unlock()

	err := fn(ctx)
	if err == nil {
		// A context that ended before commit aborts the transaction.
		err = ctx.Err()
	}
	if err != nil {
		m.mu.Lock()
		m.bookings = make(map[uint64]*model.Booking, len(snapshot))
		for id, b := range snapshot {
			b := b
			m.bookings[id] = &b
		}
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) FindEnrollmentByUser(_ context.Context, userID uint64) (*model.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.enrollments[userID]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) UpsertEnrollment(_ context.Context, e *model.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.enrollments[e.UserID]; ok {
		e.ID = cur.ID
		e.CreatedAt = cur.CreatedAt
	} else {
		m.nextID++
		e.ID = m.nextID
		e.CreatedAt = time.Now()
	}
	e.UpdatedAt = time.Now()
	cp := *e
	m.enrollments[e.UserID] = &cp
	return nil
}

func (m *memStore) FindTicketByEnrollment(_ context.Context, enrollmentID uint64) (*model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[enrollmentID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) ListTicketTypes(context.Context) ([]model.TicketType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.TicketType, 0, len(m.ticketTypes))
	for _, tt := range m.ticketTypes {
		out = append(out, *tt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) FindTicketType(_ context.Context, id uint64) (*model.TicketType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tt, ok := m.ticketTypes[id]
	if !ok {
		return nil, nil
	}
	cp := *tt
	return &cp, nil
}

func (m *memStore) CreateTicket(_ context.Context, t *model.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tickets[t.EnrollmentID]; ok {
		return repository.ErrDuplicate
	}
	m.nextID++
	t.ID = m.nextID
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	m.tickets[t.EnrollmentID] = &cp
	return nil
}

func (m *memStore) ListHotels(context.Context) ([]model.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Hotel, 0, len(m.hotels))
	for _, h := range m.hotels {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) FindHotelByID(_ context.Context, hotelID uint64) (*model.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hotels[hotelID]
	if !ok {
		return nil, nil
	}
	cp := *h
	return &cp, nil
}

func (m *memStore) ListRoomsByHotel(_ context.Context, hotelID uint64) ([]model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Room
	for _, r := range m.rooms {
		if r.HotelID == hotelID {
			cp := *r
			cp.Booked = m.countLocked(r.ID)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) FindRoomByID(_ context.Context, roomID uint64) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[roomID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) LockRoom(ctx context.Context, roomID uint64) (*model.Room, error) {
	if m.lockDelay > 0 {
		time.Sleep(m.lockDelay)
	}
	return m.FindRoomByID(ctx, roomID)
}

func (m *memStore) CountBookingsForRoom(_ context.Context, roomID uint64) (int, error) {
	return m.bookingCount(roomID), nil
}

func (m *memStore) CreateBooking(_ context.Context, userID, roomID uint64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	for _, b := range m.bookings {
		if b.UserID == userID {
			return nil, repository.ErrDuplicate
		}
	}
	m.nextID++
	now := time.Now()
	b := &model.Booking{ID: m.nextID, UserID: userID, RoomID: roomID, CreatedAt: now, UpdatedAt: now}
	m.bookings[b.ID] = b
	return m.withRoomLocked(b), nil
}

func (m *memStore) FindBookingByUser(_ context.Context, userID uint64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.UserID == userID {
			return m.withRoomLocked(b), nil
		}
	}
	return nil, nil
}

func (m *memStore) ReassignBookingRoom(_ context.Context, bookingID, roomID uint64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	b.RoomID = roomID
	b.UpdatedAt = time.Now()
	return m.withRoomLocked(b), nil
}

func (m *memStore) withRoomLocked(b *model.Booking) *model.Booking {
	cp := *b
	if r, ok := m.rooms[b.RoomID]; ok {
		room := *r
		cp.Room = &room
	}
	return &cp
}

// recorder collects published booking events.
type recorder struct {
	mu     sync.Mutex
	events []queue.BookingEvent
	err    error
}

func (r *recorder) PublishBooking(_ context.Context, ev queue.BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recorder) snapshot() []queue.BookingEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]queue.BookingEvent(nil), r.events...)
}

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}
