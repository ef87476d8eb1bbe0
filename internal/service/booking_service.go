package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/queue"
	"github.com/iliyamo/event-hotel-booking/internal/repository"
)

// BookingService creates, reads and reassigns hotel bookings.  It keeps
// no state between calls; every check is made against the store.
//
// Writes run inside store.WithTx with the target room locked (see
// CapacityTracker.Claim), so two requests racing for the last slot of a
// room are serialised and the second one sees the first one's booking.
type BookingService struct {
	store       BookingStore
	eligibility *Eligibility
	capacity    *CapacityTracker
	events      EventPublisher
	log         *log.Logger

	strictOwnership bool
}

type BookingOption func(*BookingService)

// WithStrictOwnership makes UpdateBooking require that bookingID is the
// caller's own booking and that the caller's ticket still allows a
// hotel.  Without it, any existing booking of the caller authorises the
// reassignment of bookingID.
func WithStrictOwnership(strict bool) BookingOption {
	return func(s *BookingService) { s.strictOwnership = strict }
}

// WithEventPublisher sets where booking events are sent after commit.
func WithEventPublisher(p EventPublisher) BookingOption {
	return func(s *BookingService) {
		if p != nil {
			s.events = p
		}
	}
}

func NewBookingService(store BookingStore, logger *log.Logger, opts ...BookingOption) *BookingService {
	if logger == nil {
		logger = log.New("booking")
	}
	s := &BookingService{
		store:       store,
		eligibility: NewEligibility(store, store),
		capacity:    NewCapacityTracker(store),
		events:      queue.Discard{},
		log:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBooking books roomID for userID and returns the new booking.
func (s *BookingService) CreateBooking(ctx context.Context, roomID, userID uint64) (*model.Booking, error) {
	if err := s.eligibility.CheckBookingEligible(ctx, userID); err != nil {
		return nil, err
	}
	// Cheap rejection of full rooms before taking the row lock.
	if _, err := s.capacity.CheckCapacity(ctx, roomID); err != nil {
		return nil, err
	}

	var created *model.Booking
	err := s.store.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.capacity.Claim(txCtx, roomID); err != nil {
			return err
		}
		b, err := s.store.CreateBooking(txCtx, userID, roomID)
		if err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, s.classify(err, log.JSON{"op": "create_booking", "user_id": userID, "room_id": roomID})
	}

	s.log.Infoj(log.JSON{"msg": "booking created", "booking_id": created.ID, "user_id": userID, "room_id": roomID})
	s.publish(ctx, queue.BookingCreated, created)
	return created, nil
}

// GetBooking returns the user's booking together with its room.
func (s *BookingService) GetBooking(ctx context.Context, userID uint64) (*model.Booking, error) {
	if userID == 0 {
		return nil, invalidData("userId")
	}
	b, err := s.store.FindBookingByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

// UpdateBooking moves booking bookingID to roomID.  The caller must hold
// some booking; unless strict ownership is enabled it does not have to
// be bookingID itself, and the ticket is not checked again.
func (s *BookingService) UpdateBooking(ctx context.Context, userID, roomID uint64, bookingID string) (*model.Booking, error) {
	id, err := ParseID(bookingID)
	if err != nil {
		return nil, invalidData("bookingId")
	}
	if s.strictOwnership {
		if err := s.eligibility.CheckBookingEligible(ctx, userID); err != nil {
			return nil, err
		}
	}
	if _, err := s.capacity.CheckCapacity(ctx, roomID); err != nil {
		return nil, err
	}

	var updated *model.Booking
	err = s.store.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.capacity.Claim(txCtx, roomID); err != nil {
			return err
		}
		current, err := s.store.FindBookingByUser(txCtx, userID)
		if err != nil {
			return fmt.Errorf("find booking: %w", err)
		}
		if current == nil {
			return ErrInvalidBooking
		}
		if s.strictOwnership && current.ID != id {
			return ErrInvalidBooking
		}
		b, err := s.store.ReassignBookingRoom(txCtx, id, roomID)
		if err != nil {
			return fmt.Errorf("reassign booking: %w", err)
		}
		if b == nil {
			return ErrInvalidBooking
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, s.classify(err, log.JSON{"op": "update_booking", "user_id": userID, "room_id": roomID, "booking_id": id})
	}

	s.log.Infoj(log.JSON{"msg": "booking updated", "booking_id": updated.ID, "user_id": userID, "room_id": roomID})
	s.publish(ctx, queue.BookingUpdated, updated)
	return updated, nil
}

// classify turns store-level rejections of a concurrent writer into
// ErrInvalidBooking and passes everything else through.
func (s *BookingService) classify(err error, fields log.JSON) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidBooking):
		return err
	case errors.Is(err, repository.ErrDuplicate), errors.Is(err, repository.ErrConflict):
		fields["msg"] = "booking rejected by store"
		fields["error"] = err.Error()
		s.log.Warnj(fields)
		return ErrInvalidBooking
	}
	fields["msg"] = "booking failed"
	fields["error"] = err.Error()
	s.log.Errorj(fields)
	return err
}

func (s *BookingService) publish(ctx context.Context, kind string, b *model.Booking) {
	ev := queue.NewBookingEvent(kind, b.ID, b.UserID, b.RoomID, time.Now().UTC())
	if err := s.events.PublishBooking(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Warnj(log.JSON{"msg": "publish booking event failed", "type": kind, "booking_id": b.ID, "error": err.Error()})
	}
}

// ParseID parses a positive decimal identifier such as a path parameter.
func ParseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}
