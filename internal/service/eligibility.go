package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

// Eligibility decides whether a user's ticket permits a hotel booking.
// It only reads.
type Eligibility struct {
	enrollments EnrollmentStore
	tickets     TicketStore
}

func NewEligibility(enrollments EnrollmentStore, tickets TicketStore) *Eligibility {
	return &Eligibility{enrollments: enrollments, tickets: tickets}
}

// TicketFor resolves the user's enrollment and then its ticket.  Either
// one missing yields ErrNotFound.
func (e *Eligibility) TicketFor(ctx context.Context, userID uint64) (*model.Ticket, error) {
	enrollment, err := e.enrollments.FindEnrollmentByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, ErrNotFound
	}
	ticket, err := e.tickets.FindTicketByEnrollment(ctx, enrollment.ID)
	if err != nil {
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	if ticket == nil {
		return nil, ErrNotFound
	}
	return ticket, nil
}

// CheckBookingEligible succeeds when the user's ticket is paid,
// in-person and includes a hotel.  A remote ticket is rejected even when
// it includes a hotel.
func (e *Eligibility) CheckBookingEligible(ctx context.Context, userID uint64) error {
	ticket, err := e.TicketFor(ctx, userID)
	if err != nil {
		return err
	}
	if !ticket.AllowsHotel() {
		return ErrInvalidBooking
	}
	return nil
}
