package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/repository"
)

// ErrTicketExists is returned when the enrollment already has a ticket.
var ErrTicketExists = errors.New("ticket already issued for this enrollment")

// TicketService issues and reads tickets.  Payment, which moves a ticket
// from RESERVED to PAID, happens elsewhere.
type TicketService struct {
	enrollments EnrollmentStore
	tickets     TicketRepository
	log         *log.Logger
}

func NewTicketService(enrollments EnrollmentStore, tickets TicketRepository, logger *log.Logger) *TicketService {
	if logger == nil {
		logger = log.New("tickets")
	}
	return &TicketService{enrollments: enrollments, tickets: tickets, log: logger}
}

func (s *TicketService) GetTicketTypes(ctx context.Context) ([]model.TicketType, error) {
	types, err := s.tickets.ListTicketTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ticket types: %w", err)
	}
	return types, nil
}

// GetTicket returns the caller's ticket with its type.
func (s *TicketService) GetTicket(ctx context.Context, userID uint64) (*model.Ticket, error) {
	return NewEligibility(s.enrollments, s.tickets).TicketFor(ctx, userID)
}

// ReserveTicket issues a RESERVED ticket of the given type for the
// caller's enrollment.
func (s *TicketService) ReserveTicket(ctx context.Context, userID, ticketTypeID uint64) (*model.Ticket, error) {
	enrollment, err := s.enrollments.FindEnrollmentByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, ErrNotFound
	}
	if ticketTypeID == 0 {
		return nil, invalidData("ticketTypeId")
	}
	tt, err := s.tickets.FindTicketType(ctx, ticketTypeID)
	if err != nil {
		return nil, fmt.Errorf("find ticket type: %w", err)
	}
	if tt == nil {
		return nil, ErrNotFound
	}

	t := &model.Ticket{
		EnrollmentID: enrollment.ID,
		TicketTypeID: tt.ID,
		Status:       model.TicketStatusReserved,
		TicketType:   *tt,
	}
	if err := s.tickets.CreateTicket(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrTicketExists
		}
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	s.log.Infoj(log.JSON{"msg": "ticket reserved", "ticket_id": t.ID, "user_id": userID, "ticket_type_id": tt.ID})
	return t, nil
}
