package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/service"
)

type TicketProvider interface {
	GetTicketTypes(ctx context.Context) ([]model.TicketType, error)
	GetTicket(ctx context.Context, userID uint64) (*model.Ticket, error)
	ReserveTicket(ctx context.Context, userID, ticketTypeID uint64) (*model.Ticket, error)
}

// TicketHandler serves /v1/tickets.
type TicketHandler struct {
	Tickets TicketProvider
	Timeout time.Duration
}

func NewTicketHandler(tickets TicketProvider, timeout time.Duration) *TicketHandler {
	return &TicketHandler{Tickets: tickets, Timeout: timeout}
}

// GetTicketTypes handles GET /v1/tickets/types.  An empty catalogue is
// an empty array, not a 404.
func (h *TicketHandler) GetTicketTypes(c echo.Context) error {
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	types, err := h.Tickets.GetTicketTypes(ctx)
	if err != nil {
		return fail(c, err)
	}
	out := make([]ticketTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, newTicketTypeResponse(t))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TicketHandler) GetTicket(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	t, err := h.Tickets.GetTicket(ctx, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, newTicketResponse(t))
}

// ReserveTicket handles POST /v1/tickets with body {"ticketTypeId": n}.
func (h *TicketHandler) ReserveTicket(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	var body struct {
		TicketTypeID *float64 `json:"ticketTypeId"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, &service.InvalidDataError{Field: "body"})
	}
	typeID, err := positiveID(body.TicketTypeID, "ticketTypeId")
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	t, err := h.Tickets.ReserveTicket(ctx, userID, typeID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, newTicketResponse(t))
}
