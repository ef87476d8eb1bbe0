package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/service"
)

// BookingAllocator is implemented by *service.BookingService.
type BookingAllocator interface {
	CreateBooking(ctx context.Context, roomID, userID uint64) (*model.Booking, error)
	GetBooking(ctx context.Context, userID uint64) (*model.Booking, error)
	UpdateBooking(ctx context.Context, userID, roomID uint64, bookingID string) (*model.Booking, error)
}

// BookingHandler serves /v1/booking.  JWTAuth must run before every
// method so the caller id is available on the context.
type BookingHandler struct {
	Bookings BookingAllocator
	Timeout  time.Duration
}

func NewBookingHandler(bookings BookingAllocator, timeout time.Duration) *BookingHandler {
	if bookings == nil {
		panic("nil booking service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Timeout: timeout}
}

type roomRequest struct {
	RoomID *float64 `json:"roomId"`
}

func bindRoomID(c echo.Context) (uint64, error) {
	var body roomRequest
	if err := c.Bind(&body); err != nil {
		return 0, &service.InvalidDataError{Field: "body"}
	}
	return positiveID(body.RoomID, "roomId")
}

// CreateBooking handles POST /v1/booking with body {"roomId": n} and
// answers {"bookingId": id}.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	roomID, err := bindRoomID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	b, err := h.Bookings.CreateBooking(ctx, roomID, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookingId": b.ID})
}

// GetBooking handles GET /v1/booking.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	b, err := h.Bookings.GetBooking(ctx, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, newBookingResponse(b))
}

// UpdateBooking handles PUT /v1/booking/:bookingId with body
// {"roomId": n}.  The path parameter is validated by the service.
func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	roomID, err := bindRoomID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	b, err := h.Bookings.UpdateBooking(ctx, userID, roomID, c.Param("bookingId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookingId": b.ID})
}
