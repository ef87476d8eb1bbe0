package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/service"
)

type HotelBrowser interface {
	ListHotels(ctx context.Context, userID uint64) ([]model.Hotel, error)
	GetHotelRooms(ctx context.Context, userID uint64, hotelID string) (*service.HotelWithRooms, error)
}

// HotelHandler serves /v1/hotels.  Both routes answer 402 when the
// caller's ticket does not include a hotel.
type HotelHandler struct {
	Hotels  HotelBrowser
	Timeout time.Duration
}

func NewHotelHandler(hotels HotelBrowser, timeout time.Duration) *HotelHandler {
	return &HotelHandler{Hotels: hotels, Timeout: timeout}
}

func (h *HotelHandler) ListHotels(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	hotels, err := h.Hotels.ListHotels(ctx, userID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]hotelResponse, 0, len(hotels))
	for _, ht := range hotels {
		out = append(out, newHotelResponse(ht))
	}
	return c.JSON(http.StatusOK, out)
}

// GetHotelRooms handles GET /v1/hotels/:hotelId.
func (h *HotelHandler) GetHotelRooms(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	hr, err := h.Hotels.GetHotelRooms(ctx, userID, c.Param("hotelId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, newHotelWithRoomsResponse(hr))
}
