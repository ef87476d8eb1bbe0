package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-hotel-booking/internal/middleware"
	"github.com/iliyamo/event-hotel-booking/internal/service"
)

// statusFor maps service outcomes to HTTP status codes.  Unknown errors
// are internal failures.
func statusFor(err error) int {
	switch {
	case errors.Is(err, middleware.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidData):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidBooking):
		return http.StatusForbidden
	case errors.Is(err, service.ErrHotelNotAllowed):
		return http.StatusPaymentRequired
	case errors.Is(err, service.ErrTicketExists):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// fail writes err as {"error": message}.  Internal failures are logged
// and answered with a generic message.
func fail(c echo.Context, err error) error {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(status, echo.Map{"error": "internal error"})
	case http.StatusServiceUnavailable:
		return c.JSON(status, echo.Map{"error": "request timed out"})
	case http.StatusUnauthorized:
		return c.JSON(status, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
