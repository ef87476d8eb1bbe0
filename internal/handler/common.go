package handler

import (
	"context"
	"math"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-hotel-booking/internal/middleware"
	"github.com/iliyamo/event-hotel-booking/internal/service"
)

const defaultRequestTimeout = 5 * time.Second

// getUserID returns the authenticated caller.  JWTAuth must run first.
func getUserID(c echo.Context) (uint64, error) {
	return middleware.UserID(c)
}

// requestContext bounds the DB work of one request.
func requestContext(c echo.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(c.Request().Context(), timeout)
}

// positiveID validates a numeric body field that must be an integer >= 1.
func positiveID(v *float64, field string) (uint64, error) {
	if v == nil || math.IsNaN(*v) || *v < 1 || *v != math.Trunc(*v) || *v > 1<<53 {
		return 0, &service.InvalidDataError{Field: field}
	}
	return uint64(*v), nil
}
