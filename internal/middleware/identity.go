package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-hotel-booking/internal/service"
)

// ContextUserID is the echo context key holding the raw subject claim.
const ContextUserID = "user_id"

// ErrUnauthenticated means no principal was stored in the context.
var ErrUnauthenticated = errors.New("unauthenticated")

// UserID converts the subject stored by JWTAuth into a user id.  JSON
// numbers arrive as float64; numeric strings are accepted as well.
// Values that are not finite positive integers yield an error matching
// service.ErrInvalidData.
func UserID(c echo.Context) (uint64, error) {
	switch v := c.Get(ContextUserID).(type) {
	case nil:
		return 0, ErrUnauthenticated
	case float64:
		return service.UserIDFromNumber(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, &service.InvalidDataError{Field: "userId"}
		}
		return service.UserIDFromNumber(f)
	case uint64:
		if v == 0 {
			return 0, &service.InvalidDataError{Field: "userId"}
		}
		return v, nil
	default:
		return 0, &service.InvalidDataError{Field: "userId"}
	}
}

// principal returns a rate-limit/cache key segment for the caller.
func principal(c echo.Context) string {
	if id, err := UserID(c); err == nil {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
