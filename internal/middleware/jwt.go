// Package middleware holds the echo middleware of the booking API:
// bearer authentication, the booking rate limiter and the response cache.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-hotel-booking/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores its subject claim in the context under ContextUserID.  The
// claim is converted by UserID, not here, so a malformed subject becomes
// an InvalidData response from the handler rather than a 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			sub, ok := claims["sub"]
			if !ok || sub == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			c.Set(ContextUserID, sub)
			return next(c)
		}
	}
}
