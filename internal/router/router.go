// Package router registers the HTTP routes of the booking API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-hotel-booking/internal/config"
	"github.com/iliyamo/event-hotel-booking/internal/handler"
	"github.com/iliyamo/event-hotel-booking/internal/middleware"
)

// Handlers bundles everything served under /v1.
type Handlers struct {
	Booking    *handler.BookingHandler
	Ticket     *handler.TicketHandler
	Enrollment *handler.EnrollmentHandler
	Hotel      *handler.HotelHandler
}

// Options carries the middleware settings.  A nil Redis client disables
// both the rate limiter and the response cache.
type Options struct {
	JWTSecret string
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Redis     *redis.Client
	DB        handler.Pinger
}

// RegisterRoutes registers the unauthenticated probes, then the
// authenticated API under /v1.
func RegisterRoutes(e *echo.Echo, h Handlers, opts Options) {
	e.GET("/healthz", handler.Health)
	if opts.DB != nil {
		e.GET("/readyz", handler.Ready(opts.DB))
	}

	v1 := e.Group("/v1", middleware.JWTAuth(opts.JWTSecret))

	// Booking writes are limited per user and route; reads are not cached
	// because they must reflect a booking made a moment ago.
	limit := middleware.NewTokenBucket(opts.RateLimit, opts.Redis)
	b := v1.Group("/booking")
	b.POST("", h.Booking.CreateBooking, limit)
	b.GET("", h.Booking.GetBooking)
	b.PUT("/:bookingId", h.Booking.UpdateBooking, limit)

	// The ticket type catalogue is the same for everyone.
	shared := middleware.NewRedisCache(opts.Cache.WithStrategy("route_query"), opts.Redis)
	t := v1.Group("/tickets")
	t.GET("/types", h.Ticket.GetTicketTypes, shared)
	t.GET("", h.Ticket.GetTicket)
	t.POST("", h.Ticket.ReserveTicket, limit)

	en := v1.Group("/enrollments")
	en.GET("", h.Enrollment.GetEnrollment)
	en.POST("", h.Enrollment.SaveEnrollment)

	// Hotel listings depend on the caller's ticket, so the cache key
	// includes the user.
	perUser := middleware.NewRedisCache(opts.Cache.WithStrategy("user_route_query"), opts.Redis)
	ho := v1.Group("/hotels")
	ho.GET("", h.Hotel.ListHotels, perUser)
	ho.GET("/:hotelId", h.Hotel.GetHotelRooms, perUser)
}
