package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticket-booking/internal/handler"
	"github.com/iliyamo/bus-ticket-booking/internal/middleware"
)

// RegisterBookings registers the booking endpoints under /api.  A bearer
// token is optional on all of them: anonymous callers keep working, while
// authenticated callers get their bookings tied to their account.  Only
// creating a booking is rate limited.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/api", middleware.OptionalJWT(jwtSecret))
	g.POST("/bookings", h.CreateBooking, limiter)
	g.GET("/my-bookings", h.ListMyBookings)
	g.POST("/cancel-booking/:id", h.CancelBooking)
}
