package router

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticket-booking/internal/config"
	"github.com/iliyamo/bus-ticket-booking/internal/handler"
)

func TestRoutesRegistered(t *testing.T) {
	e := echo.New()
	pass := func(next echo.HandlerFunc) echo.HandlerFunc { return next }

	RegisterRoutes(e, handler.NewHealthHandler(nil))
	RegisterAuth(e, handler.NewAuthHandler(config.Config{}, nil), handler.NewProfileHandler(nil), "s", pass)
	RegisterPublic(e, handler.NewBusHandler(nil))
	RegisterBookings(e, handler.NewBookingHandler(nil, nil), "s", pass)

	have := map[string]bool{}
	for _, r := range e.Routes() {
		have[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		http.MethodGet + " /healthz",
		http.MethodGet + " /api/health",
		http.MethodGet + " /api/buses/search",
		http.MethodGet + " /api/buses/:id",
		http.MethodPost + " /api/auth/login",
		http.MethodPost + " /api/auth/register",
		http.MethodGet + " /api/user/profile",
		http.MethodPut + " /api/user/profile/update",
		http.MethodPost + " /api/bookings",
		http.MethodGet + " /api/my-bookings",
		http.MethodPost + " /api/cancel-booking/:id",
	} {
		if !have[want] {
			t.Fatalf("route %s not registered", want)
		}
	}
}
