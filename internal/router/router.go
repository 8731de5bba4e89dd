package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/bus-ticket-booking/internal/handler"    // handlers implementing each endpoint
	"github.com/iliyamo/bus-ticket-booking/internal/middleware" // JWT authentication and rate limiting
)

// RegisterRoutes registers the health endpoints.  /healthz is a liveness
// probe; /api/health also pings the database.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/api/health", h.Ready)
}

// RegisterAuth registers login, registration and the profile endpoints.
// Login and registration are throttled by limiter; the profile routes
// require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, p *handler.ProfileHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	user := e.Group("/api/user", middleware.JWTAuth(jwtSecret))
	user.GET("/profile", p.GetProfile)
	user.PUT("/profile/update", p.UpdateProfile)
}

// RegisterPublic registers bus browsing routes.  They never look at the
// Authorization header.
func RegisterPublic(e *echo.Echo, b *handler.BusHandler) {
	e.GET("/api/buses/search", b.SearchBuses)
	e.GET("/api/buses/:id", b.GetBus)
}
