package handler // declare the package name; contains HTTP handlers

import (
	"database/sql"
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a liveness probe for load balancers.  It returns a plain text
// "ok" and never touches the store.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// HealthHandler reports whether the relational store is reachable.
type HealthHandler struct {
	DB *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler { return &HealthHandler{DB: db} }

// Ready answers 200 {"status":"ok","database":"up"} when a ping succeeds
// and 503 otherwise.
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		c.Logger().Warnf("request_id=%s health ping: %v", requestID(c), err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "database": "down"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "database": "up"})
}
