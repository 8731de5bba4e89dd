package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticket-booking/internal/middleware"
	"github.com/iliyamo/bus-ticket-booking/internal/repository"
	"github.com/iliyamo/bus-ticket-booking/internal/service"
)

// requestTimeout bounds the store calls made by a single handler.
const requestTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// getUserID returns the id the auth middleware stored in the context, or an
// error when the route was reached without one.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return id, nil
}

// optionalUserID is getUserID for routes where a token is not required.
func optionalUserID(c echo.Context) *uint64 {
	if id, ok := middleware.UserID(c); ok {
		return &id
	}
	return nil
}

func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// respondError maps a store or inventory error to a status and a JSON body.
// Unclassified errors are logged with the request id and reported to the
// client as fallback, with no detail.
func respondError(c echo.Context, err error, fallback string) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Msg})
	case errors.Is(err, repository.ErrInsufficientSeats):
		return c.JSON(http.StatusConflict, echo.Map{"error": "Not enough seats available"})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Email already registered"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}

	var te *repository.TxError
	if errors.As(err, &te) {
		c.Logger().Errorf("request_id=%s stage=%s: %v", requestID(c), te.Stage, te.Err)
	} else {
		c.Logger().Errorf("request_id=%s: %v", requestID(c), err)
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
}
