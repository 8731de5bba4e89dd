package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticket-booking/internal/middleware"
	"github.com/iliyamo/bus-ticket-booking/internal/repository"
	"github.com/iliyamo/bus-ticket-booking/internal/service"
)

// BookingHandler exposes the seat inventory over HTTP.  All routes accept
// an optional bearer token; when present the caller's id is attached to new
// bookings and scopes the history listing.
type BookingHandler struct {
	Inventory *service.SeatInventory
	Bookings  *repository.BookingRepo
}

func NewBookingHandler(inv *service.SeatInventory, b *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{Inventory: inv, Bookings: b}
}

type createBookingReq struct {
	BusID       uint64   `json:"busId"`
	Seats       []string `json:"seats"`
	TotalAmount float64  `json:"totalAmount"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	b, err := h.Inventory.Book(c.Request().Context(), service.BookingRequest{
		BusID:       req.BusID,
		Seats:       req.Seats,
		TotalAmount: req.TotalAmount,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		UserID:      optionalUserID(c),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Bus not found"})
		}
		return respondError(c, err, "Booking failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "bookingId": b.ID})
}

// ListMyBookings handles GET /api/my-bookings.  With a token, only the
// caller's bookings (by user id or contact email) are returned; without one
// every booking is listed.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	var f repository.BookingFilter
	if uid, ok := middleware.UserID(c); ok {
		f.UserID = uid
		f.Email, _ = c.Get(middleware.CtxEmail).(string)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Bookings.List(ctx, f)
	if err != nil {
		return respondError(c, err, "Failed to fetch bookings")
	}
	return c.JSON(http.StatusOK, list)
}

// CancelBooking handles POST /api/cancel-booking/:id.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var caller uint64
	if uid := optionalUserID(c); uid != nil {
		caller = *uid
	}
	if _, err := h.Inventory.Cancel(c.Request().Context(), id, caller); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found or already cancelled"})
		}
		return respondError(c, err, "Failed to cancel booking")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking cancelled successfully"})
}
