package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
	"github.com/iliyamo/bus-ticket-booking/internal/repository"
)

// BusHandler serves the public bus endpoints.
type BusHandler struct {
	Buses *repository.BusRepo
}

func NewBusHandler(b *repository.BusRepo) *BusHandler { return &BusHandler{Buses: b} }

// SearchBuses handles GET /api/buses/search?from=&to=&date=YYYY-MM-DD.
// All three parameters are required and matched exactly; the time of day of
// a departure is ignored.
func (h *BusHandler) SearchBuses(c echo.Context) error {
	from := strings.TrimSpace(c.QueryParam("from"))
	to := strings.TrimSpace(c.QueryParam("to"))
	date := strings.TrimSpace(c.QueryParam("date"))
	if from == "" || to == "" || date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from, to and date are required"})
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	buses, err := h.Buses.Search(ctx, model.BusSearch{From: from, To: to, Date: day})
	if err != nil {
		return respondError(c, err, "Database error")
	}
	return c.JSON(http.StatusOK, buses)
}

// GetBus handles GET /api/buses/:id.
func (h *BusHandler) GetBus(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bus id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Buses.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err, "Database error")
	}
	return c.JSON(http.StatusOK, b)
}
