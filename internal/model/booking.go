package model

import (
	"strings"
	"time"
)

// Booking statuses.  A booking starts CONFIRMED and may move to CANCELLED
// exactly once.
const (
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// SeatSeparator joins seat labels in the `bookings.seats` column.
const SeatSeparator = ","

// Booking mirrors the `bookings` table.
type Booking struct {
	ID            uint64    `json:"id"`
	BusID         uint64    `json:"bus_id"`
	UserID        *uint64   `json:"user_id,omitempty"`
	PassengerName string    `json:"passenger_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Seats         []string  `json:"seats"`
	TotalAmount   float64   `json:"total_amount"`
	BookingDate   time.Time `json:"booking_date"`
	Status        string    `json:"status"`
}

// BookingDetail is a booking joined with the bus it was made on, as shown in
// a booking history.
type BookingDetail struct {
	ID            uint64    `json:"id"`
	Seats         string    `json:"seats"`
	TotalAmount   float64   `json:"total_amount"`
	BookingDate   time.Time `json:"booking_date"`
	Status        string    `json:"status"`
	BusName       string    `json:"bus_name"`
	FromLocation  string    `json:"from_location"`
	ToLocation    string    `json:"to_location"`
	DepartureTime time.Time `json:"departure_time"`
}

// JoinSeats serializes seat labels in request order.
func JoinSeats(seats []string) string { return strings.Join(seats, SeatSeparator) }

// SplitSeats parses the stored seat list.  An empty column yields no seats.
func SplitSeats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, SeatSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
