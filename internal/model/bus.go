package model

import "time"

// Bus mirrors the `buses` table.  AvailableSeats is the seat inventory; it
// only moves through the booking and cancellation transactions and always
// stays within [0, TotalSeats].
type Bus struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	FromLocation   string    `json:"from_location"`
	ToLocation     string    `json:"to_location"`
	DepartureTime  time.Time `json:"departure_time"`
	TotalSeats     uint32    `json:"total_seats"`
	AvailableSeats uint32    `json:"available_seats"`
	Price          float64   `json:"price"`
}

// BusSearch filters buses by route and departure date.
type BusSearch struct {
	From string
	To   string
	Date time.Time // only the calendar date is used
}
