// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

// Queue names double as event types.
const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingEvent is published after a booking or cancellation commits.  It
// carries enough for downstream consumers to log or notify without querying
// the primary database.
type BookingEvent struct {
	Type          string   `json:"type"`
	BookingID     uint64   `json:"booking_id"`
	BusID         uint64   `json:"bus_id"`
	UserID        *uint64  `json:"user_id,omitempty"`
	PassengerName string   `json:"passenger_name"`
	Email         string   `json:"email"`
	Seats         []string `json:"seats"`
	TotalAmount   float64  `json:"total_amount"`
	Status        string   `json:"status"`
	OccurredAt    string   `json:"occurred_at"`
}

// NewBookingEvent builds the event of type typ for b, stamped now.
func NewBookingEvent(typ string, b model.Booking) BookingEvent {
	return BookingEvent{
		Type:          typ,
		BookingID:     b.ID,
		BusID:         b.BusID,
		UserID:        b.UserID,
		PassengerName: b.PassengerName,
		Email:         b.Email,
		Seats:         b.Seats,
		TotalAmount:   b.TotalAmount,
		Status:        b.Status,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

// DeclareQueues declares both durable booking queues on ch.  Declaring is
// idempotent, so publisher and consumer both call it.
func DeclareQueues(ch *amqp.Channel) error {
	for _, name := range []string{BookingConfirmedQueue, BookingCancelledQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return err
		}
	}
	return nil
}
