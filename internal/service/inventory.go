// Package service holds the seat inventory transaction manager: the only
// code that writes bookings or moves a bus's available seat count.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
	"github.com/iliyamo/bus-ticket-booking/internal/repository"
)

// DefaultTimeout bounds every inventory transaction when no timeout is
// configured.
const DefaultTimeout = 5 * time.Second

// BookingRequest is the input of a booking transaction.
type BookingRequest struct {
	BusID       uint64
	Seats       []string
	TotalAmount float64
	Name        string
	Email       string
	Phone       string
	UserID      *uint64 // set when the caller is authenticated
}

// ValidationError reports a booking request that cannot be attempted.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Publisher receives booking events after a transaction commits.
type Publisher interface {
	BookingConfirmed(ctx context.Context, b model.Booking)
	BookingCancelled(ctx context.Context, b model.Booking)
}

// SeatInventory performs booking and cancellation as single transactions
// against the shared seat count of a bus.
type SeatInventory struct {
	db       *sql.DB
	buses    *repository.BusRepo
	bookings *repository.BookingRepo
	events   Publisher
	timeout  time.Duration
	now      func() time.Time
}

// NewSeatInventory wires the transaction manager.  events may be nil.
func NewSeatInventory(db *sql.DB, buses *repository.BusRepo, bookings *repository.BookingRepo, events Publisher, timeout time.Duration) *SeatInventory {
	if db == nil || buses == nil || bookings == nil {
		panic("nil dependency passed to NewSeatInventory")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if events == nil {
		events = NopPublisher{}
	}
	return &SeatInventory{
		db:       db,
		buses:    buses,
		bookings: bookings,
		events:   events,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Book inserts a CONFIRMED booking and takes len(req.Seats) seats from the
// bus in one transaction.  It returns the new booking.
//
// Errors: *ValidationError for a malformed request, repository.ErrNotFound
// when the bus does not exist, repository.ErrInsufficientSeats when the bus
// has fewer available seats than requested, *repository.TxError for any
// store failure.  Nothing is written unless the result is nil.
func (s *SeatInventory) Book(ctx context.Context, req BookingRequest) (model.Booking, error) {
	seats, err := normalizeSeats(req.Seats)
	if err != nil {
		return model.Booking{}, err
	}
	if req.BusID == 0 {
		return model.Booking{}, &ValidationError{Msg: "busId is required"}
	}
	if req.TotalAmount < 0 {
		return model.Booking{}, &ValidationError{Msg: "totalAmount must not be negative"}
	}
	name, email, phone := strings.TrimSpace(req.Name), repository.NormalizeEmail(req.Email), strings.TrimSpace(req.Phone)
	if name == "" || email == "" || phone == "" {
		return model.Booking{}, &ValidationError{Msg: "name, email and phone are required"}
	}

	b := model.Booking{
		BusID:         req.BusID,
		UserID:        req.UserID,
		PassengerName: name,
		Email:         email,
		Phone:         phone,
		Seats:         seats,
		TotalAmount:   req.TotalAmount,
		BookingDate:   s.now().UTC(),
	}

	err = s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.bookings.CreateTx(ctx, tx, &b); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return &repository.TxError{Stage: repository.StageInsert, Err: err}
		}
		ok, err := s.buses.ReserveSeatsTx(ctx, tx, b.BusID, len(b.Seats))
		if err != nil {
			return &repository.TxError{Stage: repository.StageSeatUpdate, Err: err}
		}
		if ok {
			return nil
		}
		exists, err := s.buses.ExistsTx(ctx, tx, b.BusID)
		if err != nil {
			return &repository.TxError{Stage: repository.StageLookup, Err: err}
		}
		if !exists {
			return fmt.Errorf("bus %d: %w", b.BusID, repository.ErrNotFound)
		}
		return repository.ErrInsufficientSeats
	})
	if err != nil {
		return model.Booking{}, err
	}
	s.events.BookingConfirmed(context.WithoutCancel(ctx), b)
	return b, nil
}

// Cancel moves a CONFIRMED booking to CANCELLED and returns its seats to
// the bus in one transaction.  When callerID is non-zero and the booking
// belongs to another user, repository.ErrForbidden is returned.
//
// Errors: repository.ErrNotFound when the booking does not exist or is
// already cancelled, repository.ErrForbidden, *repository.TxError for any
// store failure including a release that would exceed the bus capacity.
func (s *SeatInventory) Cancel(ctx context.Context, bookingID, callerID uint64) (model.Booking, error) {
	if bookingID == 0 {
		return model.Booking{}, &ValidationError{Msg: "invalid booking id"}
	}
	var b model.Booking
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		b, err = s.bookings.GetConfirmedForUpdateTx(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return &repository.TxError{Stage: repository.StageLookup, Err: err}
		}
		if callerID != 0 && b.UserID != nil && *b.UserID != callerID {
			return repository.ErrForbidden
		}
		if err := s.bookings.MarkCancelledTx(ctx, tx, b.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return &repository.TxError{Stage: repository.StageStatusUpdate, Err: err}
		}
		ok, err := s.buses.ReleaseSeatsTx(ctx, tx, b.BusID, len(b.Seats))
		if err != nil {
			return &repository.TxError{Stage: repository.StageSeatUpdate, Err: err}
		}
		if !ok {
			return &repository.TxError{
				Stage: repository.StageSeatUpdate,
				Err:   fmt.Errorf("releasing %d seats on bus %d would exceed capacity", len(b.Seats), b.BusID),
			}
		}
		return nil
	})
	if err != nil {
		return model.Booking{}, err
	}
	b.Status = model.BookingCancelled
	s.events.BookingCancelled(context.WithoutCancel(ctx), b)
	return b, nil
}

// inTx runs fn inside a transaction bounded by the inventory timeout.  The
// transaction is committed when fn returns nil and rolled back otherwise,
// including on panic.
func (s *SeatInventory) inTx(ctx context.Context, fn func(context.Context, *sql.Tx) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return &repository.TxError{Stage: repository.StageBegin, Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return &repository.TxError{Stage: repository.StageCommit, Err: err}
	}
	committed = true
	return nil
}

// MaxSeatsLength is the width of the bookings.seats column.  The joined
// seat list of a booking must fit in it.
const MaxSeatsLength = 1024

// normalizeSeats trims labels and rejects empty or repeated ones.  Labels
// are otherwise kept as sent, in request order.
func normalizeSeats(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, &ValidationError{Msg: "seats must not be empty"}
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	joined := 0
	for _, raw := range in {
		label := strings.TrimSpace(raw)
		if label == "" || strings.Contains(label, model.SeatSeparator) {
			return nil, &ValidationError{Msg: fmt.Sprintf("invalid seat label %q", raw)}
		}
		if joined > 0 {
			joined += len(model.SeatSeparator)
		}
		// VARCHAR counts characters, not bytes
		joined += utf8.RuneCountInString(label)
		if joined > MaxSeatsLength {
			return nil, &ValidationError{Msg: fmt.Sprintf("seat list longer than %d characters", MaxSeatsLength)}
		}
		if _, dup := seen[label]; dup {
			return nil, &ValidationError{Msg: fmt.Sprintf("seat %s requested twice", label)}
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out, nil
}
