package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

// BookingRepo provides persistence for bookings.  Writes happen only inside
// transactions owned by the seat inventory service; reads for history
// listings use the pool directly.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given pool.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts b with status CONFIRMED and sets b.ID.  The seat labels
// are stored comma-joined in request order.  An unknown bus trips the
// bookings foreign key and is reported as ErrNotFound.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (bus_id, user_id, passenger_name, email, phone, seats, total_amount, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var userID sql.NullInt64
	if b.UserID != nil {
		userID = sql.NullInt64{Int64: int64(*b.UserID), Valid: true}
	}
	res, err := tx.ExecContext(ctx, q, b.BusID, userID, b.PassengerName, b.Email, b.Phone,
		model.JoinSeats(b.Seats), b.TotalAmount, model.BookingConfirmed)
	if isMissingParent(err) {
		return fmt.Errorf("bus %d: %w", b.BusID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	b.Status = model.BookingConfirmed
	return nil
}

// GetConfirmedForUpdateTx loads a CONFIRMED booking and locks its row for
// the rest of tx, so two concurrent cancellations of the same booking run
// one after the other.  A missing or already cancelled booking yields
// ErrNotFound.
func (r *BookingRepo) GetConfirmedForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	const q = `SELECT id, bus_id, user_id, passenger_name, email, phone, seats, total_amount, booking_date, status
		FROM bookings
		WHERE id = ? AND status = ?
		FOR UPDATE`
	var (
		b      model.Booking
		userID sql.NullInt64
		seats  string
	)
	err := tx.QueryRowContext(ctx, q, id, model.BookingConfirmed).Scan(
		&b.ID, &b.BusID, &userID, &b.PassengerName, &b.Email, &b.Phone,
		&seats, &b.TotalAmount, &b.BookingDate, &b.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrNotFound
	}
	if err != nil {
		return model.Booking{}, err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		b.UserID = &uid
	}
	b.Seats = model.SplitSeats(seats)
	return b, nil
}

// MarkCancelledTx moves a booking from CONFIRMED to CANCELLED.  The status
// predicate makes the transition happen at most once; a second attempt
// returns ErrAlreadyCancelled.
func (r *BookingRepo) MarkCancelledTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
	ok, err := affectedOne(tx.ExecContext(ctx, q, model.BookingCancelled, id, model.BookingConfirmed))
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyCancelled
	}
	return nil
}

// BookingFilter narrows a booking history listing.  A zero filter lists
// every booking.  When both fields are set a booking matches either one.
type BookingFilter struct {
	UserID uint64
	Email  string
}

// List returns bookings joined with their bus, newest first.
func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]model.BookingDetail, error) {
	q := `SELECT
			bookings.id,
			bookings.seats,
			bookings.total_amount,
			bookings.booking_date,
			bookings.status,
			buses.name AS bus_name,
			buses.from_location,
			buses.to_location,
			buses.departure_time
		FROM bookings
		JOIN buses ON bookings.bus_id = buses.id`
	var (
		where []string
		args  []any
	)
	if f.UserID != 0 {
		where = append(where, "bookings.user_id = ?")
		args = append(args, f.UserID)
	}
	if email := NormalizeEmail(f.Email); email != "" {
		where = append(where, "bookings.email = ?")
		args = append(args, email)
	}
	if len(where) > 0 {
		q += "\n\t\tWHERE " + strings.Join(where, " OR ")
	}
	q += "\n\t\tORDER BY bookings.booking_date DESC, bookings.id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.BookingDetail, 0)
	for rows.Next() {
		var d model.BookingDetail
		if err := rows.Scan(&d.ID, &d.Seats, &d.TotalAmount, &d.BookingDate, &d.Status,
			&d.BusName, &d.FromLocation, &d.ToLocation, &d.DepartureTime); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
