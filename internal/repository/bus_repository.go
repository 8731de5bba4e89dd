package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

// BusRepo reads buses and owns the two statements that move the seat
// inventory.  Both inventory statements are guarded updates: the predicate
// that keeps available_seats inside [0, total_seats] is evaluated by the
// database in the same statement that writes the row, so concurrent
// transactions cannot interleave a read and a write.
type BusRepo struct {
	db *sql.DB
}

// NewBusRepo returns a BusRepo bound to the given pool.
func NewBusRepo(db *sql.DB) *BusRepo { return &BusRepo{db: db} }

const busColumns = "id, name, from_location, to_location, departure_time, total_seats, available_seats, price"

// Search returns every bus on the route whose departure falls on the
// calendar date of q.Date.  There is no paging; results are ordered by
// departure time.
func (r *BusRepo) Search(ctx context.Context, q model.BusSearch) ([]model.Bus, error) {
	const stmt = `SELECT ` + busColumns + `
		FROM buses
		WHERE from_location = ?
		  AND to_location = ?
		  AND DATE(departure_time) = ?
		ORDER BY departure_time ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, stmt, q.From, q.To, q.Date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Bus, 0)
	for rows.Next() {
		var b model.Bus
		if err := rows.Scan(&b.ID, &b.Name, &b.FromLocation, &b.ToLocation, &b.DepartureTime,
			&b.TotalSeats, &b.AvailableSeats, &b.Price); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads a single bus.
func (r *BusRepo) GetByID(ctx context.Context, id uint64) (model.Bus, error) {
	var b model.Bus
	err := r.db.QueryRowContext(ctx, "SELECT "+busColumns+" FROM buses WHERE id = ?", id).Scan(
		&b.ID, &b.Name, &b.FromLocation, &b.ToLocation, &b.DepartureTime,
		&b.TotalSeats, &b.AvailableSeats, &b.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bus{}, ErrNotFound
	}
	return b, err
}

// ReserveSeatsTx takes n seats from the bus inventory inside tx.  It reports
// false when the bus has fewer than n available seats or does not exist;
// nothing is written in that case.
func (r *BusRepo) ReserveSeatsTx(ctx context.Context, tx *sql.Tx, busID uint64, n int) (bool, error) {
	const stmt = `UPDATE buses
		SET available_seats = available_seats - ?
		WHERE id = ? AND available_seats >= ?`
	return affectedOne(tx.ExecContext(ctx, stmt, n, busID, n))
}

// ReleaseSeatsTx returns n seats to the bus inventory inside tx.  It reports
// false when the release would push available_seats above total_seats or
// the bus does not exist.
func (r *BusRepo) ReleaseSeatsTx(ctx context.Context, tx *sql.Tx, busID uint64, n int) (bool, error) {
	const stmt = `UPDATE buses
		SET available_seats = available_seats + ?
		WHERE id = ? AND available_seats + ? <= total_seats`
	return affectedOne(tx.ExecContext(ctx, stmt, n, busID, n))
}

// ExistsTx reports whether the bus row is present, as seen by tx.
func (r *BusRepo) ExistsTx(ctx context.Context, tx *sql.Tx, busID uint64) (bool, error) {
	var id uint64
	err := tx.QueryRowContext(ctx, "SELECT id FROM buses WHERE id = ?", busID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func affectedOne(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
