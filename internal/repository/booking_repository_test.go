package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

var detailColumns = []string{"id", "seats", "total_amount", "booking_date", "status", "bus_name", "from_location", "to_location", "departure_time"}

func TestBookingListScopedToCaller(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE bookings.user_id = ? OR bookings.email = ?")).
		WithArgs(4, "ann@example.com").
		WillReturnRows(sqlmock.NewRows(detailColumns).
			AddRow(2, "B1", 20.0, now, model.BookingConfirmed, "Express", "CityA", "CityB", now.Add(48*time.Hour)).
			AddRow(1, "A1,A2", 40.0, now.Add(-time.Hour), model.BookingCancelled, "Express", "CityA", "CityB", now.Add(24*time.Hour)))

	got, err := NewBookingRepo(db).List(context.Background(), BookingFilter{UserID: 4, Email: "Ann@Example.com"})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 || got[1].Seats != "A1,A2" {
		t.Fatalf("unexpected list: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingListOrderedNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY bookings.booking_date DESC")).
		WillReturnRows(sqlmock.NewRows(detailColumns))

	got, err := NewBookingRepo(db).List(context.Background(), BookingFilter{})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

func TestMarkCancelledTwice(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(model.BookingCancelled, 9, model.BookingConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	err = NewBookingRepo(db).MarkCancelledTx(context.Background(), tx, 9)
	if !errors.Is(err, ErrAlreadyCancelled) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}
	_ = tx.Rollback()
}

func TestCreateTxJoinsSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(1, nil, "Ann", "ann@example.com", "0700", "A1,B2", 10.0, model.BookingConfirmed).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	b := model.Booking{BusID: 1, PassengerName: "Ann", Email: "ann@example.com", Phone: "0700", Seats: []string{"A1", "B2"}, TotalAmount: 10}
	if err := NewBookingRepo(db).CreateTx(context.Background(), tx, &b); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if b.ID != 5 || b.Status != model.BookingConfirmed {
		t.Fatalf("unexpected booking: %+v", b)
	}
}
