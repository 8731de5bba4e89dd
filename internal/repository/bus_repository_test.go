package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

func TestBusSearchMatchesRouteAndDay(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	dep := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("AND DATE(departure_time) = ?")).
		WithArgs("CityA", "CityB", "2024-06-01").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "from_location", "to_location", "departure_time", "total_seats", "available_seats", "price"}).
			AddRow(1, "Express", "CityA", "CityB", dep, 40, 12, "25.50"))

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	got, err := NewBusRepo(db).Search(context.Background(), model.BusSearch{From: "CityA", To: "CityB", Date: day})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) != 1 || got[0].AvailableSeats != 12 || got[0].Price != 25.5 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBusSearchEmptyIsNotNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM buses").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := NewBusRepo(db).Search(context.Background(), model.BusSearch{From: "X", To: "Y", Date: time.Now()})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}

func TestReserveSeatsGuardedUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = ? AND available_seats >= ?")).
		WithArgs(3, 7, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	ok, err := NewBusRepo(db).ReserveSeatsTx(context.Background(), tx, 7, 3)
	if err != nil || ok {
		t.Fatalf("expected (false, nil), got (%v, %v)", ok, err)
	}
	_ = tx.Rollback()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
