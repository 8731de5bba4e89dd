package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDSN(t *testing.T) {
	dsn := Options{User: "bus", Pass: "pw", Host: "db", Port: "3306", Name: "bus_booking"}.DSN()
	for _, want := range []string{"bus:pw@tcp(db:3306)/bus_booking", "parseTime=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("dsn %q lacks %q", dsn, want)
		}
	}
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	for range schema {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEnsureSchemaStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	boom := errors.New("denied")
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(boom)
	err = EnsureSchema(context.Background(), db)
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "step 1") {
		t.Fatalf("unexpected error %v", err)
	}
}
