package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("Ann", "ann@example.com", "hash", "0700", nil, sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ann@example.com' for key 'uq_users_email'"})

	repo := NewUserRepo(db)
	_, err = repo.Create(context.Background(), model.NewUser{FullName: " Ann ", Email: "ANN@example.com", Phone: "0700"}, "hash")
	if !errors.Is(err, ErrEmailExists) || !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserGetByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM users WHERE id=").WithArgs(42).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := NewUserRepo(db).GetByID(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserGetByEmailMapsNulls(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery("FROM users WHERE email=").WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "password", "phone", "gender", "date_of_birth", "address", "created_at", "updated_at"}).
			AddRow(3, "Ann", "ann@example.com", "hash", "0700", nil, nil, nil, now, now))

	u, err := NewUserRepo(db).GetByEmail(context.Background(), " Ann@Example.com ")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if u.ID != 3 || u.PasswordHash != "hash" || u.Phone == nil || *u.Phone != "0700" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.Gender != nil || u.Address != nil || u.DateOfBirth != nil {
		t.Fatalf("NULL columns must stay nil: %+v", u)
	}
}

func TestUserUpdateProfileOnlyPresentFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET phone=?, updated_at=? WHERE id=?")).
		WithArgs("0711", sqlmock.AnyArg(), 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	phone := " 0711 "
	if err := NewUserRepo(db).UpdateProfile(context.Background(), 4, model.ProfilePatch{Phone: &phone}, time.Now()); err != nil {
		t.Fatalf("update error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserUpdateProfileMissingUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE users SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM users WHERE id=").WithArgs(4).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	name := "Ann"
	err = NewUserRepo(db).UpdateProfile(context.Background(), 4, model.ProfilePatch{FullName: &name}, time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
