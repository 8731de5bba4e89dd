package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,full_name,email,password,phone,gender,date_of_birth,address,created_at,updated_at"

// NormalizeEmail lower-cases and trims an email address so that lookups and
// the unique index agree on identity.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create inserts a user and returns its ID.  passwordHash must already be
// hashed.  A duplicate email, detected by the unique index, yields
// ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u model.NewUser, passwordHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (full_name, email, password, phone, gender, date_of_birth) VALUES (?,?,?,?,?,?)",
		strings.TrimSpace(u.FullName), NormalizeEmail(u.Email), passwordHash,
		nullString(u.Phone), nullString(u.Gender), u.DateOfBirth)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// EmailExists is a cheap pre-check used by registration.  The unique index
// remains the source of truth.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx, "SELECT id FROM users WHERE email=? LIMIT 1", NormalizeEmail(email)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", NormalizeEmail(email))
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// UpdateProfile writes only the fields set in p, plus updated_at.  It
// returns ErrNotFound when the user does not exist.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, p model.ProfilePatch, now time.Time) error {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if p.FullName != nil {
		sets = append(sets, "full_name=?")
		args = append(args, strings.TrimSpace(*p.FullName))
	}
	if p.Phone != nil {
		sets = append(sets, "phone=?")
		args = append(args, strings.TrimSpace(*p.Phone))
	}
	if p.Address != nil {
		sets = append(sets, "address=?")
		args = append(args, strings.TrimSpace(*p.Address))
	}
	sets = append(sets, "updated_at=?")
	args = append(args, now.UTC())
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx, "UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports 0 when nothing changed, so confirm the row exists.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u                      model.User
		phone, gender, address sql.NullString
		dob                    sql.NullTime
	)
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &phone, &gender, &dob, &address, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.Phone = strPtr(phone)
	u.Gender = strPtr(gender)
	u.Address = strPtr(address)
	if dob.Valid {
		t := dob.Time
		u.DateOfBirth = &t
	}
	return u, nil
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
