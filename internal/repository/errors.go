// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without inspecting
// driver errors.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.  Handlers
// translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate it into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of the
// current state of a row.  Handlers translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is the conflict raised by the users unique email index.
var ErrEmailExists = fmt.Errorf("email already exists: %w", ErrConflict)

// ErrInsufficientSeats is the conflict raised when a bus has fewer available
// seats than a booking asks for.
var ErrInsufficientSeats = fmt.Errorf("not enough seats: %w", ErrConflict)

// ErrAlreadyCancelled means the booking exists but is no longer CONFIRMED.
// It wraps ErrNotFound so that a repeated cancel reads like a missing booking.
var ErrAlreadyCancelled = fmt.Errorf("booking already cancelled: %w", ErrNotFound)

// Transaction stages reported by TxError.
const (
	StageBegin        = "begin"
	StageInsert       = "insert"
	StageLookup       = "lookup"
	StageStatusUpdate = "status_update"
	StageSeatUpdate   = "seat_update"
	StageCommit       = "commit"
)

// TxError reports the stage at which a multi-statement transaction failed.
// The transaction has always been rolled back by the time a TxError is
// returned.  Stage is for logs only; clients see a generic failure.
type TxError struct {
	Stage string
	Err   error
}

func (e *TxError) Error() string { return fmt.Sprintf("transaction %s failed: %v", e.Stage, e.Err) }

func (e *TxError) Unwrap() error { return e.Err }

// isDuplicateKey reports whether err is MySQL error 1062 (ER_DUP_ENTRY).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// isMissingParent reports whether err is MySQL error 1452
// (ER_NO_REFERENCED_ROW_2): a foreign key points at a row that is not there.
func isMissingParent(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1452
}
