// Package repository holds the SQL data access layer.  Every repository
// takes a *sql.DB and speaks the SQL subset shared by MySQL and SQLite:
// `?` placeholders, times bound from Go in UTC, and no server-side clock
// functions.
//
// The sentinel errors below let handlers tell failure modes apart.
// ErrForbidden means the caller does not own the record; ErrConflict means
// the record is in a state that forbids the operation (for example editing a
// suggestion that is no longer pending).
package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because of
// the record's current state.  Handlers translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by UserRepo.Create for a duplicate email.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidQuery is returned when a ListQuery names a field that the
// collection does not expose.
var ErrInvalidQuery = errors.New("invalid query")

// isDuplicate recognises unique-key violations from both drivers: MySQL
// error 1062 and SQLite's "UNIQUE constraint failed".
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint failed")
}

func newID() string { return uuid.NewString() }

// now is the write timestamp, at the microsecond precision of DATETIME(6).
func now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
