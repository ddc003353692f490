package store

import (
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned by writes that target a row that does not exist.
	// Single-row lookups return nil, nil instead.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert or update hits a unique key.
	ErrDuplicate = errors.New("already exists")
)

// isUniqueViolation reports whether err is a SQLite unique-constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
