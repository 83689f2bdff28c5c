package storage

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// IsUniqueViolation reports whether err is SQLite rejecting a row that breaks
// a UNIQUE or PRIMARY KEY constraint. It is the single place the portal reads
// the store's uniqueness signal.
func IsUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// primary code only: extended codes disabled on this connection
		return strings.Contains(se.Error(), "UNIQUE constraint failed")
	}
	return false
}
