package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	sqlitelib "modernc.org/sqlite"
)

// sqliteConstraintUnique is SQLITE_CONSTRAINT_UNIQUE, the extended result
// code modernc.org/sqlite surfaces for a UNIQUE index violation.
const sqliteConstraintUnique = 2067

// isUniqueViolation reports whether err is a UNIQUE constraint violation.
// Adapted from the teacher's postgres isPgError/isUniqueViolation pair,
// since this module carries no equivalent sqlite error-classification
// file of its own.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlitelib.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == sqliteConstraintUnique {
			return true
		}
	}
	// Fallback for wrapped/driver-shimmed errors that don't unwrap to
	// *sqlite.Error cleanly.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isNoRows reports whether err is sql.ErrNoRows.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// errNotFound marks a row lookup that found nothing. It is internal to
// this package and distinct from serac.ErrNotFound, which describes a
// search pattern matching no files at the domain level.
var errNotFound = errors.New("row not found")
