package storage

import (
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// IsConstraintViolation reports whether err was caused by a database
// constraint, such as two content files claiming the same slug.
func IsConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
