package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// errCritical marks errors the repeater must not retry
var errCritical = errors.New("critical database error")

// isLockError checks if an error is a SQLite lock/busy or a postgres serialization error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked") ||
		strings.Contains(errStr, "deadlock detected") ||
		strings.Contains(errStr, "could not serialize access")
}
