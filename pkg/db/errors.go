package db

import "strings"

// IsUniqueViolation reports whether the provided error references a sqlite
// unique constraint. When columnRef is provided (e.g. "orders.table_id"), the
// helper looks for that column reference in the error message.
func IsUniqueViolation(err error, columnRef string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if columnRef != "" {
		return strings.Contains(msg, columnRef)
	}
	return true
}

// IsCheckViolation reports whether the error came from a CHECK constraint,
// optionally matching the constraint name.
func IsCheckViolation(err error, checkName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "CHECK constraint failed") {
		return false
	}
	if checkName != "" {
		return strings.Contains(msg, checkName)
	}
	return true
}
