package db

import "strings"

// IsUniqueViolation reports whether err is a unique-constraint violation.
// With a constraint name the match is scoped to that constraint; the
// generic markers cover Postgres and sqlite phrasing.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" && strings.Contains(msg, constraintName) {
		return true
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
