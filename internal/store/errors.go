package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrRecordNotFound = errors.New("record not found")

const pgUniqueViolation = "23505"

// UniqueConstraint returns the violated constraint name when err is a
// postgres duplicate-key error. Check-then-insert at registration is racy;
// the unique indexes are the authoritative guard, and callers translate the
// constraint name back into the matching duplicate error kind.
func UniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
