package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const (
	uniqueViolation = pq.ErrorCode("23505")

	usersEmailKey        = "users_email_key"
	usersSingleOwnerKey  = "users_single_owner_idx"
	advisoryLockUnitWork = int64(0x626f6c616f) // "bolao"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func nullableString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
