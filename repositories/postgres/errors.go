package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/upb/student-registration/repositories"
)

// PostgreSQL SQLSTATE codes mapped onto repository sentinels
const (
	uniqueViolation     pq.ErrorCode = "23505"
	foreignKeyViolation pq.ErrorCode = "23503"
)

// mapError wraps err with op and translates driver errors into repository sentinels
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w (%s)", op, repositories.ErrDuplicate, pqErr.Constraint)
		case foreignKeyViolation:
			return fmt.Errorf("%s: referenced row missing: %w (%s)", op, repositories.ErrNotFound, pqErr.Constraint)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// mapDeleteError is mapError for DELETE statements, where a foreign key
// violation means the row is still referenced rather than a parent is missing
func mapDeleteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return fmt.Errorf("%s: %w (%s)", op, repositories.ErrReferenced, pqErr.Constraint)
	}
	return mapError(op, err)
}

// expectAffected returns ErrNotFound when an UPDATE or DELETE touched no rows
func expectAffected(op string, result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	}
	return nil
}
