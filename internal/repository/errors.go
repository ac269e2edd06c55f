package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrOverlap is returned when the database-level no-overlap guarantee fires:
// either the in-transaction re-check found a row or the exclusion/unique
// index rejected the insert.
var ErrOverlap = errors.New("reservation overlaps an existing one")

// isOverlapViolation recognizes the Postgres constraint backing
// idx_no_overbooking. 23505 is unique_violation, 23P01 exclusion_violation.
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" || pgErr.Code == "23P01" {
			return pgErr.ConstraintName == "idx_no_overbooking" || pgErr.ConstraintName == ""
		}
	}
	return false
}
