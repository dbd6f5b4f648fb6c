package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrUniqueViolation is returned when an insert loses a race against a unique
// constraint, e.g. the open-inspection partial index. Callers treat it as
// "someone else created the row" and re-read.
var ErrUniqueViolation = errors.New("unique constraint violation")

// uniqueViolationCode is the PostgreSQL error code for unique_violation
const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}
