package service

import "errors"

// Error taxonomy surfaced to handlers. Escalation partial failure is not an
// error: it is reported as counts on the submission result, because the
// submission itself already succeeded and must not be retried wholesale.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrAlreadySubmitted = errors.New("inspection already submitted")
	ErrValidation       = errors.New("validation error")
)
