package types

import "errors"

// Sentinel errors the repository and service layers wrap. Handlers map them
// onto HTTP status codes with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
)

// DateLayout is the wire format for calendar dates throughout the API.
const DateLayout = "2006-01-02"
