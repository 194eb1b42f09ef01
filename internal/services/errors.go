package services

import "errors"

var (
	// ErrForbidden is returned when the caller is not the owner of the
	// resource; handlers map it to 403 with no data in the body.
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not found")
	// ErrConflict surfaces a constraint race that survived the internal retry.
	ErrConflict = errors.New("conflict")
)

// ValidationError carries field-level detail for 4xx responses.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
