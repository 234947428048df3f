package submission

import "errors"

var (
	// ErrMissingField is returned when a required input is absent
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidStatus is returned when a status is not in the enumeration
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidTransition is returned in strict mode when the requested
	// status is not reachable from the current one
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidEmail is returned when an email address is malformed
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrNotFound is returned when the referenced submission does not exist
	ErrNotFound = errors.New("submission not found")

	// ErrForbidden is returned when the ownership email does not match
	ErrForbidden = errors.New("email does not match submission owner")
)
