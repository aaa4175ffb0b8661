package domain

import "errors"

var (
	// ErrUnauthorized is returned when a mutation requires a current user and none was resolved
	ErrUnauthorized = errors.New("unauthorized")

	// ErrExternalAuthRejected is the sentinel wrapped by ExternalAuthRejectedError
	ErrExternalAuthRejected = errors.New("external identity provider rejected the exchange")

	// ErrExternalServiceUnreachable is returned when the identity provider cannot be talked to
	ErrExternalServiceUnreachable = errors.New("external service unreachable")

	// ErrStoreUnavailable wraps every failure coming from the backing store
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotFound is returned for direct entity requests that match nothing
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when an argument is outside its accepted range
	ErrInvalidInput = errors.New("invalid input")
)

// ExternalAuthRejectedError carries the identity provider's message verbatim
type ExternalAuthRejectedError struct {
	Message string
}

func (e *ExternalAuthRejectedError) Error() string {
	return e.Message
}

func (e *ExternalAuthRejectedError) Unwrap() error {
	return ErrExternalAuthRejected
}
