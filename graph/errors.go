package graph

import (
	"errors"

	"photo-share-api/internal/domain"
)

// Error codes reported under extensions.code
const (
	CodeUnauthorized               = "UNAUTHORIZED"
	CodeExternalAuthRejected       = "EXTERNAL_AUTH_REJECTED"
	CodeExternalServiceUnreachable = "EXTERNAL_SERVICE_UNREACHABLE"
	CodeStoreUnavailable           = "STORE_UNAVAILABLE"
	CodeNotFound                   = "NOT_FOUND"
	CodeBadUserInput               = "BAD_USER_INPUT"
	CodeInternal                   = "INTERNAL"
)

// gqlError is a resolver error carrying an extensions code
type gqlError struct {
	message string
	code    string
}

func (e *gqlError) Error() string {
	return e.message
}

func (e *gqlError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, domain.ErrExternalAuthRejected):
		return CodeExternalAuthRejected
	case errors.Is(err, domain.ErrExternalServiceUnreachable):
		return CodeExternalServiceUnreachable
	case errors.Is(err, domain.ErrStoreUnavailable):
		return CodeStoreUnavailable
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return CodeBadUserInput
	default:
		return CodeInternal
	}
}

// graphError converts a core error into a GraphQL error. Provider rejection
// messages are passed through verbatim.
func (r *Resolver) graphError(err error) error {
	code := errorCode(err)
	message := err.Error()

	var rejected *domain.ExternalAuthRejectedError
	if errors.As(err, &rejected) {
		message = rejected.Message
	}

	switch code {
	case CodeInternal:
		r.logger.Error().Err(err).Msg("Unexpected resolver error")
		message = "internal server error"
	case CodeStoreUnavailable, CodeExternalServiceUnreachable:
		r.logger.Error().Err(err).Str("code", code).Msg("Resolver failed")
	}

	return &gqlError{message: message, code: code}
}
