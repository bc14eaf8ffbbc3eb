package auth

import (
	"errors"

	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

// FailureCode maps a token verification error to its wire code.
func FailureCode(err error) string {
	switch {
	case errors.Is(err, ErrExpiredToken):
		return apperrors.CodeTokenExpired
	case errors.Is(err, ErrInvalidPayload):
		return apperrors.CodeInvalidPayload
	case errors.Is(err, ErrMissingToken):
		return apperrors.CodeUnauthenticated
	default:
		return apperrors.CodeTokenInvalid
	}
}

// FailureMessage maps a token verification error to a human-readable message.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrExpiredToken):
		return "token expired"
	case errors.Is(err, ErrInvalidPayload):
		return "token payload is incomplete"
	case errors.Is(err, ErrMissingToken):
		return "missing token"
	default:
		return "invalid token"
	}
}
