package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes are the machine readable names for the error taxonomy. Clients
// branch on these, the messages are for humans.
const (
	TextCodeDuplicateEmail      = "DUPLICATE_EMAIL"
	TextCodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	TextCodeAlreadyActive       = "ALREADY_ACTIVE"
	TextCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	TextCodeNotActivated        = "NOT_ACTIVATED"
	TextCodeTokenExpired        = "TOKEN_EXPIRED"
	TextCodeTokenInvalid        = "TOKEN_INVALID"
	TextCodeMalformedCredential = "MALFORMED_CREDENTIAL"
	TextCodeUnauthenticated     = "UNAUTHENTICATED"
	TextCodeForbidden           = "FORBIDDEN"
)

// ErrDuplicateEmail is returned when signup races or repeats on an email
var ErrDuplicateEmail = errors.New("an account with this email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(errors.CodeConflict)

// ErrAccountNotFound is returned when a token subject or lookup has no account
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrAlreadyActive is returned when redeeming an activation token twice
var ErrAlreadyActive = errors.New("account is already active", errors.CategoryConflict).
	WithTextCode(TextCodeAlreadyActive).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials covers both unknown email and password mismatch so
// responses cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrNotActivated is returned on signin before the account confirmed its email
var ErrNotActivated = errors.New("please verify your email address", errors.CategoryAuth).
	WithTextCode(TextCodeNotActivated).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned for well formed tokens past their expiry
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalid is returned for tokens with a bad signature, shape, or purpose
var ErrTokenInvalid = errors.New("token is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrMalformedCredential is returned when the authorization header is not
// exactly "Bearer <token>"
var ErrMalformedCredential = errors.New("malformed authorization header", errors.CategoryAuth).
	WithTextCode(TextCodeMalformedCredential).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated rejects requests that carry no usable credential
var ErrUnauthenticated = errors.New("not authenticated", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden rejects mutations on resources the requester does not own
var ErrForbidden = errors.New("you do not have permission to perform this action", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the compare failure from the credential utilities
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// HasTextCode reports whether err carries the given taxonomy code.
func HasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode == code
	}
	return false
}

// IsTokenExpired will check for expired tokens
func IsTokenExpired(err error) bool {
	return HasTextCode(err, TextCodeTokenExpired)
}

// IsTokenInvalid will check for malformed or tampered tokens
func IsTokenInvalid(err error) bool {
	return HasTextCode(err, TextCodeTokenInvalid)
}

// IsDuplicateEmail will check the duplicate email condition, including the
// store level uniqueness violation a racing signup loser observes.
func IsDuplicateEmail(err error) bool {
	if err == nil {
		return false
	}
	if HasTextCode(err, TextCodeDuplicateEmail) {
		return true
	}
	return isUniqueViolation(err)
}

// isUniqueViolation matches the driver level constraint message. The store
// enforces email uniqueness, we only translate its verdict.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
