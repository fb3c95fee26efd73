package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes carried by structured auth errors. Handlers and tests match on
// these rather than on message strings.
const (
	TextCodeTokenRequired    = "TOKEN_REQUIRED"
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
	TextCodeTokenMalformed   = "TOKEN_MALFORMED"
	TextCodeWrongTokenType   = "WRONG_TOKEN_TYPE"
	TextCodeIdentityNotFound = "IDENTITY_NOT_FOUND"
	TextCodeAccountInactive  = "ACCOUNT_DEACTIVATED"
	TextCodeStoreUnavailable = "ACCOUNT_STORE_UNAVAILABLE"
	TextCodeInvalidCreds     = "INVALID_CREDENTIALS"
	TextCodeEmptyPassword    = "EMPTY_PASSWORD"
)

// ErrTokenRequired is returned when a protected route receives no bearer credential.
var ErrTokenRequired = errors.New("authorization token required", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenRequired)

// ErrTokenExpired is returned when a token's expiry has passed.
var ErrTokenExpired = errors.New("token has expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed covers structurally invalid tokens and bad signatures.
var ErrTokenMalformed = errors.New("token is malformed or has an invalid signature", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrWrongTokenType is returned when a token of one class is presented to the
// verifier of another, e.g. a session token offered as a password reset token.
var ErrWrongTokenType = errors.New("token type is not valid for this operation", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeWrongTokenType)

// ErrIdentityNotFound is returned when a token subject does not resolve to an account.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound)

// ErrAccountDeactivated is returned when the resolved account is no longer active.
var ErrAccountDeactivated = errors.New("account is deactivated", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeAccountInactive)

// ErrAccountStoreUnavailable is returned when the account store cannot be
// reached. Unlike the other kinds this one is transient and may be retried.
var ErrAccountStoreUnavailable = errors.New("account store unavailable", errors.CategoryInternal).
	WithTextCode(TextCodeStoreUnavailable)

// ErrMismatchedHashAndPassword is the error returned for invalid credentials.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// hasTextCode reports whether err carries the given structured text code.
func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode == code
	}
	return false
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return hasTextCode(err, TextCodeTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return hasTextCode(err, TextCodeTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsWrongTokenTypeError will check for cross-class token use
func IsWrongTokenTypeError(err error) bool {
	return hasTextCode(err, TextCodeWrongTokenType)
}

// IsIdentityNotFoundError will check for unresolvable subjects
func IsIdentityNotFoundError(err error) bool {
	return hasTextCode(err, TextCodeIdentityNotFound)
}

// IsAccountDeactivatedError will check for inactive accounts
func IsAccountDeactivatedError(err error) bool {
	return hasTextCode(err, TextCodeAccountInactive)
}

// IsStoreUnavailableError will check for transient account store failures
func IsStoreUnavailableError(err error) bool {
	return hasTextCode(err, TextCodeStoreUnavailable)
}
