package cashtrackr

import "github.com/goliatone/go-errors"

const (
	TextCodeDuplicateEmail      = "duplicate_email"
	TextCodeUserNotFound        = "user_not_found"
	TextCodeAccountNotConfirmed = "account_not_confirmed"
	TextCodeInvalidCredentials  = "invalid_credentials"
	TextCodeInvalidToken        = "invalid_token"
	TextCodeTokenExpired        = "token_expired"
	TextCodeTokenMalformed      = "token_malformed"
	TextCodeUnauthorized        = "unauthorized"
	TextCodeForbidden           = "forbidden"
	TextCodeBudgetNotFound      = "budget_not_found"
)

// ErrDuplicateEmail is returned when a registration or profile update uses
// an email another account already holds.
var ErrDuplicateEmail = errors.New("a user with that e-mail is already registered", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(errors.CodeConflict)

// ErrUserNotFound is returned when no account matches the given email.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrAccountNotConfirmed is returned when a login is attempted before the
// account's email has been confirmed. It is raised before any password
// verification so password correctness is never revealed for unconfirmed
// accounts.
var ErrAccountNotConfirmed = errors.New("the account has not been confirmed", errors.CategoryAuth).
	WithTextCode(TextCodeAccountNotConfirmed).
	WithCode(errors.CodeForbidden)

// ErrInvalidCredentials is returned when a password does not verify against
// the stored hash.
var ErrInvalidCredentials = errors.New("incorrect password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidToken covers both malformed and unknown opaque tokens, kept
// indistinguishable so lookups cannot be used as a token guessing oracle.
// Confirmation rejects with 401; the reset endpoints respond 404 (see
// http_controller.go).
var ErrInvalidToken = errors.New("invalid token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a bearer credential is past its expiry.
var ErrTokenExpired = errors.New("token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a bearer credential cannot be parsed
// or its signature does not verify.
var ErrTokenMalformed = errors.New("invalid or malformed token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthorized is returned when a request carries no usable bearer
// credential, or when the credential's principal no longer exists.
var ErrUnauthorized = errors.New("unauthorized", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when an authenticated principal addresses a
// resource owned by someone else.
var ErrForbidden = errors.New("invalid action", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrBudgetNotFound is returned when a path-addressed budget does not exist.
var ErrBudgetNotFound = errors.New("budget not found", errors.CategoryNotFound).
	WithTextCode(TextCodeBudgetNotFound).
	WithCode(errors.CodeNotFound)
