package domain

import "errors"

// Validation errors
var (
	ErrPasswordMismatch = errors.New("password confirmation does not match")
	ErrWeakPassword     = errors.New("password does not meet the minimum policy")
	ErrInvalidRole      = errors.New("unrecognized role")
	ErrInvalidPurpose   = errors.New("unrecognized otp purpose")
)

// Conflict errors
var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrEmailNotVerified   = errors.New("email address not verified")
)

// Token errors
var (
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenMalformed     = errors.New("malformed token")
	ErrRefreshTokenReused = errors.New("refresh token already used")
)

// OTP errors
var (
	ErrOTPNotFound    = errors.New("otp not found")
	ErrOTPExpired     = errors.New("otp has expired")
	ErrOTPMismatch    = errors.New("otp code does not match")
	ErrOTPConsumed    = errors.New("otp already consumed")
	ErrOTPMaxAttempts = errors.New("maximum otp attempts exceeded")
	ErrOTPResendLimit = errors.New("otp resend limit exceeded")
)

// Lookup errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Dependency errors
var (
	ErrStoreUnavailable = errors.New("storage unavailable")
	ErrMailUnavailable  = errors.New("mail delivery unavailable")
)

// ErrorKind buckets every core error into the classes the HTTP layer maps
// to status codes.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindConflict
	KindAuth
	KindNotFound
	KindUnavailable
)

// Kind classifies err. Unknown errors are internal.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrPasswordMismatch),
		errors.Is(err, ErrWeakPassword),
		errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrInvalidPurpose):
		return KindValidation
	case errors.Is(err, ErrDuplicateUsername),
		errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrUserAlreadyExists):
		return KindConflict
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrEmailNotVerified),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenMalformed),
		errors.Is(err, ErrRefreshTokenReused),
		errors.Is(err, ErrOTPExpired),
		errors.Is(err, ErrOTPMismatch),
		errors.Is(err, ErrOTPConsumed),
		errors.Is(err, ErrOTPMaxAttempts),
		errors.Is(err, ErrOTPResendLimit):
		return KindAuth
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrSessionExpired),
		errors.Is(err, ErrOTPNotFound):
		return KindNotFound
	case errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, ErrMailUnavailable):
		return KindUnavailable
	default:
		return KindInternal
	}
}
