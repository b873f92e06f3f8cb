package domain

import "errors"

var (
	// ErrValidation indicates missing or malformed input; the caller must
	// correct and resubmit.
	ErrValidation = errors.New("validation failed")
	// ErrAccountExists indicates the email is already registered; the caller
	// should log in instead.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountNotFound indicates the session gateway does not know the
	// resolved account id.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidCredentials covers bad email/password combinations at login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidLicense indicates a license key that is not on the allow-list.
	ErrInvalidLicense = errors.New("invalid license key")
	// ErrAuthExpired indicates the bearer credential could not be resolved;
	// the caller must re-authenticate, not retry.
	ErrAuthExpired = errors.New("authentication expired")
	// ErrLimitReached indicates the free calculation cap is exhausted; the
	// caller must upgrade. Not a bug.
	ErrLimitReached = errors.New("calculation limit reached")
	// ErrCodeMismatch indicates a wrong or expired verification code.
	ErrCodeMismatch = errors.New("invalid verification code")
	// ErrUpstream wraps dependency failures (store or session gateway); the
	// caller sees a generic retry-later message.
	ErrUpstream = errors.New("upstream dependency failed")
)
