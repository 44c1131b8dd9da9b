// Package common defines shared constants and sentinel errors used across
// client layers of vendordesk. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Transport / session errors.
	ErrUnauthorized   = errors.New("unauthorized")
	ErrUnavailable    = errors.New("server unavailable")
	ErrNoRefreshToken = errors.New("no refresh token available")
	ErrNotFound       = errors.New("not found")

	// Client-side validation errors.
	ErrValidation = errors.New("validation error")

	// Session-specific errors.
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrVendorIDRequired   = errors.New("vendor ID is required")
	ErrRegistrationExpiry = errors.New("registration session expired")
)
