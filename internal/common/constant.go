// Package common contains shared constants and sentinel errors used across
// vendordesk components.
package common

// Header names attached to every outbound API request.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// Storage keys. The token keys hold raw strings; AuthStateKey holds the
// persisted JSON snapshot of the auth state.
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
	AuthStateKey    = "vendor-auth-storage"
)

// RefreshTokenPath is the backend route that exchanges a refresh token for a
// new token pair. Requests to it never go through the refresh coordinator.
const RefreshTokenPath = "/auth/refresh-token"
