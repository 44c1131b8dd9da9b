// Package client talks to the vendor backend REST API.
//
// # Overview
//
// HTTPClient is the raw transport: it attaches the bearer token and a request
// id, performs one HTTP exchange and maps failures to *APIError values. It
// knows nothing about refreshing tokens.
//
// API layers the endpoint methods on top of HTTPClient. Every call goes
// through an Authorizer, normally the refresh coordinator, which supplies the
// current access token and replays the call once after a successful refresh.
// The refresh endpoint itself is reached only through HTTPClient.RefreshTokens
// and never through the Authorizer.
//
// # Error Handling
//
// Failed exchanges return *APIError. It matches the sentinels in
// internal/common with errors.Is: ErrUnauthorized for 401, ErrNotFound for
// 404, ErrValidation for 400 and 422, and ErrUnavailable for 5xx responses
// and transport failures.
package client
