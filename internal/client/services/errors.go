package services

import (
	"errors"

	"github.com/dmitrijs2005/vendordesk/internal/client/client"
)

// userMessage prefers the backend's explanation and falls back to a fixed
// text for local failures.
func userMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
