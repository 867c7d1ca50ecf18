// Package handlers implements the HTTP handlers for the hwaccess token
// broker and the monitor session API.
package handlers

import (
	"time"

	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

// ErrorResponse is the legacy error response body.
type ErrorResponse struct {
	Error string `json:"error" example:"Token not ready"`
}

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// TokenSource exposes the cached credential. *token.Store implements it.
type TokenSource interface {
	Get() (domain.Credential, bool)
	TTL() time.Duration
}
