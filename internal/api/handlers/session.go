package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shady333/gettingHWaccess/internal/engine"
)

// SessionProvider reports the state of a polling session.
type SessionProvider interface {
	Status() engine.Status
}

// SessionHandler handles GET /api/v1/session.
type SessionHandler struct {
	session SessionProvider
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(s SessionProvider) *SessionHandler {
	return &SessionHandler{session: s}
}

// GetSessionOutput is the response for GET /api/v1/session.
type GetSessionOutput struct {
	Body engine.Status
}

// GetSession returns the current session status.
func (h *SessionHandler) GetSession(
	_ context.Context,
	_ *struct{},
) (*GetSessionOutput, error) {
	return &GetSessionOutput{Body: h.session.Status()}, nil
}

// RegisterSessionRoutes registers the session route on the Huma API.
func RegisterSessionRoutes(api huma.API, h *SessionHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/api/v1/session",
		Summary:     "Get session status",
		Description: "Returns the engine state, failure counter and cycle count.",
		Tags:        []string{"session"},
	}, h.GetSession)
}
