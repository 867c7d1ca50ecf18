package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/labstack/echo/v4"
)

const tokenNotReady = "token not ready"

// TokenHandler serves the cached credential to other processes.
type TokenHandler struct {
	tokens TokenSource
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(tokens TokenSource) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// TokenBody is the credential as served by GET /api/v1/token.
type TokenBody struct {
	Token      string    `json:"token"       doc:"Bearer token for the inventory API"`
	AcquiredAt time.Time `json:"acquired_at" doc:"When the token was obtained"`
	ExpiresAt  time.Time `json:"expires_at"  doc:"When the token stops being reused"`
}

// GetTokenOutput is the response for GET /api/v1/token.
type GetTokenOutput struct {
	Body TokenBody
}

// GetToken returns the cached credential or 503 when none is valid.
func (h *TokenHandler) GetToken(
	_ context.Context,
	_ *struct{},
) (*GetTokenOutput, error) {
	cred, ok := h.tokens.Get()
	if !ok {
		return nil, huma.Error503ServiceUnavailable(tokenNotReady)
	}

	return &GetTokenOutput{Body: TokenBody{
		Token:      cred.Token,
		AcquiredAt: cred.AcquiredAt,
		ExpiresAt:  cred.ExpiresAt(h.tokens.TTL()),
	}}, nil
}

// LegacyGetToken handles GET /get_token.
//
// @Summary Get the cached token (legacy)
// @Description Returns {"token": "..."} or 503 {"error": "Token not ready"}.
// @Tags token
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} ErrorResponse
// @Router /get_token [get]
func (h *TokenHandler) LegacyGetToken(c echo.Context) error {
	cred, ok := h.tokens.Get()
	if !ok {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Token not ready"})
	}
	return c.JSON(http.StatusOK, map[string]string{"token": cred.Token})
}

// RegisterTokenRoutes registers the token endpoint with the Huma API.
func RegisterTokenRoutes(api huma.API, h *TokenHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-token",
		Method:      http.MethodGet,
		Path:        "/api/v1/token",
		Summary:     "Get the cached token",
		Description: "Returns the cached bearer token while it is valid.",
		Tags:        []string{"token"},
		Errors:      []int{http.StatusServiceUnavailable},
	}, h.GetToken)
}
