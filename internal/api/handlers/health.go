package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	tokens TokenSource
}

// NewHealthHandler creates a new HealthHandler. The process is ready
// once tokens holds a valid credential.
func NewHealthHandler(tokens TokenSource) *HealthHandler {
	return &HealthHandler{tokens: tokens}
}

// Healthz returns 200 if the process is running.
//
// @Summary Liveness check
// @Description Returns 200 if the process is running.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /healthz [get]
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if a valid credential is cached, 503 otherwise.
//
// @Summary Readiness check
// @Description Returns 200 if a valid credential is cached, 503 otherwise.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 503 {object} StatusResponse
// @Router /readyz [get]
func (h *HealthHandler) Readyz(c echo.Context) error {
	if _, ok := h.tokens.Get(); !ok {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}

// RegisterHealthRoutes registers the probe endpoints on e.
func RegisterHealthRoutes(e *echo.Echo, h *HealthHandler) {
	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)
}
