package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// probePaths are polled by orchestrators. After the first success a
// successful probe is logged at debug; failures are always logged at warn.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It generates a request ID if none is provided and propagates it through
// the response header and echo context.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var seen sync.Map // probe path -> struct{} once it has succeeded

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status

			level := slog.LevelInfo
			if _, probe := probePaths[path]; probe {
				switch {
				case status >= http.StatusBadRequest:
					level = slog.LevelWarn
				default:
					if _, loaded := seen.LoadOrStore(path, struct{}{}); loaded {
						level = slog.LevelDebug
					}
				}
			} else if status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}

			log.Log(c.Request().Context(), level, "request",
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return err
		}
	}
}
