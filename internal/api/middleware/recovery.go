package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/danielgtaylor/huma/v2"
	"github.com/labstack/echo/v4"
)

// Recovery returns Echo middleware that recovers from panics, logs the stack
// trace, and returns a 500 problem+json body to the client.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)

					log.Error("panic recovered",
						"error", fmt.Sprint(r),
						"method", c.Request().Method,
						"path", c.Request().URL.Path,
						"stack", string(buf[:n]),
					)

					err = writeProblem(c, http.StatusInternalServerError, "internal server error")
				}
			}()
			return next(c)
		}
	}
}

func writeProblem(c echo.Context, status int, detail string) error {
	body, err := json.Marshal(&huma.ErrorModel{
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
	if err != nil {
		return err
	}
	return c.Blob(status, "application/problem+json", body)
}
