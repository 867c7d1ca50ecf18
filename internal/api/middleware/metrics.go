// Package middleware provides Echo middleware for the hwaccess HTTP servers.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shady333/gettingHWaccess/internal/metrics"
)

// unmatchedRoute labels requests that hit no registered route so random
// paths do not create new series.
const unmatchedRoute = "unmatched"

// healthGauges maps probe paths to their up/down gauge. Probe and scrape
// paths are excluded from the request histogram and counter.
var healthGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// Metrics returns Echo middleware that records request duration and status
// labelled by route template.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if gauge, ok := healthGauges[path]; ok {
				err := next(c)
				setUp(gauge, c.Response().Status)
				return err
			}
			if path == "/metrics" {
				return next(c)
			}

			start := time.Now()

			err := next(c)

			route := c.Path()
			if route == "" || route == "/*" {
				route = unmatchedRoute
			}
			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			metrics.HTTPRequestDuration.
				WithLabelValues(method, route, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, route, status).
				Inc()

			return err
		}
	}
}

func setUp(g prometheus.Gauge, status int) {
	if status >= 200 && status < 300 {
		g.Set(1)
		return
	}
	g.Set(0)
}
