package main

import "errors"

// generatedHeader is prepended to every generated YAML file.
const generatedHeader = "# Code generated by tools/dashgen. DO NOT EDIT.\n"

// KnownMetrics is the set of metric names exported by hwaccess plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"hwaccess_http_request_duration_seconds": true,
	"hwaccess_http_requests_total":           true,

	// Health metrics.
	"hwaccess_healthz_up": true,
	"hwaccess_readyz_up":  true,

	// Token metrics.
	"hwaccess_token_acquisitions_total":           true,
	"hwaccess_token_acquisition_duration_seconds": true,
	"hwaccess_token_invalidations_total":          true,
	"hwaccess_token_acquired_timestamp_seconds":   true,

	// Polling metrics.
	"hwaccess_polls_total":           true,
	"hwaccess_poll_duration_seconds": true,
	"hwaccess_cycles_total":          true,
	"hwaccess_consecutive_failures":  true,
	"hwaccess_tracked_products":      true,

	// Inventory metrics.
	"hwaccess_product_total_quantity":         true,
	"hwaccess_product_max_available_quantity": true,

	// Delivery metrics.
	"hwaccess_log_write_failures_total":      true,
	"hwaccess_events_dropped_total":          true,
	"hwaccess_notification_failures_total":   true,
	"hwaccess_notification_duration_seconds": true,

	// Recording rules.
	"hwaccess:http_requests:rate5m":              true,
	"hwaccess:http_errors:rate5m":                true,
	"hwaccess:polls:rate5m":                      true,
	"hwaccess:poll_failures:rate5m":              true,
	"hwaccess:token_acquisition_failures:rate5m": true,

	// Standard Prometheus metrics referenced in alerts.
	"up": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
