package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// LogWriteFailures returns a timeseries panel showing failed CSV or
// PostgreSQL observation writes.
func LogWriteFailures() *timeseries.PanelBuilder {
	return counterRate(
		"Log Write Failures",
		"Observation rows that could not be appended to a log",
		"hwaccess_log_write_failures_total",
		"failures/min",
	)
}

// EventsDropped returns a timeseries panel showing events dropped because
// the consumer fell behind.
func EventsDropped() *timeseries.PanelBuilder {
	return counterRate(
		"Events Dropped",
		"Session events dropped on a full channel",
		"hwaccess_events_dropped_total",
		"dropped/min",
	)
}

// NotificationFailures returns a timeseries panel showing the notification
// failure rate.
func NotificationFailures() *timeseries.PanelBuilder {
	return counterRate(
		"Notification Failures",
		"Failed console or Discord deliveries",
		"hwaccess_notification_failures_total",
		"failures/min",
	)
}

// NotificationLatency returns a timeseries panel showing Discord webhook
// latency.
func NotificationLatency() *timeseries.PanelBuilder {
	const h = "hwaccess_notification_duration_seconds"
	return timeseries.NewPanelBuilder().
		Title("Notification Latency").
		Description("Webhook delivery duration percentiles").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(Quantile(0.50, h), "p50", "A")).
		WithTarget(PromQuery(Quantile(0.95, h), "p95", "B")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

func counterRate(title, desc, counter, legend string) *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title(title).
		Description(desc).
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`sum(rate(`+Sel(counter)+`[5m])) * 60`, legend, "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}
