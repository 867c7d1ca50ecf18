package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ConsecutiveFailuresStat returns a stat panel showing the session's
// failure counter against its budget of three.
func ConsecutiveFailuresStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Consecutive Failures").
		Description("Failed polls or acquisitions since the last success").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`max(`+Sel("hwaccess_consecutive_failures")+`)`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 2)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// PollOutcomes returns a timeseries panel showing polls per minute split by
// outcome.
func PollOutcomes() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Polls / min").
		Description("Inventory polls per minute by outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`hwaccess:polls:rate5m * 60`, "{{outcome}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// PollLatency returns a timeseries panel showing inventory request latency.
func PollLatency() *timeseries.PanelBuilder {
	const h = "hwaccess_poll_duration_seconds"
	return timeseries.NewPanelBuilder().
		Title("Poll Latency").
		Description("Inventory request duration percentiles").
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

// CycleRate returns a timeseries panel showing completed polling cycles
// per minute.
func CycleRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Cycles / min").
		Description("Completed polling cycles per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			`sum(rate(`+Sel("hwaccess_cycles_total")+`[5m])) * 60`,
			"cycles/min", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
