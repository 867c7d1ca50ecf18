package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// AcquisitionRate returns a timeseries panel showing token acquisitions
// per minute split by result.
func AcquisitionRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Acquisitions / min").
		Description("Token acquisitions per minute by result").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(`+Sel("hwaccess_token_acquisitions_total")+`[5m])) by (result) * 60`,
			"{{result}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// AcquisitionDuration returns a timeseries panel showing how long the
// browser helper or broker takes to produce a token.
func AcquisitionDuration() *timeseries.PanelBuilder {
	const h = "hwaccess_token_acquisition_duration_seconds"
	return timeseries.NewPanelBuilder().
		Title("Acquisition Duration").
		Description("Token acquisition duration percentiles").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(Quantile(0.50, h), "p50", "A")).
		WithTarget(PromQuery(Quantile(0.95, h), "p95", "B")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(10, 30)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// Invalidations returns a timeseries panel showing forced token renewals.
func Invalidations() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Invalidations / hour").
		Description("Tokens dropped after a 401 or repeated poll failures").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(increase(`+Sel("hwaccess_token_invalidations_total")+`[1h]))`,
			"invalidations", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(5, 20)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}
