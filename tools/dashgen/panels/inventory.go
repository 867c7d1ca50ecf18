package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ProductQuantity returns a timeseries panel showing each product's total
// quantity over time.
func ProductQuantity() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Total Quantity").
		Description("Last observed total inventory per product").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(16).
		WithTarget(PromQuery(Sel("hwaccess_product_total_quantity"), "{{product_id}}", "A")).
		FillOpacity(0).
		LineWidth(2).
		Legend(TableLegend("first", "last", "min")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// MaxAvailable returns a bar gauge showing the quantity the best variant
// of each product can supply right now.
func MaxAvailable() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Max Available").
		Description("Largest single-variant quantity per product").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(Sel("hwaccess_product_max_available_quantity"), "{{product_id}}", "A")).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds())
}
