package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

// HealthzStat returns a stat panel showing the health check status.
func HealthzStat() *stat.PanelBuilder {
	return upStat("Healthz", "Health check status (1 = ok, 0 = failing)", "hwaccess_healthz_up")
}

// ReadyzStat returns a stat panel showing whether a valid token is cached.
func ReadyzStat() *stat.PanelBuilder {
	return upStat("Readyz", "Token cached and valid (1 = ready, 0 = not ready)", "hwaccess_readyz_up")
}

func upStat(title, desc, metric string) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(desc).
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(Sel(metric), "", "A")).
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// TrackedProductsStat returns a stat panel showing how many products the
// session polls.
func TrackedProductsStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Tracked Products").
		Description("Products polled each cycle").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`max(`+Sel("hwaccess_tracked_products")+`)`, "", "A")).
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}

// TokenAgeStat returns a stat panel showing the age of the cached token.
func TokenAgeStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Token Age").
		Description("Time since the current token was acquired").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`time() - max(`+Sel("hwaccess_token_acquired_timestamp_seconds")+`)`, "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenYellowRed(150, 180)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}
