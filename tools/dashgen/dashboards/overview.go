// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/shady333/gettingHWaccess/tools/dashgen/panels"
)

// BuildOverview constructs the hwaccess Overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("hwaccess Overview").
		Uid("hwaccess-overview").
		Tags([]string{"hwaccess", "inventory"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.TrackedProductsStat()).
		WithPanel(panels.TokenAgeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("Token").
		WithPanel(panels.AcquisitionRate()).
		WithPanel(panels.AcquisitionDuration()).
		WithPanel(panels.Invalidations()))

	b.WithRow(dashboard.NewRowBuilder("Polling").
		WithPanel(panels.ConsecutiveFailuresStat()).
		WithPanel(panels.PollOutcomes()).
		WithPanel(panels.PollLatency()).
		WithPanel(panels.CycleRate()))

	b.WithRow(dashboard.NewRowBuilder("Inventory").
		WithPanel(panels.ProductQuantity()).
		WithPanel(panels.MaxAvailable()))

	b.WithRow(dashboard.NewRowBuilder("Delivery").
		WithPanel(panels.LogWriteFailures()).
		WithPanel(panels.EventsDropped()).
		WithPanel(panels.NotificationFailures()).
		WithPanel(panels.NotificationLatency()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
