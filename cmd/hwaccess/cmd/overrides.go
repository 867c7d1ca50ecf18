package cmd

import (
	"github.com/spf13/viper"

	"github.com/shady333/gettingHWaccess/internal/config"
)

// overrideKeys lists the config keys that flags and HWACCESS_* env vars
// may override, e.g. HWACCESS_TOKEN_TTL=90s or HWACCESS_INVENTORY_URL.
var overrideKeys = []string{
	"server.host",
	"server.port",
	"token.ttl",
	"token.snapshot_path",
	"token.refresh_interval",
	"token.acquirer.kind",
	"token.acquirer.timeout",
	"token.acquirer.broker_url",
	"inventory.url",
	"inventory.product_param",
	"inventory.timeout",
	"monitor.duration",
	"monitor.check_interval",
	"monitor.start_at",
	"monitor.background_refresh",
	"history.csv_path",
	"history.postgres.enabled",
	"history.postgres.dsn",
	"notifications.discord.enabled",
	"notifications.discord.webhook_url",
	"logging.level",
	"logging.format",
}

func applyOverrides(cfg *config.Config, v *viper.Viper) {
	for _, key := range overrideKeys {
		_ = v.BindEnv(key) //nolint:errcheck // only fails without a key
	}

	set := func(key string, apply func()) {
		if v.IsSet(key) && v.GetString(key) != "" {
			apply()
		}
	}

	set("server.host", func() { cfg.Server.Host = v.GetString("server.host") })
	set("server.port", func() { cfg.Server.Port = v.GetInt("server.port") })
	set("token.ttl", func() { cfg.Token.TTL = v.GetDuration("token.ttl") })
	set("token.snapshot_path", func() { cfg.Token.SnapshotPath = v.GetString("token.snapshot_path") })
	set("token.refresh_interval", func() { cfg.Token.RefreshInterval = v.GetDuration("token.refresh_interval") })
	set("token.acquirer.kind", func() { cfg.Token.Acquirer.Kind = v.GetString("token.acquirer.kind") })
	set("token.acquirer.timeout", func() { cfg.Token.Acquirer.Timeout = v.GetDuration("token.acquirer.timeout") })
	set("token.acquirer.broker_url", func() { cfg.Token.Acquirer.BrokerURL = v.GetString("token.acquirer.broker_url") })
	set("inventory.url", func() { cfg.Inventory.URL = v.GetString("inventory.url") })
	set("inventory.product_param", func() { cfg.Inventory.ProductParam = v.GetString("inventory.product_param") })
	set("inventory.timeout", func() { cfg.Inventory.Timeout = v.GetDuration("inventory.timeout") })
	set("monitor.duration", func() { cfg.Monitor.Duration = v.GetDuration("monitor.duration") })
	set("monitor.check_interval", func() { cfg.Monitor.CheckInterval = v.GetDuration("monitor.check_interval") })
	set("monitor.start_at", func() { cfg.Monitor.StartAt = v.GetString("monitor.start_at") })
	set("monitor.background_refresh", func() { cfg.Monitor.BackgroundRefresh = v.GetBool("monitor.background_refresh") })
	set("history.csv_path", func() { cfg.History.CSVPath = v.GetString("history.csv_path") })
	set("history.postgres.enabled", func() { cfg.History.Postgres.Enabled = v.GetBool("history.postgres.enabled") })
	set("history.postgres.dsn", func() { cfg.History.Postgres.DSN = v.GetString("history.postgres.dsn") })
	set("notifications.discord.enabled", func() {
		cfg.Notifications.Discord.Enabled = v.GetBool("notifications.discord.enabled")
	})
	set("notifications.discord.webhook_url", func() {
		cfg.Notifications.Discord.WebhookURL = v.GetString("notifications.discord.webhook_url")
	})
	set("logging.level", func() { cfg.Logging.Level = v.GetString("logging.level") })
	set("logging.format", func() { cfg.Logging.Format = v.GetString("logging.format") })
}
