package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shady333/gettingHWaccess/internal/api/handlers"
	"github.com/shady333/gettingHWaccess/internal/token"
)

func serveCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the token broker",
		Long: "serve keeps a fresh token by running the configured acquirer on a schedule\n" +
			"and exposes it on /api/v1/token (and the legacy /get_token) for monitors.",
		Example: `  hwaccess serve --config config.yaml
  HWACCESS_SERVER_PORT=8080 hwaccess serve`,
		RunE: runServe,
	}

	c.Flags().String("host", "", "listen host override")
	c.Flags().Int("port", 0, "listen port override")
	cobra.CheckErr(viperBind(c, "server.host", "host"))
	cobra.CheckErr(viperBind(c, "server.port", "port"))

	return c
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	acq, err := newAcquirer(&cfg.Token.Acquirer)
	if err != nil {
		return fmt.Errorf("creating acquirer: %w", err)
	}
	store := newTokenStore(&cfg.Token, log)

	refresher, err := token.NewRefresher(store, acq, cfg.Token.RefreshInterval, log)
	if err != nil {
		return fmt.Errorf("creating token refresher: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refresher.Start(ctx)
	defer func() { <-refresher.Stop().Done() }()

	e, api := newServer(log, store, "hwaccess token broker")
	th := handlers.NewTokenHandler(store)
	handlers.RegisterTokenRoutes(api, th)
	e.GET("/get_token", th.LegacyGetToken)

	return serveUntilDone(ctx, e, cfg.Server.Addr(), &cfg.Server, log)
}
