package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/shady333/gettingHWaccess/internal/api/handlers"
	"github.com/shady333/gettingHWaccess/internal/config"
	"github.com/shady333/gettingHWaccess/internal/engine"
	"github.com/shady333/gettingHWaccess/internal/history"
	"github.com/shady333/gettingHWaccess/internal/inventory"
	"github.com/shady333/gettingHWaccess/internal/notify"
	"github.com/shady333/gettingHWaccess/internal/store"
	"github.com/shady333/gettingHWaccess/internal/token"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

type monitorOptions struct {
	products []string
	listen   string
	quiet    bool
}

func monitorCmd() *cobra.Command {
	opts := &monitorOptions{}

	c := &cobra.Command{
		Use:   "monitor",
		Short: "Run a polling session",
		Long: "monitor polls the inventory API for every tracked product on a fixed\n" +
			"cadence, renewing the token when it expires or after repeated failures,\n" +
			"and records each observation with its delta against the previous one.",
		Example: `  hwaccess monitor --product 5012345=Widget --duration 30m
  hwaccess monitor --start-at 09:00 --listen :8081
  HWACCESS_INVENTORY_URL=https://shop.example/api/inventory hwaccess monitor`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runMonitor(opts)
		},
	}

	f := c.Flags()
	f.StringArrayVar(&opts.products, "product", nil, "product to track as ID or ID=NAME (repeatable)")
	f.StringVar(&opts.listen, "listen", "", "serve the session API on this address (e.g. :8081)")
	f.BoolVar(&opts.quiet, "quiet", false, "do not print observations to stdout")
	f.Duration("duration", 0, "monitoring window (negative runs until stopped)")
	f.Duration("check-interval", 0, "pause between polling cycles")
	f.String("start-at", "", "defer the first poll until this time (RFC3339 or HH:MM[:SS])")
	f.String("csv", "", "append observations to this CSV file")
	f.Bool("background-refresh", false, "also refresh the token on token.refresh_interval")

	cobra.CheckErr(viperBind(c, "monitor.duration", "duration"))
	cobra.CheckErr(viperBind(c, "monitor.check_interval", "check-interval"))
	cobra.CheckErr(viperBind(c, "monitor.start_at", "start-at"))
	cobra.CheckErr(viperBind(c, "history.csv_path", "csv"))
	cobra.CheckErr(viperBind(c, "monitor.background_refresh", "background-refresh"))

	return c
}

func runMonitor(opts *monitorOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	for _, raw := range opts.products {
		cfg.Products = append(cfg.Products, parseProductFlag(raw))
	}
	if err := config.ValidateMonitor(cfg); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	var startAt time.Time
	if cfg.Monitor.StartAt != "" {
		if startAt, err = engine.ParseStartAt(cfg.Monitor.StartAt, time.Now()); err != nil {
			return err
		}
	}

	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	acq, err := newAcquirer(&cfg.Token.Acquirer)
	if err != nil {
		return fmt.Errorf("creating acquirer: %w", err)
	}
	tokens := newTokenStore(&cfg.Token, log)

	sessionID := uuid.NewString()

	sink, closeWriters, err := newSink(ctx, cfg, sessionID, log)
	if err != nil {
		return err
	}
	defer closeWriters()

	eng := engine.New(tokens, acq, newInventoryClient(&cfg.Inventory, log), sink,
		engine.WithLogger(log),
		engine.WithSessionID(sessionID),
		engine.WithProducts(cfg.Products...),
		engine.WithDuration(cfg.Monitor.Duration),
		engine.WithCheckInterval(cfg.Monitor.CheckInterval),
		engine.WithAcquireBackoff(cfg.Monitor.AcquireBackoff),
		engine.WithPrepareLead(cfg.Monitor.PrepareLead),
		engine.WithMaxFailures(cfg.Monitor.MaxFailures),
		engine.WithForceRefreshAfter(cfg.Monitor.ForceRefreshAfter),
	)

	if cfg.Monitor.BackgroundRefresh {
		refresher, err := token.NewRefresher(tokens, acq, cfg.Token.RefreshInterval, log)
		if err != nil {
			return fmt.Errorf("creating token refresher: %w", err)
		}
		refresher.Start(ctx)
		defer func() { <-refresher.Stop().Done() }()
	}

	var stdout io.Writer = os.Stdout
	if opts.quiet {
		stdout = nil
	}
	dispatcher := notify.NewDispatcher(log, newNotifiers(cfg, stdout, log)...)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatcher.Run(context.WithoutCancel(ctx), eng.Events())
	}()

	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	serverErr := make(chan error, 1)
	if opts.listen != "" {
		e, api := newServer(log, tokens, "hwaccess monitor")
		handlers.RegisterSessionRoutes(api, handlers.NewSessionHandler(eng))
		handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(eng, sink))

		go func() {
			serverErr <- serveUntilDone(serverCtx, e, opts.listen, &cfg.Server, log)
		}()
	} else {
		close(serverErr)
	}

	var runErr error
	if startAt.IsZero() {
		runErr = eng.Run(ctx)
	} else {
		runErr = eng.RunScheduled(ctx, startAt)
	}

	stopServer()
	wg.Wait()

	if err := <-serverErr; err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func newInventoryClient(cfg *config.InventoryConfig, log *slog.Logger) *inventory.Client {
	opts := []inventory.Option{
		inventory.WithTimeout(cfg.Timeout),
		inventory.WithProductParam(cfg.ProductParam),
		inventory.WithLimiter(rate.NewLimiter(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst)),
		inventory.WithLogger(log),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, inventory.WithUserAgent(cfg.UserAgent))
	}
	return inventory.NewClient(cfg.URL, opts...)
}

// newSink wires the CSV and PostgreSQL observation logs. The returned func
// closes them.
func newSink(
	ctx context.Context,
	cfg *config.Config,
	sessionID string,
	log *slog.Logger,
) (*history.Sink, func(), error) {
	opts := []history.Option{history.WithLogger(log)}
	var closers []func()

	if cfg.History.CSVPath != "" {
		w, err := history.NewCSVWriter(cfg.History.CSVPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening history csv: %w", err)
		}
		log.Info("writing observations to csv", "path", w.Path())
		opts = append(opts, history.WithWriter(w))
		closers = append(closers, func() {
			if err := w.Close(); err != nil {
				log.Warn("closing history csv failed", "error", err)
			}
		})
	}

	if cfg.History.Postgres.Enabled {
		pg, err := store.NewPostgresStore(ctx, cfg.History.Postgres.DSN,
			store.WithPoolSize(cfg.History.Postgres.PoolSize),
			store.WithSessionID(sessionID),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		opts = append(opts, history.WithWriter(pg))
		closers = append(closers, pg.Close)
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return history.NewSink(opts...), closeAll, nil
}

// newNotifiers returns the configured presentation consumers. A nil
// stdout disables the console notifier.
func newNotifiers(cfg *config.Config, stdout io.Writer, log *slog.Logger) []notify.Notifier {
	var ns []notify.Notifier
	if stdout != nil {
		ns = append(ns, notify.NewConsoleNotifier(stdout))
	}
	if cfg.Notifications.Discord.Enabled {
		ns = append(ns, notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL))
	}
	if len(ns) == 0 {
		ns = append(ns, notify.NewNoOpNotifier(log))
	}
	return ns
}

// parseProductFlag parses ID or ID=NAME.
func parseProductFlag(raw string) domain.Product {
	id, name, _ := strings.Cut(raw, "=")
	return domain.Product{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)}
}
