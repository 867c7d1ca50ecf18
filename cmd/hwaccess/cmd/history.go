package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shady333/gettingHWaccess/internal/store"
)

func historyCmd() *cobra.Command {
	var (
		productID string
		sessionID string
		since     time.Duration
		limit     int
		oldest    bool
	)

	c := &cobra.Command{
		Use:   "history",
		Short: "Read recorded observations from the PostgreSQL log",
		Example: `  hwaccess history --product 5012345 --since 24h
  hwaccess history --session 3f1c... --oldest --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.History.Postgres.DSN == "" {
				return errors.New("history.postgres.dsn is required")
			}

			ctx := context.Background()
			pg, err := store.NewPostgresStore(ctx, cfg.History.Postgres.DSN)
			if err != nil {
				return fmt.Errorf("connecting to postgres: %w", err)
			}
			defer pg.Close()

			q := &store.ObservationQuery{Limit: limit, Oldest: oldest}
			if productID != "" {
				q.ProductID = &productID
			}
			if sessionID != "" {
				q.SessionID = &sessionID
			}
			if since > 0 {
				t := time.Now().Add(-since)
				q.Since = &t
			}

			rows, err := pg.ListObservations(ctx, q)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(rows)
			}
			if len(rows) == 0 {
				fmt.Println("No observations found.")
				return nil
			}
			return printObservationsTable(rows)
		},
	}

	f := c.Flags()
	f.StringVar(&productID, "product", "", "filter by product id")
	f.StringVar(&sessionID, "session", "", "filter by session id")
	f.DurationVar(&since, "since", 0, "only observations newer than this")
	f.IntVar(&limit, "limit", 100, "maximum rows to return")
	f.BoolVar(&oldest, "oldest", false, "oldest first")
	return c
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the PostgreSQL observation log schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.History.Postgres.DSN == "" {
				return errors.New("history.postgres.dsn is required")
			}
			log := newLogger(cfg)

			ctx := context.Background()
			pg, err := store.NewPostgresStore(ctx, cfg.History.Postgres.DSN)
			if err != nil {
				return fmt.Errorf("connecting to postgres: %w", err)
			}
			defer pg.Close()

			if err := pg.Migrate(ctx); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}
			log.Info("migrations applied")
			return nil
		},
	}
}
