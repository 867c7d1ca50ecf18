package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shady333/gettingHWaccess/internal/history"
)

const defaultPoolSize = 4

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool      *pgxpool.Pool
	sessionID string
}

// Option configures the PostgresStore.
type Option func(*pgxpool.Config, *PostgresStore)

// WithPoolSize caps the number of pooled connections.
func WithPoolSize(n int) Option {
	return func(cfg *pgxpool.Config, _ *PostgresStore) {
		if n > 0 {
			cfg.MaxConns = int32(n) //nolint:gosec // small config value
		}
	}
}

// WithSessionID tags every written row with the monitoring session id.
func WithSessionID(id string) Option {
	return func(_ *pgxpool.Config, s *PostgresStore) {
		s.sessionID = id
	}
}

// NewPostgresStore connects to the database at connString and verifies
// the connection.
func NewPostgresStore(ctx context.Context, connString string, opts ...Option) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	cfg.MaxConns = defaultPoolSize

	s := &PostgresStore{}
	for _, opt := range opts {
		opt(cfg, s)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s.pool = pool
	return s, nil
}

// Close shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// SessionID returns the id stamped on written rows.
func (s *PostgresStore) SessionID() string {
	return s.sessionID
}

// WriteRow implements history.Writer.
func (s *PostgresStore) WriteRow(ctx context.Context, row history.Row) error {
	_, err := s.pool.Exec(ctx, queryInsertObservation, pgx.NamedArgs{
		"session_id":   s.sessionID,
		"observed_at":  row.Time,
		"product_id":   row.ProductID,
		"product_name": row.ProductName,
		"quantity":     row.Quantity,
		"max_quantity": row.MaxQuantity,
		"delta":        row.Delta,
		"variant_sku":  row.VariantSKU,
	})
	if err != nil {
		return fmt.Errorf("inserting observation: %w", err)
	}
	return nil
}

// ListObservations reads rows back, newest first unless q.Oldest is set.
func (s *PostgresStore) ListObservations(
	ctx context.Context,
	q *ObservationQuery,
) ([]StoredObservation, error) {
	if q == nil {
		q = &ObservationQuery{}
	}
	sql, args := q.ToSQL()

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (StoredObservation, error) {
		var o StoredObservation
		err := row.Scan(
			&o.ID, &o.SessionID, &o.Time, &o.ProductID, &o.ProductName,
			&o.Quantity, &o.MaxQuantity, &o.Delta, &o.VariantSKU,
		)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning observations: %w", err)
	}
	return out, nil
}

// ListProductIDs returns every product id present in the log.
func (s *PostgresStore) ListProductIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, queryListProductIDs)
	if err != nil {
		return nil, fmt.Errorf("querying product ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning product ids: %w", err)
	}
	return ids, nil
}
