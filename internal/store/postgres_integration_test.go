//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shady333/gettingHWaccess/internal/history"
	"github.com/shady333/gettingHWaccess/internal/store"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

func setupPostgres(t *testing.T, opts ...store.Option) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("hwaccess_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr, opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestPostgresStore_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_MigrateIsIdempotent(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestPostgresStore_WriteAndList(t *testing.T) {
	s := setupPostgres(t, store.WithSessionID("session-1"), store.WithPoolSize(2))
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	minus2 := -2
	rows := []history.Row{
		{Time: base, ProductID: "A", ProductName: "RTX 5090", Quantity: 100, MaxQuantity: 5, VariantSKU: "SKU-1"},
		{Time: base.Add(10 * time.Second), ProductID: "A", ProductName: "RTX 5090", Quantity: 98, MaxQuantity: 5, Delta: &minus2},
		{Time: base.Add(10 * time.Second), ProductID: "B", Quantity: 10},
	}
	for _, r := range rows {
		require.NoError(t, s.WriteRow(ctx, r))
	}

	got, err := s.ListObservations(ctx, &store.ObservationQuery{ProductID: ptr("A"), Oldest: true})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "session-1", got[0].SessionID)
	assert.Nil(t, got[0].Delta)
	assert.True(t, got[0].Time.Equal(base))
	assert.Equal(t, "SKU-1", got[0].VariantSKU)
	require.NotNil(t, got[1].Delta)
	assert.Equal(t, -2, *got[1].Delta)

	latest, err := s.ListObservations(ctx, &store.ObservationQuery{Limit: 1})
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "B", latest[0].ProductID)

	ids, err := s.ListProductIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids)
}

func TestPostgresStore_AsHistoryWriter(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	sink := history.NewSink(history.WithWriter(s))
	for _, q := range []int{10, 12} {
		_, err := sink.Record(ctx, domain.Observation{ProductID: "C", TotalQuantity: q, ObservedAt: time.Now()})
		require.NoError(t, err)
	}

	got, err := s.ListObservations(ctx, &store.ObservationQuery{ProductID: ptr("C"), Oldest: true})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].Delta)
	require.NotNil(t, got[1].Delta)
	assert.Equal(t, 2, *got[1].Delta)
}

func ptr[T any](v T) *T { return &v }
