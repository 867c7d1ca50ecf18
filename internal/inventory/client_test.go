package inventory_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/shady333/gettingHWaccess/internal/inventory"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	observedAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		handler     http.HandlerFunc
		want        *domain.Observation
		wantOutcome domain.Outcome
	}{
		{
			name: "success",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
				assert.Equal(t, "4711", r.URL.Query().Get("productId"))
				assert.Equal(t, "us", r.URL.Query().Get("locale"), "existing query kept")
				assert.Equal(t, "hwaccess-test", r.Header.Get("User-Agent"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(responseBody(t, 42,
					`[{"sku":"GPU-8G","inventory":[{"status":"Available","quantity":4}]}]`)))
			},
			want: &domain.Observation{
				ProductID:            "4711",
				TotalQuantity:        42,
				MaxAvailableQuantity: 4,
				VariantSKU:           "GPU-8G",
				ObservedAt:           observedAt,
			},
			wantOutcome: domain.OutcomeSuccess,
		},
		{
			name: "401 means auth expired",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantOutcome: domain.OutcomeAuthExpired,
		},
		{
			name: "403 is unreachable",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte("forbidden"))
			},
			wantOutcome: domain.OutcomeUnreachable,
		},
		{
			name: "500 is unreachable",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantOutcome: domain.OutcomeUnreachable,
		},
		{
			name: "html body is unreachable",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html></html>"))
			},
			wantOutcome: domain.OutcomeUnreachable,
		},
		{
			name: "empty array is malformed",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("[]"))
			},
			wantOutcome: domain.OutcomeMalformed,
		},
		{
			name: "slow upstream times out",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(2 * time.Second):
				case <-r.Context().Done():
				}
				w.WriteHeader(http.StatusOK)
			},
			wantOutcome: domain.OutcomeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := inventory.NewClient(srv.URL+"/inventory?locale=us",
				inventory.WithTimeout(200*time.Millisecond),
				inventory.WithUserAgent("hwaccess-test"),
				inventory.WithNowFunc(func() time.Time { return observedAt }),
			)

			got, err := c.Fetch(context.Background(), "4711", "tok-1")
			assert.Equal(t, tt.wantOutcome, inventory.Classify(err))

			if tt.want == nil {
				require.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_FetchUnreachableHost(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := inventory.NewClient(url).Fetch(context.Background(), "1", "tok")
	require.ErrorIs(t, err, inventory.ErrUnreachable)
}

func TestClient_FetchCustomProductParam(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "99", r.URL.Query().Get("sku"))
		_, _ = w.Write([]byte(`[{"totalInventory": 0}]`))
	}))
	defer srv.Close()

	obs, err := inventory.NewClient(srv.URL, inventory.WithProductParam("sku")).
		Fetch(context.Background(), "99", "tok")
	require.NoError(t, err)
	assert.Equal(t, 0, obs.TotalQuantity)
}

func TestClient_FetchCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := inventory.NewClient(srv.URL).Fetch(ctx, "1", "tok")
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_FetchWaitsOnLimiter(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"totalInventory": 1}]`))
	}))
	defer srv.Close()

	c := inventory.NewClient(srv.URL, inventory.WithLimiter(rate.NewLimiter(rate.Every(100*time.Millisecond), 1)))

	start := time.Now()
	for range 3 {
		_, err := c.Fetch(context.Background(), "1", "tok")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.OutcomeSuccess, inventory.Classify(nil))
	assert.Equal(t, domain.OutcomeAuthExpired, inventory.Classify(inventory.ErrAuthExpired))
	assert.Equal(t, domain.OutcomeTimeout, inventory.Classify(inventory.ErrTimeout))
	assert.Equal(t, domain.OutcomeMalformed, inventory.Classify(inventory.ErrMalformedResponse))
	assert.Equal(t, domain.OutcomeUnreachable, inventory.Classify(inventory.ErrUnreachable))
	assert.Equal(t, domain.OutcomeUnreachable, inventory.Classify(context.Canceled))
}
