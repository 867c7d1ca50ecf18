package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shady333/gettingHWaccess/internal/api/handlers"
	"github.com/shady333/gettingHWaccess/internal/engine"
	"github.com/shady333/gettingHWaccess/internal/history"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.Session(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		status      int
		body        string
		wantDetail  string
	}{
		{
			name:        "problem json",
			contentType: "application/problem+json",
			status:      http.StatusServiceUnavailable,
			body:        `{"title":"Service Unavailable","status":503,"detail":"token not ready"}`,
			wantDetail:  "token not ready",
		},
		{
			name:        "legacy error body",
			contentType: "application/json",
			status:      http.StatusInternalServerError,
			body:        `{"error":"internal"}`,
			wantDetail:  "internal",
		},
		{
			name:        "plain text",
			contentType: "text/plain",
			status:      http.StatusBadGateway,
			body:        "bad gateway\n",
			wantDetail:  "bad gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).Token(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
		})
	}
}

func TestClient_Session(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/session", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(engine.Status{
			SessionID:       "sess-1",
			State:           engine.StatePolling,
			CyclesCompleted: 3,
		})
	}))
	defer srv.Close()

	s, err := New(srv.URL + "/").Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sess-1", s.SessionID)
	assert.Equal(t, engine.StatePolling, s.State)
	assert.Equal(t, 3, s.CyclesCompleted)
}

func TestClient_ListProducts(t *testing.T) {
	t.Parallel()

	delta := -2
	products := []handlers.TrackedProduct{{
		ID:   "A",
		Name: "Widget",
		Points: []history.Point{
			{Observation: domain.Observation{ProductID: "A", TotalQuantity: 10}},
			{Observation: domain.Observation{ProductID: "A", TotalQuantity: 8}, Delta: &delta},
		},
	}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(products)
	}))
	defer srv.Close()

	got, err := New(srv.URL).ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Points, 2)
	require.NotNil(t, got[0].Points[1].Delta)
	assert.Equal(t, -2, *got[0].Points[1].Delta)
}

func TestClient_AddProduct(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var p domain.Product
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(handlers.TrackedProduct{ID: p.ID, Name: p.Name})
	}))
	defer srv.Close()

	tp, err := New(srv.URL).AddProduct(context.Background(), domain.Product{ID: "C", Name: "Gadget"})
	require.NoError(t, err)
	assert.Equal(t, "C", tp.ID)
	assert.Equal(t, "Gadget", tp.Name)
}

func TestClient_RemoveProduct(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/products/w1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL).RemoveProduct(context.Background(), "w1"))
}
