package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shady333/gettingHWaccess/internal/api/handlers"
	"github.com/shady333/gettingHWaccess/internal/engine"
	"github.com/shady333/gettingHWaccess/internal/history"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

type fakeTracker struct {
	products []domain.Product
	removed  []string
}

func (f *fakeTracker) Products() []domain.Product { return slices.Clone(f.products) }

func (f *fakeTracker) AddProduct(p domain.Product) error {
	for _, existing := range f.products {
		if existing.ID == p.ID {
			return fmt.Errorf("%w: %s", engine.ErrDuplicateProduct, p.ID)
		}
	}
	f.products = append(f.products, p)
	return nil
}

func (f *fakeTracker) RemoveProduct(id string) bool {
	i := slices.IndexFunc(f.products, func(p domain.Product) bool { return p.ID == id })
	if i < 0 {
		return false
	}
	f.products = slices.Delete(f.products, i, i+1)
	f.removed = append(f.removed, id)
	return true
}

func newProductsAPI(t *testing.T, tracker *fakeTracker, sink *history.Sink) humatest.TestAPI {
	t.Helper()

	_, api := humatest.New(t)
	handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(tracker, sink))
	return api
}

func TestListProducts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	sink := history.NewSink()
	for i, qty := range []int{10, 8} {
		_, err := sink.Record(ctx, domain.Observation{
			ProductID:     "A",
			TotalQuantity: qty,
			ObservedAt:    start.Add(time.Duration(i) * 10 * time.Second),
		})
		require.NoError(t, err)
	}

	tracker := &fakeTracker{products: []domain.Product{
		{ID: "A", Name: "Widget"},
		{ID: "B"},
	}}
	api := newProductsAPI(t, tracker, sink)

	resp := api.Get("/api/v1/products")
	require.Equal(t, http.StatusOK, resp.Code)

	var got []handlers.TrackedProduct
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "A", got[0].ID)
	assert.Equal(t, "Widget", got[0].Name)
	require.Len(t, got[0].Points, 2)
	assert.Nil(t, got[0].Points[0].Delta)
	require.NotNil(t, got[0].Points[1].Delta)
	assert.Equal(t, -2, *got[0].Points[1].Delta)

	assert.Equal(t, "B", got[1].ID)
	assert.Empty(t, got[1].Points)
}

func TestListProducts_Empty(t *testing.T) {
	t.Parallel()

	api := newProductsAPI(t, &fakeTracker{}, history.NewSink())

	resp := api.Get("/api/v1/products")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestAddProduct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		existing   []domain.Product
		body       map[string]any
		wantStatus int
		wantBody   string
	}{
		{
			name:       "adds product",
			body:       map[string]any{"id": "C", "name": "Gadget"},
			wantStatus: http.StatusCreated,
			wantBody:   `"id":"C"`,
		},
		{
			name:       "duplicate id",
			existing:   []domain.Product{{ID: "C"}},
			body:       map[string]any{"id": "C"},
			wantStatus: http.StatusConflict,
			wantBody:   "product already tracked",
		},
		{
			name:       "empty id rejected",
			body:       map[string]any{"id": ""},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "missing id rejected",
			body:       map[string]any{"name": "Nameless"},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tracker := &fakeTracker{products: tt.existing}
			api := newProductsAPI(t, tracker, history.NewSink())

			resp := api.Post("/api/v1/products", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestRemoveProduct(t *testing.T) {
	t.Parallel()

	tracker := &fakeTracker{products: []domain.Product{{ID: "A"}, {ID: "B"}}}
	api := newProductsAPI(t, tracker, history.NewSink())

	resp := api.Delete("/api/v1/products/A")
	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, []string{"A"}, tracker.removed)

	resp = api.Delete("/api/v1/products/A")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "product not tracked")
}
