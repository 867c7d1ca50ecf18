package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shady333/gettingHWaccess/internal/engine"
	"github.com/shady333/gettingHWaccess/internal/history"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

// ProductTracker manages the products a session polls. *engine.Engine
// implements it.
type ProductTracker interface {
	Products() []domain.Product
	AddProduct(p domain.Product) error
	RemoveProduct(id string) bool
}

// HistoryReader exposes recorded series. *history.Sink implements it.
type HistoryReader interface {
	History(id string) (history.ProductHistory, bool)
}

// ProductsHandler handles the tracked product endpoints.
type ProductsHandler struct {
	tracker ProductTracker
	history HistoryReader
}

// NewProductsHandler creates a ProductsHandler.
func NewProductsHandler(t ProductTracker, h HistoryReader) *ProductsHandler {
	return &ProductsHandler{tracker: t, history: h}
}

// --- Input/Output types ---

// TrackedProduct is a product with the points recorded for it so far.
type TrackedProduct struct {
	ID       string          `json:"id"`
	Name     string          `json:"name,omitempty"`
	ImageURL string          `json:"image_url,omitempty"`
	Points   []history.Point `json:"points"`
}

// ListProductsOutput is the response for GET /api/v1/products.
type ListProductsOutput struct {
	Body []TrackedProduct
}

// AddProductInput is the request for POST /api/v1/products.
type AddProductInput struct {
	Body struct {
		ID       string `json:"id"                  doc:"Inventory product id" minLength:"1"`
		Name     string `json:"name,omitempty"      doc:"Display name"`
		ImageURL string `json:"image_url,omitempty" doc:"Product image URL"`
	}
}

// AddProductOutput is the response for POST /api/v1/products.
type AddProductOutput struct {
	Body TrackedProduct
}

// RemoveProductInput is the request for DELETE /api/v1/products/{id}.
type RemoveProductInput struct {
	ID string `path:"id" doc:"Inventory product id"`
}

// --- Handlers ---

// ListProducts returns the tracked products in polling order.
func (h *ProductsHandler) ListProducts(
	_ context.Context,
	_ *struct{},
) (*ListProductsOutput, error) {
	products := h.tracker.Products()

	out := make([]TrackedProduct, 0, len(products))
	for _, p := range products {
		out = append(out, h.tracked(p))
	}

	return &ListProductsOutput{Body: out}, nil
}

// AddProduct starts tracking a product from the next polling iteration.
func (h *ProductsHandler) AddProduct(
	_ context.Context,
	input *AddProductInput,
) (*AddProductOutput, error) {
	p := domain.Product{
		ID:       input.Body.ID,
		Name:     input.Body.Name,
		ImageURL: input.Body.ImageURL,
	}

	if err := h.tracker.AddProduct(p); err != nil {
		if errors.Is(err, engine.ErrDuplicateProduct) {
			return nil, huma.Error409Conflict("product already tracked")
		}
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	return &AddProductOutput{Body: h.tracked(p)}, nil
}

// RemoveProduct stops tracking a product and discards its history.
func (h *ProductsHandler) RemoveProduct(
	_ context.Context,
	input *RemoveProductInput,
) (*struct{}, error) {
	if !h.tracker.RemoveProduct(input.ID) {
		return nil, huma.Error404NotFound("product not tracked")
	}
	return nil, nil
}

func (h *ProductsHandler) tracked(p domain.Product) TrackedProduct {
	tp := TrackedProduct{
		ID:       p.ID,
		Name:     p.Name,
		ImageURL: p.ImageURL,
		Points:   []history.Point{},
	}
	if hist, ok := h.history.History(p.ID); ok {
		tp.Points = hist.Points
	}
	return tp
}

// RegisterProductRoutes registers the tracked product endpoints with the Huma API.
func RegisterProductRoutes(api huma.API, h *ProductsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "List tracked products",
		Description: "Returns tracked products with their recorded points and deltas.",
		Tags:        []string{"products"},
	}, h.ListProducts)

	huma.Register(api, huma.Operation{
		OperationID:   "add-product",
		Method:        http.MethodPost,
		Path:          "/api/v1/products",
		Summary:       "Track a product",
		Description:   "Adds a product. Polling picks it up on the next iteration.",
		Tags:          []string{"products"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusConflict, http.StatusUnprocessableEntity},
	}, h.AddProduct)

	huma.Register(api, huma.Operation{
		OperationID:   "remove-product",
		Method:        http.MethodDelete,
		Path:          "/api/v1/products/{id}",
		Summary:       "Stop tracking a product",
		Description:   "Removes a product and discards its in-memory history.",
		Tags:          []string{"products"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, h.RemoveProduct)
}
