package client

import (
	"context"
	"net/url"

	"github.com/shady333/gettingHWaccess/internal/api/handlers"
	"github.com/shady333/gettingHWaccess/internal/engine"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

// Session returns the monitor's session status.
func (c *Client) Session(ctx context.Context) (*engine.Status, error) {
	var s engine.Status
	if err := c.get(ctx, "/api/v1/session", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListProducts returns the tracked products with their recorded points.
func (c *Client) ListProducts(ctx context.Context) ([]handlers.TrackedProduct, error) {
	var products []handlers.TrackedProduct
	if err := c.get(ctx, "/api/v1/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// AddProduct starts tracking p.
func (c *Client) AddProduct(ctx context.Context, p domain.Product) (*handlers.TrackedProduct, error) {
	var tp handlers.TrackedProduct
	if err := c.post(ctx, "/api/v1/products", p, &tp); err != nil {
		return nil, err
	}
	return &tp, nil
}

// RemoveProduct stops tracking id.
func (c *Client) RemoveProduct(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/products/"+url.PathEscape(id))
}

// Token returns the credential served by a token broker.
func (c *Client) Token(ctx context.Context) (*handlers.TokenBody, error) {
	var t handlers.TokenBody
	if err := c.get(ctx, "/api/v1/token", &t); err != nil {
		return nil, err
	}
	return &t, nil
}
