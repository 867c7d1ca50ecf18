// Package inventory queries the upstream inventory endpoint for one
// product at a time and normalizes the nested variant payload.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/shady333/gettingHWaccess/internal/metrics"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

const (
	defaultProductParam = "productId"
	defaultTimeout      = 10 * time.Second
	maxBodyBytes        = 4 << 20
)

// Fetcher fetches the current inventory for one product.
type Fetcher interface {
	Fetch(ctx context.Context, productID, token string) (*domain.Observation, error)
}

// Client implements Fetcher over HTTP.
type Client struct {
	endpoint     string
	productParam string
	userAgent    string
	client       *http.Client
	limiter      *rate.Limiter
	log          *slog.Logger
	nowFunc      func() time.Time
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithLimiter paces requests. Every Fetch waits on the limiter first.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithProductParam overrides the query parameter carrying the product id.
func WithProductParam(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.productParam = p
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithNowFunc overrides the clock used to stamp observations.
func WithNowFunc(f func() time.Time) Option {
	return func(c *Client) {
		c.nowFunc = f
	}
}

// NewClient creates a Client for the inventory endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:     endpoint,
		productParam: defaultProductParam,
		client:       &http.Client{Timeout: defaultTimeout},
		log:          slog.Default(),
		nowFunc:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch implements Fetcher. Errors wrap one of ErrAuthExpired, ErrTimeout,
// ErrUnreachable or ErrMalformedResponse, except when ctx itself is done,
// in which case ctx.Err() is wrapped.
func (c *Client) Fetch(
	ctx context.Context,
	productID, token string,
) (*domain.Observation, error) {
	start := time.Now()
	obs, err := c.fetch(ctx, productID, token)
	metrics.PollDuration.Observe(time.Since(start).Seconds())

	if ctx.Err() == nil {
		metrics.PollsTotal.WithLabelValues(string(Classify(err))).Inc()
	}
	if err != nil {
		c.log.Debug("inventory fetch failed", "product_id", productID, "error", err)
		return nil, err
	}
	return obs, nil
}

func (c *Client) fetch(
	ctx context.Context,
	productID, token string,
) (*domain.Observation, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	u, err := c.buildURL(productID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.transportError(ctx, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w (status %d)", ErrAuthExpired, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: status %d: %s",
			ErrUnreachable, resp.StatusCode, truncate(string(body), 256))
	}

	r, err := ParseResponse(body)
	if err != nil {
		return nil, err
	}

	return &domain.Observation{
		ProductID:            productID,
		TotalQuantity:        r.TotalQuantity,
		MaxAvailableQuantity: r.MaxAvailableQuantity,
		VariantSKU:           r.VariantSKU,
		ObservedAt:           c.nowFunc(),
	}, nil
}

func (c *Client) buildURL(productID string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: parsing endpoint: %w", ErrUnreachable, err)
	}
	q := u.Query()
	q.Set(c.productParam, productID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("executing inventory request: %w", ctx.Err())
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrUnreachable, err)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
