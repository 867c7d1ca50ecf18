package token

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBrokerPath = "/api/v1/token"

// BrokerAcquirer fetches the current token from another hwaccess instance
// running `serve`, so a single browser-driving process can feed any number
// of monitors.
type BrokerAcquirer struct {
	client *resty.Client
	path   string
}

// BrokerOption configures the BrokerAcquirer.
type BrokerOption func(*BrokerAcquirer)

// WithBrokerPath overrides the token endpoint path.
func WithBrokerPath(p string) BrokerOption {
	return func(b *BrokerAcquirer) {
		b.path = p
	}
}

// WithBrokerTimeout overrides the request timeout.
func WithBrokerTimeout(d time.Duration) BrokerOption {
	return func(b *BrokerAcquirer) {
		b.client.SetTimeout(d)
	}
}

// NewBrokerAcquirer creates a BrokerAcquirer for the broker at baseURL.
func NewBrokerAcquirer(baseURL string, opts ...BrokerOption) *BrokerAcquirer {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetTimeout(10 * time.Second)
	client.SetHeader("Accept", "application/json")

	b := &BrokerAcquirer{client: client, path: defaultBrokerPath}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type brokerTokenResponse struct {
	Token      string    `json:"token"`
	AcquiredAt time.Time `json:"acquired_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// brokerErrorResponse covers both the problem+json body of the typed API
// and the legacy {"error": "..."} body.
type brokerErrorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// Acquire implements Acquirer.
func (b *BrokerAcquirer) Acquire(ctx context.Context) (string, error) {
	issued, err := b.AcquireIssued(ctx)
	return issued.Token, err
}

// AcquireIssued implements IssuedAcquirer. The legacy endpoint reports no
// timestamps; the typed endpoint reports both.
func (b *BrokerAcquirer) AcquireIssued(ctx context.Context) (Issued, error) {
	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&brokerTokenResponse{}).
		SetError(&brokerErrorResponse{}).
		Get(b.path)
	if err != nil {
		return Issued{}, fmt.Errorf("%w: requesting token from broker: %w", ErrAcquisition, err)
	}

	if resp.IsError() {
		msg := strings.TrimSpace(resp.String())
		if e, ok := resp.Error().(*brokerErrorResponse); ok {
			switch {
			case e.Detail != "":
				msg = e.Detail
			case e.Error != "":
				msg = e.Error
			}
		}
		return Issued{}, fmt.Errorf("%w: broker returned status %d: %s", ErrAcquisition, resp.StatusCode(), msg)
	}

	out, ok := resp.Result().(*brokerTokenResponse)
	if !ok || out.Token == "" {
		return Issued{}, fmt.Errorf("%w: broker response has no token", ErrAcquisition)
	}
	return Issued{Token: out.Token, AcquiredAt: out.AcquiredAt, ExpiresAt: out.ExpiresAt}, nil
}
