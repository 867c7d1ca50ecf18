// Package domain defines the core types shared by the token, inventory,
// history and engine packages.
package domain

import (
	"strings"
	"time"
)

// Credential is a short-lived bearer token and the time it was obtained.
// A Credential is never mutated; a newer one replaces it wholesale.
type Credential struct {
	Token      string    `json:"token"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// ValidAt reports whether the credential is still usable at now for the given TTL.
func (c Credential) ValidAt(now time.Time, ttl time.Duration) bool {
	return c.Token != "" && now.Sub(c.AcquiredAt) < ttl
}

// ExpiresAt returns the instant the credential stops being valid.
func (c Credential) ExpiresAt(ttl time.Duration) time.Time {
	return c.AcquiredAt.Add(ttl)
}

// Redacted returns a shortened form of the token safe for logs.
func (c Credential) Redacted() string {
	const keep = 12
	if len(c.Token) <= keep {
		return strings.Repeat("*", len(c.Token))
	}
	return c.Token[:keep] + "..."
}

// Product is a tracked product. Only ID matters to polling; Name and
// ImageURL are carried for logs and presentation.
type Product struct {
	ID       string `json:"id"                  yaml:"id"`
	Name     string `json:"name,omitempty"      yaml:"name"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url"`
}

// DisplayName returns Name, falling back to ID.
func (p Product) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Observation is one successful inventory reading for one product.
type Observation struct {
	ProductID            string    `json:"product_id"`
	ProductName          string    `json:"product_name,omitempty"`
	TotalQuantity        int       `json:"total_quantity"`
	MaxAvailableQuantity int       `json:"max_available_quantity"`
	VariantSKU           string    `json:"variant_sku,omitempty"`
	ObservedAt           time.Time `json:"observed_at"`
}

// Outcome tags the result of one product poll attempt.
type Outcome string

// Poll outcomes.
const (
	OutcomeSuccess     Outcome = "success"
	OutcomeAuthExpired Outcome = "auth_expired"
	OutcomeTimeout     Outcome = "timeout"
	OutcomeUnreachable Outcome = "unreachable"
	OutcomeMalformed   Outcome = "malformed_response"
)

// Severity grades status events.
type Severity string

// Status severities.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityFatal   Severity = "fatal"
)

// Event is emitted by the polling engine to presentation consumers.
type Event interface {
	EventTime() time.Time
}

// ObservationEvent carries a recorded observation and its delta against
// the previous observation for the same product. Delta is nil for the
// first observation of a product.
type ObservationEvent struct {
	ProductID   string      `json:"product_id"`
	Observation Observation `json:"observation"`
	Delta       *int        `json:"delta,omitempty"`
}

// EventTime implements Event.
func (e ObservationEvent) EventTime() time.Time { return e.Observation.ObservedAt }

// StatusEvent is a human-readable status message.
type StatusEvent struct {
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	Time     time.Time `json:"time"`
}

// EventTime implements Event.
func (e StatusEvent) EventTime() time.Time { return e.Time }
