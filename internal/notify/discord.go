package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shady333/gettingHWaccess/internal/history"
	"github.com/shady333/gettingHWaccess/internal/metrics"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

const (
	colorGreen  = 0x2ECC71 // stock went up
	colorOrange = 0xE67E22 // stock went down
	colorYellow = 0xF1C40F // warning
	colorRed    = 0xE74C3C // fatal
)

// DiscordNotifier implements Notifier via Discord webhook. Only stock
// changes and warning or fatal status messages are sent; unchanged
// observations and info messages are skipped.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Thumbnail   *discordThumbnail   `json:"thumbnail,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordThumbnail struct {
	URL string `json:"url"`
}

// NotifyObservation posts a stock-change embed when the quantity moved.
func (d *DiscordNotifier) NotifyObservation(ctx context.Context, ev domain.ObservationEvent) error {
	if ev.Delta == nil || *ev.Delta == 0 {
		return nil
	}
	return d.post(ctx, discordWebhookPayload{Embeds: []discordEmbed{buildStockEmbed(ev)}})
}

// NotifyStatus posts warning and fatal status messages.
func (d *DiscordNotifier) NotifyStatus(ctx context.Context, ev domain.StatusEvent) error {
	var color int
	switch ev.Severity {
	case domain.SeverityFatal:
		color = colorRed
	case domain.SeverityWarning:
		color = colorYellow
	default:
		return nil
	}

	return d.post(ctx, discordWebhookPayload{Embeds: []discordEmbed{{
		Title:       "Monitor " + string(ev.Severity),
		Color:       color,
		Description: ev.Message,
		Timestamp:   ev.Time.UTC().Format(time.RFC3339),
	}}})
}

func buildStockEmbed(ev domain.ObservationEvent) discordEmbed {
	o := ev.Observation
	color := colorGreen
	if *ev.Delta < 0 {
		color = colorOrange
	}

	name := o.ProductName
	if name == "" {
		name = o.ProductID
	}

	embed := discordEmbed{
		Title:     fmt.Sprintf("Stock change: %s", name),
		Color:     color,
		Timestamp: o.ObservedAt.UTC().Format(time.RFC3339),
		Fields: []discordEmbedField{
			{Name: "Quantity", Value: strconv.Itoa(o.TotalQuantity), Inline: true},
			{Name: "Change", Value: history.FormatDelta(ev.Delta), Inline: true},
			{Name: "Max Available", Value: strconv.Itoa(o.MaxAvailableQuantity), Inline: true},
			{Name: "Product", Value: o.ProductID, Inline: true},
		},
	}
	if o.VariantSKU != "" {
		embed.Fields = append(embed.Fields, discordEmbedField{Name: "Variant", Value: o.VariantSKU, Inline: true})
	}
	return embed
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	start := time.Now()
	defer func() {
		metrics.NotificationDuration.Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
