package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shady333/gettingHWaccess/internal/metrics"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

func intp(v int) *int { return &v }

func testObservation(delta *int) domain.ObservationEvent {
	return domain.ObservationEvent{
		ProductID: "4711",
		Delta:     delta,
		Observation: domain.Observation{
			ProductID:            "4711",
			ProductName:          "RTX 5090 Founders Edition",
			TotalQuantity:        98,
			MaxAvailableQuantity: 5,
			VariantSKU:           "SKU-1",
			ObservedAt:           time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestDiscordNotifier_NotifyObservation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		delta      *int
		statusCode int
		wantPost   bool
		wantErr    bool
		errMsg     string
		wantColor  int
	}{
		{name: "decrease is orange", delta: intp(-2), statusCode: http.StatusNoContent, wantPost: true, wantColor: colorOrange},
		{name: "increase is green", delta: intp(3), statusCode: http.StatusNoContent, wantPost: true, wantColor: colorGreen},
		{name: "first observation skipped", delta: nil},
		{name: "unchanged skipped", delta: intp(0)},
		{
			name: "discord returns 429 rate limited", delta: intp(1), statusCode: http.StatusTooManyRequests,
			wantPost: true, wantErr: true, errMsg: "rate limited",
		},
		{
			name: "discord returns 400 error", delta: intp(1), statusCode: http.StatusBadRequest,
			wantPost: true, wantErr: true, errMsg: "discord returned 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var (
				received discordWebhookPayload
				posted   bool
			)
			srv := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					posted = true
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					assert.Equal(t, http.MethodPost, r.Method)
					assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
					w.WriteHeader(tt.statusCode)
				}),
			)
			defer srv.Close()

			ev := testObservation(tt.delta)
			err := NewDiscordNotifier(srv.URL).NotifyObservation(context.Background(), ev)

			assert.Equal(t, tt.wantPost, posted)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			if !tt.wantPost {
				return
			}

			require.Len(t, received.Embeds, 1)
			embed := received.Embeds[0]
			assert.Equal(t, tt.wantColor, embed.Color)
			assert.Contains(t, embed.Title, ev.Observation.ProductName)
			assert.Equal(t, "2026-03-14T09:00:00Z", embed.Timestamp)

			fields := make(map[string]string)
			for _, f := range embed.Fields {
				fields[f.Name] = f.Value
			}
			assert.Equal(t, "98", fields["Quantity"])
			assert.Equal(t, "5", fields["Max Available"])
			assert.Equal(t, "SKU-1", fields["Variant"])
		})
	}
}

func TestDiscordNotifier_NotifyStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity  domain.Severity
		wantPost  bool
		wantColor int
	}{
		{severity: domain.SeverityInfo},
		{severity: domain.SeverityWarning, wantPost: true, wantColor: colorYellow},
		{severity: domain.SeverityFatal, wantPost: true, wantColor: colorRed},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			t.Parallel()

			var received *discordWebhookPayload
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				received = &discordWebhookPayload{}
				assert.NoError(t, json.NewDecoder(r.Body).Decode(received))
				w.WriteHeader(http.StatusNoContent)
			}))
			defer srv.Close()

			err := NewDiscordNotifier(srv.URL).NotifyStatus(context.Background(), domain.StatusEvent{
				Message:  "failure budget exhausted",
				Severity: tt.severity,
				Time:     time.Now(),
			})
			require.NoError(t, err)

			if !tt.wantPost {
				assert.Nil(t, received)
				return
			}
			require.NotNil(t, received)
			require.Len(t, received.Embeds, 1)
			assert.Equal(t, tt.wantColor, received.Embeds[0].Color)
			assert.Equal(t, "failure budget exhausted", received.Embeds[0].Description)
		})
	}
}

func TestDiscordNotifier_NetworkError(t *testing.T) {
	t.Parallel()

	d := NewDiscordNotifier("http://127.0.0.1:1") // nothing listening
	err := d.NotifyObservation(context.Background(), testObservation(intp(1)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending discord webhook")
}

func TestDiscordNotifier_InvalidWebhookURL(t *testing.T) {
	t.Parallel()

	d := NewDiscordNotifier("://not-a-valid-url")
	err := d.NotifyObservation(context.Background(), testObservation(intp(1)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating discord request")
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	d := NewDiscordNotifier("https://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, d.client)
}

func getNotificationHistogramSampleCount() uint64 {
	ch := make(chan prometheus.Metric, 1)
	metrics.NotificationDuration.Collect(ch)
	m := <-ch
	pb := &dto.Metric{}
	_ = m.Write(pb)
	return pb.GetHistogram().GetSampleCount()
}

func TestNotifyObservation_ObservesNotificationDuration(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	before := getNotificationHistogramSampleCount()
	require.NoError(t, NewDiscordNotifier(srv.URL).NotifyObservation(context.Background(), testObservation(intp(-1))))
	assert.Greater(t, getNotificationHistogramSampleCount(), before)
}
