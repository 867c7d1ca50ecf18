package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/shady333/gettingHWaccess/internal/metrics"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

// Dispatcher forwards engine events to every notifier. It runs on its own
// goroutine so slow backends never stall polling.
type Dispatcher struct {
	notifiers []Notifier
	log       *slog.Logger
	timeout   time.Duration
}

// DefaultDeliveryTimeout bounds a single notifier call.
const DefaultDeliveryTimeout = 10 * time.Second

// NewDispatcher creates a Dispatcher. Nil notifiers are ignored.
func NewDispatcher(log *slog.Logger, notifiers ...Notifier) *Dispatcher {
	d := &Dispatcher{log: log, timeout: DefaultDeliveryTimeout}
	for _, n := range notifiers {
		if n != nil {
			d.notifiers = append(d.notifiers, n)
		}
	}
	return d
}

// WithTimeout sets the per-delivery timeout. Non-positive values keep the
// current one.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	if timeout > 0 {
		d.timeout = timeout
	}
	return d
}

// Run consumes events until the channel is closed. Notifier errors are
// logged and counted, never returned.
func (d *Dispatcher) Run(ctx context.Context, events <-chan domain.Event) {
	for ev := range events {
		d.dispatch(ctx, ev)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, ev domain.Event) {
	for _, n := range d.notifiers {
		var err error
		switch e := ev.(type) {
		case domain.ObservationEvent:
			err = d.deliver(ctx, func(ctx context.Context) error { return n.NotifyObservation(ctx, e) })
		case domain.StatusEvent:
			err = d.deliver(ctx, func(ctx context.Context) error { return n.NotifyStatus(ctx, e) })
		default:
			d.log.Debug("unknown event type", "event", ev)
			return
		}
		if err != nil {
			metrics.NotificationFailuresTotal.Inc()
			d.log.Warn("notification failed", "error", err)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, send func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return send(ctx)
}
