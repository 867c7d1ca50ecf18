package notify

import (
	"context"
	"log/slog"

	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

// NoOpNotifier implements Notifier by logging discarded events. It is used
// when no notification backend is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards events with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// NotifyObservation logs and discards an observation.
func (n *NoOpNotifier) NotifyObservation(_ context.Context, ev domain.ObservationEvent) error {
	n.log.Debug("observation discarded (no backend configured)",
		"product_id", ev.ProductID,
		"quantity", ev.Observation.TotalQuantity,
	)
	return nil
}

// NotifyStatus logs and discards a status message.
func (n *NoOpNotifier) NotifyStatus(_ context.Context, ev domain.StatusEvent) error {
	n.log.Debug("status discarded (no backend configured)",
		"severity", ev.Severity,
		"message", ev.Message,
	)
	return nil
}
