// Package notify delivers engine events to presentation backends: the
// console, a Discord webhook, or nowhere.
package notify

import (
	"context"

	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

// Notifier receives observation and status events.
type Notifier interface {
	NotifyObservation(ctx context.Context, ev domain.ObservationEvent) error
	NotifyStatus(ctx context.Context, ev domain.StatusEvent) error
}
