package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/shady333/gettingHWaccess/internal/history"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

// ConsoleNotifier prints one line per event, for `hwaccess monitor`.
type ConsoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleNotifier creates a ConsoleNotifier writing to w.
func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{w: w}
}

// NotifyObservation prints the quantity and its change.
func (c *ConsoleNotifier) NotifyObservation(_ context.Context, ev domain.ObservationEvent) error {
	o := ev.Observation
	line := fmt.Sprintf("%s  %-12s %-24s qty=%-6d max=%-4d",
		o.ObservedAt.Format(time.TimeOnly), o.ProductID, o.ProductName, o.TotalQuantity, o.MaxAvailableQuantity)
	if d := history.FormatDelta(ev.Delta); d != "" {
		line += " (" + d + ")"
	}
	if o.VariantSKU != "" {
		line += " sku=" + o.VariantSKU
	}
	return c.println(line)
}

// NotifyStatus prints the message with its severity.
func (c *ConsoleNotifier) NotifyStatus(_ context.Context, ev domain.StatusEvent) error {
	return c.println(fmt.Sprintf("%s  [%s] %s", ev.Time.Format(time.TimeOnly), ev.Severity, ev.Message))
}

func (c *ConsoleNotifier) println(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := fmt.Fprintln(c.w, line)
	return err
}
