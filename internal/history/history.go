// Package history keeps the per-product observation series of a
// monitoring session and forwards each observation to append-only logs.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/shady333/gettingHWaccess/internal/metrics"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

// Point is one recorded observation with its delta against the previous
// observation for the same product. Delta is nil for the first point.
type Point struct {
	Observation domain.Observation `json:"observation"`
	Delta       *int               `json:"delta,omitempty"`
}

// ProductHistory is the ordered series recorded for one product.
type ProductHistory struct {
	ProductID string  `json:"product_id"`
	Points    []Point `json:"points"`
}

// Initial returns the quantity of the first observation.
func (h ProductHistory) Initial() (int, bool) {
	if len(h.Points) == 0 {
		return 0, false
	}
	return h.Points[0].Observation.TotalQuantity, true
}

// Previous returns the quantity of the latest observation.
func (h ProductHistory) Previous() (int, bool) {
	if len(h.Points) == 0 {
		return 0, false
	}
	return h.Points[len(h.Points)-1].Observation.TotalQuantity, true
}

// Deltas returns the delta of every point, in order.
func (h ProductHistory) Deltas() []*int {
	out := make([]*int, len(h.Points))
	for i, p := range h.Points {
		out[i] = p.Delta
	}
	return out
}

// Row is the normalized log record written for each observation.
type Row struct {
	Time        time.Time
	ProductID   string
	ProductName string
	Quantity    int
	MaxQuantity int
	Delta       *int
	VariantSKU  string
}

// Writer appends rows to a durable log.
type Writer interface {
	WriteRow(ctx context.Context, row Row) error
}

// LogWriteError reports that the observation was recorded in memory but
// at least one log writer failed. It is never fatal.
type LogWriteError struct {
	ProductID string
	Err       error
}

func (e *LogWriteError) Error() string {
	return fmt.Sprintf("writing observation log for product %s: %v", e.ProductID, e.Err)
}

func (e *LogWriteError) Unwrap() error { return e.Err }

// Sink records observations. It is safe for concurrent use.
type Sink struct {
	writers []Writer
	log     *slog.Logger

	mu        sync.RWMutex
	histories map[string]*ProductHistory
	order     []string
}

// Option configures the Sink.
type Option func(*Sink)

// WithWriter adds a log writer. Writers are called in the order added.
func WithWriter(w Writer) Option {
	return func(s *Sink) {
		if w != nil {
			s.writers = append(s.writers, w)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sink) {
		s.log = l
	}
}

// NewSink creates an empty Sink.
func NewSink(opts ...Option) *Sink {
	s := &Sink{
		log:       slog.Default(),
		histories: make(map[string]*ProductHistory),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends obs to its product's history, computes the delta and
// forwards a row to every writer. The in-memory append always happens; the
// only error returned is a *LogWriteError.
func (s *Sink) Record(ctx context.Context, obs domain.Observation) (Point, error) {
	s.mu.Lock()
	h, ok := s.histories[obs.ProductID]
	if !ok {
		h = &ProductHistory{ProductID: obs.ProductID}
		s.histories[obs.ProductID] = h
		s.order = append(s.order, obs.ProductID)
	}

	p := Point{Observation: obs}
	if prev, ok := h.Previous(); ok {
		d := obs.TotalQuantity - prev
		p.Delta = &d
	}
	h.Points = append(h.Points, p)
	s.mu.Unlock()

	row := Row{
		Time:        obs.ObservedAt,
		ProductID:   obs.ProductID,
		ProductName: obs.ProductName,
		Quantity:    obs.TotalQuantity,
		MaxQuantity: obs.MaxAvailableQuantity,
		Delta:       p.Delta,
		VariantSKU:  obs.VariantSKU,
	}

	var errs []error
	for _, w := range s.writers {
		if err := w.WriteRow(ctx, row); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		metrics.LogWriteFailuresTotal.Inc()
		err := &LogWriteError{ProductID: obs.ProductID, Err: errors.Join(errs...)}
		s.log.Warn("observation log write failed", "product_id", obs.ProductID, "error", err.Err)
		return p, err
	}
	return p, nil
}

// History returns a copy of the series for id.
func (s *Sink) History(id string) (ProductHistory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.histories[id]
	if !ok {
		return ProductHistory{}, false
	}
	return copyHistory(h), true
}

// Histories returns copies of every series in first-recorded order.
func (s *Sink) Histories() []ProductHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ProductHistory, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, copyHistory(s.histories[id]))
	}
	return out
}

// Reset discards the series for id.
func (s *Sink) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.histories[id]; !ok {
		return
	}
	delete(s.histories, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
}

// ResetAll discards every series.
func (s *Sink) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.histories = make(map[string]*ProductHistory)
	s.order = nil
}

func copyHistory(h *ProductHistory) ProductHistory {
	return ProductHistory{
		ProductID: h.ProductID,
		Points:    append([]Point(nil), h.Points...),
	}
}

// FormatDelta renders a delta for logs: empty for nil or zero, otherwise
// signed ("+2", "-3").
func FormatDelta(d *int) string {
	if d == nil || *d == 0 {
		return ""
	}
	if *d > 0 {
		return "+" + strconv.Itoa(*d)
	}
	return strconv.Itoa(*d)
}
