// Package engine drives a monitoring session: it keeps a credential
// available, polls every tracked product on a fixed cadence, records the
// results and stops on cancellation, an exhausted failure budget or the
// end of the monitoring window.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shady333/gettingHWaccess/internal/history"
	"github.com/shady333/gettingHWaccess/internal/inventory"
	"github.com/shady333/gettingHWaccess/internal/metrics"
	"github.com/shady333/gettingHWaccess/internal/token"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

var (
	// ErrFailureBudgetExhausted ends a session after too many consecutive
	// failed polls or acquisitions.
	ErrFailureBudgetExhausted = errors.New("failure budget exhausted")

	// ErrStopped is returned when running an engine that has already stopped.
	ErrStopped = errors.New("engine stopped")

	// ErrRunning is returned when running an engine that is already running.
	ErrRunning = errors.New("engine already running")

	errWindowElapsed = errors.New("monitoring window elapsed")
)

// State is the engine's position in its lifecycle.
type State string

// Engine states.
const (
	StateIdle      State = "idle"
	StateAcquiring State = "acquiring"
	StatePolling   State = "polling"
	StateStopped   State = "stopped"
)

// StopReason records why a session reached StateStopped.
type StopReason string

// Stop reasons.
const (
	StopCancelled       StopReason = "cancelled"
	StopFatal           StopReason = "fatal"
	StopDurationElapsed StopReason = "duration_elapsed"
)

// Status is a point-in-time view of the session.
type Status struct {
	SessionID           string     `json:"session_id"`
	State               State      `json:"state"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	CyclesCompleted     int        `json:"cycles_completed"`
	StartedAt           time.Time  `json:"started_at,omitzero"`
	StoppedAt           time.Time  `json:"stopped_at,omitzero"`
	StopReason          StopReason `json:"stop_reason,omitempty"`
	LastError           string     `json:"last_error,omitempty"`
}

// Engine is a single-use polling session.
type Engine struct {
	store    *token.Store
	acquirer token.Acquirer
	fetcher  inventory.Fetcher
	sink     *history.Sink
	products *ProductSet
	events   *publisher
	log      *slog.Logger
	nowFunc  func() time.Time

	duration          time.Duration
	checkInterval     time.Duration
	acquireBackoff    time.Duration
	prepareLead       time.Duration
	tick              time.Duration
	maxFailures       int
	forceRefreshAfter int
	eventBuffer       int

	mu      sync.Mutex
	status  Status
	running bool
	cancel  context.CancelFunc
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithProducts sets the initially tracked products.
func WithProducts(products ...domain.Product) Option {
	return func(e *Engine) {
		e.products = NewProductSet(products...)
	}
}

// WithDuration sets the monitoring window. Non-positive runs until
// cancelled or failed.
func WithDuration(d time.Duration) Option {
	return func(e *Engine) {
		e.duration = d
	}
}

// WithCheckInterval sets the pause between polling cycles.
func WithCheckInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.checkInterval = d
	}
}

// WithAcquireBackoff sets the fixed delay between failed acquisitions.
func WithAcquireBackoff(d time.Duration) Option {
	return func(e *Engine) {
		e.acquireBackoff = d
	}
}

// WithPrepareLead sets how long before a scheduled start the credential
// is acquired.
func WithPrepareLead(d time.Duration) Option {
	return func(e *Engine) {
		e.prepareLead = d
	}
}

// WithMaxFailures sets the consecutive-failure budget.
func WithMaxFailures(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxFailures = n
		}
	}
}

// WithForceRefreshAfter sets the consecutive-failure count at which the
// credential is renewed even if it is still within its TTL.
func WithForceRefreshAfter(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.forceRefreshAfter = n
		}
	}
}

// WithEventBuffer sets the capacity of the event channel.
func WithEventBuffer(n int) Option {
	return func(e *Engine) {
		e.eventBuffer = n
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(e *Engine) {
		e.status.SessionID = id
	}
}

// WithNowFunc overrides the wall clock used for scheduling and stamps.
func WithNowFunc(f func() time.Time) Option {
	return func(e *Engine) {
		e.nowFunc = f
	}
}

// WithTick sets the granularity of scheduled-start waits.
func WithTick(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.tick = d
		}
	}
}

// New creates an idle Engine.
func New(
	s *token.Store,
	acq token.Acquirer,
	f inventory.Fetcher,
	sink *history.Sink,
	opts ...Option,
) *Engine {
	e := &Engine{
		store:             s,
		acquirer:          acq,
		fetcher:           f,
		sink:              sink,
		products:          NewProductSet(),
		log:               slog.Default(),
		nowFunc:           time.Now,
		duration:          time.Hour,
		checkInterval:     10 * time.Second,
		acquireBackoff:    5 * time.Second,
		prepareLead:       30 * time.Second,
		tick:              time.Second,
		maxFailures:       3,
		forceRefreshAfter: 2,
		status:            Status{SessionID: uuid.NewString(), State: StateIdle},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.events = newPublisher(e.eventBuffer)
	return e
}

// Events returns the event channel. It is closed when the session stops.
func (e *Engine) Events() <-chan domain.Event {
	return e.events.ch
}

// Status returns a snapshot of the session.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.Status().State
}

// SessionID returns the session id.
func (e *Engine) SessionID() string {
	return e.Status().SessionID
}

// Products returns the tracked products in polling order.
func (e *Engine) Products() []domain.Product {
	return e.products.List()
}

// AddProduct starts tracking p from the next product iteration.
func (e *Engine) AddProduct(p domain.Product) error {
	if err := e.products.Add(p); err != nil {
		return err
	}
	e.log.Info("product added", "product_id", p.ID, "name", p.Name)
	return nil
}

// RemoveProduct stops tracking id and discards its history.
func (e *Engine) RemoveProduct(id string) bool {
	if !e.products.Remove(id) {
		return false
	}
	e.sink.Reset(id)
	metrics.ProductQuantity.DeleteLabelValues(id)
	metrics.ProductMaxQuantity.DeleteLabelValues(id)
	e.log.Info("product removed", "product_id", id)
	return true
}

// Stop requests cooperative cancellation. Stopping an idle engine makes
// it terminal.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
		return
	}
	if e.status.State != StateStopped {
		e.status.State = StateStopped
		e.status.StopReason = StopCancelled
		e.status.StoppedAt = e.nowFunc()
		e.events.close()
	}
}

// Run polls immediately and blocks until the session stops. It returns
// nil after cancellation or when the window elapses, and an error
// wrapping ErrFailureBudgetExhausted on fatal failure.
func (e *Engine) Run(ctx context.Context) error {
	ctx, err := e.begin(ctx)
	if err != nil {
		return err
	}
	return e.finish(ctx, e.loop(ctx, e.nowFunc()))
}

// RunScheduled acquires a credential once at target minus the prepare
// lead, then starts polling at target. The monitoring window is counted
// from target, or from now if target has passed.
func (e *Engine) RunScheduled(ctx context.Context, target time.Time) error {
	ctx, err := e.begin(ctx)
	if err != nil {
		return err
	}
	return e.finish(ctx, e.scheduled(ctx, target))
}

func (e *Engine) scheduled(ctx context.Context, target time.Time) error {
	prepare := target.Add(-e.prepareLead)
	e.emitStatus(domain.SeverityInfo, fmt.Sprintf(
		"scheduled start at %s, preparing credential at %s",
		target.Format(time.RFC3339), prepare.Format(time.RFC3339)))

	if err := e.waitUntil(ctx, prepare); err != nil {
		return err
	}

	e.store.Invalidate()
	if _, err := e.ensureCredential(ctx); err != nil {
		return err
	}

	if err := e.waitUntil(ctx, target); err != nil {
		return err
	}

	start := target
	if now := e.nowFunc(); now.After(start) {
		start = now
	}
	return e.loop(ctx, start)
}

func (e *Engine) begin(parent context.Context) (context.Context, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.status.State == StateStopped:
		return nil, ErrStopped
	case e.running:
		return nil, ErrRunning
	}

	ctx, cancel := context.WithCancel(parent)
	e.running = true
	e.cancel = cancel
	e.status.StartedAt = e.nowFunc()
	e.log.Info("monitoring session started",
		"session_id", e.status.SessionID,
		"products", e.products.Len(),
		"duration", e.duration,
		"check_interval", e.checkInterval,
	)
	return ctx, nil
}

func (e *Engine) finish(ctx context.Context, err error) error {
	var (
		reason StopReason
		sev    domain.Severity
		msg    string
		ret    error
	)
	switch {
	case errors.Is(err, errWindowElapsed):
		reason, sev, msg = StopDurationElapsed, domain.SeverityInfo, "monitoring window elapsed"
	case err == nil, ctx.Err() != nil && !errors.Is(err, ErrFailureBudgetExhausted):
		reason, sev, msg = StopCancelled, domain.SeverityInfo, "monitoring stopped"
	default:
		reason, sev, msg, ret = StopFatal, domain.SeverityFatal, "monitoring stopped: "+err.Error(), err
	}

	e.mu.Lock()
	e.cancel()
	e.running = false
	e.status.State = StateStopped
	e.status.StopReason = reason
	e.status.StoppedAt = e.nowFunc()
	if ret != nil {
		e.status.LastError = ret.Error()
	}
	st := e.status
	e.mu.Unlock()

	if ret != nil {
		e.log.Error("monitoring session failed", "session_id", st.SessionID, "error", ret)
	} else {
		e.log.Info("monitoring session stopped",
			"session_id", st.SessionID,
			"reason", reason,
			"cycles", st.CyclesCompleted,
		)
	}

	e.emitStatus(sev, msg)
	e.events.close()
	return ret
}

func (e *Engine) loop(ctx context.Context, start time.Time) error {
	var deadline time.Time
	if e.duration > 0 {
		deadline = start.Add(e.duration)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !deadline.IsZero() && !e.nowFunc().Before(deadline) {
			return errWindowElapsed
		}

		if err := e.cycle(ctx); err != nil {
			return err
		}

		wait := e.checkInterval
		if !deadline.IsZero() {
			remaining := deadline.Sub(e.nowFunc())
			if remaining <= 0 {
				return errWindowElapsed
			}
			wait = min(wait, remaining)
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// cycle polls every tracked product once, in order.
func (e *Engine) cycle(ctx context.Context) error {
	products := e.products.List()
	if len(products) == 0 {
		e.log.Debug("no products tracked, skipping cycle")
		return nil
	}

	var cred domain.Credential
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := e.products.Get(p.ID); !ok {
			e.log.Debug("product removed mid-cycle, skipping", "product_id", p.ID)
			continue
		}
		if c, ok := e.store.Get(); !ok || c.Token != cred.Token {
			var err error
			if cred, err = e.ensureCredential(ctx); err != nil {
				return err
			}
		}

		if err := e.poll(ctx, p, cred); err != nil {
			return err
		}
	}

	e.mu.Lock()
	e.status.CyclesCompleted++
	e.mu.Unlock()
	metrics.CyclesTotal.Inc()
	return nil
}

// ensureCredential returns the cached credential or acquires a new one,
// retrying with a fixed backoff. Each failed attempt counts against the
// failure budget.
func (e *Engine) ensureCredential(ctx context.Context) (domain.Credential, error) {
	for {
		if c, ok := e.store.Get(); ok {
			return c, nil
		}

		c, err := e.acquire(ctx)
		if err == nil {
			return c, nil
		}
		if ctx.Err() != nil {
			return domain.Credential{}, ctx.Err()
		}

		n, _, fatal := e.countFailure(err)
		if fatal != nil {
			return domain.Credential{}, fatal
		}
		e.emitStatus(domain.SeverityWarning, fmt.Sprintf(
			"credential acquisition failed (%d/%d): %v; retrying in %s",
			n, e.maxFailures, err, e.acquireBackoff))

		if err := sleep(ctx, e.acquireBackoff); err != nil {
			return domain.Credential{}, err
		}
	}
}

func (e *Engine) acquire(ctx context.Context) (domain.Credential, error) {
	e.setState(StateAcquiring)
	e.log.Info("acquiring credential")

	c, err := token.Refresh(ctx, e.store, e.acquirer)
	if err != nil {
		e.log.Warn("credential acquisition failed", "error", err)
		return domain.Credential{}, err
	}
	e.emitStatus(domain.SeverityInfo, "credential acquired")
	return c, nil
}

// poll fetches one product. An auth rejection triggers one immediate
// re-acquisition and retry; the rejection itself is not counted.
func (e *Engine) poll(ctx context.Context, p domain.Product, cred domain.Credential) error {
	e.setState(StatePolling)

	obs, err := e.fetcher.Fetch(ctx, p.ID, cred.Token)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if inventory.Classify(err) == domain.OutcomeAuthExpired {
		e.log.Warn("credential rejected, re-acquiring", "product_id", p.ID)
		e.emitStatus(domain.SeverityWarning, fmt.Sprintf(
			"credential rejected while polling %s; re-acquiring", p.DisplayName()))

		e.store.Invalidate()
		fresh, aerr := e.acquire(ctx)
		if aerr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return e.onFailure(ctx, p, aerr)
		}

		obs, err = e.fetcher.Fetch(ctx, p.ID, fresh.Token)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	if err != nil {
		return e.onFailure(ctx, p, err)
	}

	e.resetFailures()
	e.record(ctx, p, obs)
	return nil
}

// onFailure counts a failed poll and, once the count reaches the force
// threshold, renews the credential immediately.
func (e *Engine) onFailure(ctx context.Context, p domain.Product, err error) error {
	if inventory.Classify(err) == domain.OutcomeAuthExpired {
		e.store.Invalidate()
	}

	n, forced, fatal := e.countFailure(err)
	e.log.Warn("poll failed",
		"product_id", p.ID,
		"outcome", inventory.Classify(err),
		"consecutive_failures", n,
		"error", err,
	)
	if fatal != nil {
		return fatal
	}
	e.emitStatus(domain.SeverityWarning, fmt.Sprintf(
		"polling %s failed (%d/%d): %v", p.DisplayName(), n, e.maxFailures, err))

	if forced {
		e.emitStatus(domain.SeverityInfo, "forcing credential refresh")
		e.store.Invalidate()
		if _, err := e.ensureCredential(ctx); err != nil {
			return err
		}
	}
	return nil
}

// countFailure increments the shared consecutive-failure counter.
func (e *Engine) countFailure(cause error) (n int, forceRefresh bool, fatal error) {
	e.mu.Lock()
	e.status.ConsecutiveFailures++
	n = e.status.ConsecutiveFailures
	e.status.LastError = cause.Error()
	e.mu.Unlock()

	metrics.ConsecutiveFailures.Set(float64(n))

	if n >= e.maxFailures {
		return n, false, fmt.Errorf("%w: %d consecutive failures, last: %w",
			ErrFailureBudgetExhausted, n, cause)
	}
	return n, n >= e.forceRefreshAfter, nil
}

func (e *Engine) resetFailures() {
	e.mu.Lock()
	e.status.ConsecutiveFailures = 0
	e.mu.Unlock()
	metrics.ConsecutiveFailures.Set(0)
}

// record stores obs unless p was removed while its fetch was in flight.
func (e *Engine) record(ctx context.Context, p domain.Product, obs *domain.Observation) {
	if _, ok := e.products.Get(p.ID); !ok {
		e.log.Debug("discarding observation for removed product", "product_id", p.ID)
		return
	}

	o := *obs
	o.ProductName = p.DisplayName()
	if o.ObservedAt.IsZero() {
		o.ObservedAt = e.nowFunc()
	}

	pt, err := e.sink.Record(ctx, o)
	if err != nil {
		e.emitStatus(domain.SeverityWarning, err.Error())
	}

	metrics.ProductQuantity.WithLabelValues(o.ProductID).Set(float64(o.TotalQuantity))
	metrics.ProductMaxQuantity.WithLabelValues(o.ProductID).Set(float64(o.MaxAvailableQuantity))

	e.log.Info("observation",
		"product_id", o.ProductID,
		"quantity", o.TotalQuantity,
		"max_quantity", o.MaxAvailableQuantity,
		"delta", history.FormatDelta(pt.Delta),
		"variant_sku", o.VariantSKU,
	)
	e.events.publish(domain.ObservationEvent{
		ProductID:   o.ProductID,
		Observation: o,
		Delta:       pt.Delta,
	})
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.status.State = s
	e.mu.Unlock()
}

func (e *Engine) emitStatus(sev domain.Severity, msg string) {
	e.events.publish(domain.StatusEvent{
		Message:  msg,
		Severity: sev,
		Time:     e.nowFunc(),
	})
}
