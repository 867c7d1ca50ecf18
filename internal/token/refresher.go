package token

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher keeps a Store warm by acquiring a credential on a fixed
// schedule, independent of any polling session.
type Refresher struct {
	cron     *cron.Cron
	store    *Store
	acquirer Acquirer
	log      *slog.Logger

	mu      sync.Mutex
	ctx     context.Context
	initial sync.WaitGroup
}

// NewRefresher creates a Refresher that runs every interval.
func NewRefresher(
	s *Store,
	acq Acquirer,
	interval time.Duration,
	log *slog.Logger,
) (*Refresher, error) {
	r := &Refresher{
		cron:     cron.New(),
		store:    s,
		acquirer: acq,
		log:      log,
		ctx:      context.Background(),
	}

	if _, err := r.cron.AddFunc("@every "+interval.String(), r.runScheduled); err != nil {
		return nil, err
	}
	return r, nil
}

// Start runs one refresh immediately in the background and then starts the
// schedule. ctx bounds every refresh.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	r.ctx = ctx
	r.mu.Unlock()

	r.log.Info("token refresher started")
	r.initial.Add(1)
	go func() {
		defer r.initial.Done()
		r.runScheduled()
	}()
	r.cron.Start()
}

// Stop halts the schedule and returns a context that is done once every
// running refresh, including the initial one, has finished.
func (r *Refresher) Stop() context.Context {
	r.log.Info("token refresher stopping")
	scheduled := r.cron.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		r.initial.Wait()
		<-scheduled.Done()
	}()
	return ctx
}

// Entries returns the registered cron entries for inspection.
func (r *Refresher) Entries() []cron.Entry {
	return r.cron.Entries()
}

// RunOnce acquires and stores one credential. A failure leaves the cached
// credential untouched.
func (r *Refresher) RunOnce(ctx context.Context) error {
	r.log.Info("refreshing token")
	if _, err := Refresh(ctx, r.store, r.acquirer); err != nil {
		r.log.Error("token refresh failed", "error", err)
		return err
	}
	return nil
}

func (r *Refresher) runScheduled() {
	r.mu.Lock()
	ctx := r.ctx
	r.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	_ = r.RunOnce(ctx) //nolint:errcheck // logged by RunOnce
}
