// Package token caches the short-lived inventory credential and obtains
// fresh ones from an Acquirer.
package token

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/shady333/gettingHWaccess/internal/metrics"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

// DefaultTTL is how long a credential is trusted after it was stored.
const DefaultTTL = 180 * time.Second

// Store is a single-slot credential cache with age-based expiry and an
// explicit invalidation override. It is safe for concurrent use; readers
// never observe a partially replaced credential.
//
// Store performs no acquisition itself. Refresh combines an Acquirer with
// a Store.
type Store struct {
	ttl      time.Duration
	snapshot *Snapshot
	log      *slog.Logger
	nowFunc  func() time.Time

	mu   sync.RWMutex
	cred *domain.Credential

	// acquireMu serializes Refresh calls so at most one acquisition is in
	// flight per store.
	acquireMu sync.Mutex
}

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithSnapshot persists every stored credential to s and lets
// LoadSnapshot restore it.
func WithSnapshot(s *Snapshot) StoreOption {
	return func(st *Store) {
		st.snapshot = s
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) StoreOption {
	return func(st *Store) {
		st.log = l
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) StoreOption {
	return func(st *Store) {
		st.nowFunc = f
	}
}

// NewStore creates an empty Store. A non-positive ttl selects DefaultTTL.
func NewStore(ttl time.Duration, opts ...StoreOption) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		ttl:     ttl,
		log:     slog.Default(),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the configured validity window.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get returns the cached credential if it is younger than the TTL and has
// not been invalidated.
func (s *Store) Get() (domain.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cred == nil || !s.cred.ValidAt(s.nowFunc(), s.ttl) {
		return domain.Credential{}, false
	}
	return *s.cred, true
}

// Put replaces the cached credential with token, stamped with the current
// time, and writes the snapshot file if one is configured. A snapshot
// write failure is logged and does not affect the in-memory value.
func (s *Store) Put(token string) domain.Credential {
	return s.PutAt(token, s.nowFunc())
}

// PutAt is Put with an explicit acquisition time, for tokens issued
// before they reached this process.
func (s *Store) PutAt(token string, acquiredAt time.Time) domain.Credential {
	c := domain.Credential{Token: token, AcquiredAt: acquiredAt}
	s.set(c)

	if s.snapshot != nil {
		if err := s.snapshot.Write(c); err != nil {
			s.log.Warn("writing token snapshot failed", "path", s.snapshot.Path(), "error", err)
		}
	}
	return c
}

// Invalidate drops the cached credential so the next Get misses even if
// the TTL has not elapsed. The snapshot file is removed so a restarted
// process does not reuse a rejected token.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cred = nil
	s.mu.Unlock()

	metrics.TokenInvalidationsTotal.Inc()

	if s.snapshot != nil {
		if err := s.snapshot.Remove(); err != nil {
			s.log.Warn("removing token snapshot failed", "path", s.snapshot.Path(), "error", err)
		}
	}
}

// LoadSnapshot restores the credential from the snapshot file when it is
// still within the TTL. It reports whether a credential was restored. A
// missing snapshot file is not an error.
func (s *Store) LoadSnapshot() (bool, error) {
	if s.snapshot == nil {
		return false, nil
	}

	c, err := s.snapshot.Read()
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading token snapshot: %w", err)
	}

	if !c.ValidAt(s.nowFunc(), s.ttl) {
		s.log.Debug("token snapshot is stale", "acquired_at", c.AcquiredAt)
		return false, nil
	}

	s.set(c)
	return true, nil
}

func (s *Store) set(c domain.Credential) {
	s.mu.Lock()
	s.cred = &c
	s.mu.Unlock()

	metrics.TokenAcquiredTimestamp.Set(float64(c.AcquiredAt.Unix()))
}
