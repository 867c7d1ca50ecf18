package token

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/shady333/gettingHWaccess/internal/metrics"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

// ErrAcquisition wraps every failure to obtain a fresh credential.
var ErrAcquisition = errors.New("credential acquisition failed")

// Acquirer obtains a fresh bearer token out of band, typically by driving
// a browser session. Implementations must honor ctx and bound their own
// execution time.
type Acquirer interface {
	Acquire(ctx context.Context) (string, error)
}

// AcquirerFunc adapts a function to the Acquirer interface.
type AcquirerFunc func(ctx context.Context) (string, error)

// Acquire implements Acquirer.
func (f AcquirerFunc) Acquire(ctx context.Context) (string, error) {
	return f(ctx)
}

// Issued is a token together with the issuer's own timestamps. Zero
// times mean the issuer did not report them.
type Issued struct {
	Token      string
	AcquiredAt time.Time
	ExpiresAt  time.Time
}

// IssuedAcquirer is implemented by acquirers that hand out tokens minted
// elsewhere, such as a broker, and know when they were issued.
type IssuedAcquirer interface {
	Acquirer
	AcquireIssued(ctx context.Context) (Issued, error)
}

// Refresh obtains a new token from acq and stores it in s. Concurrent
// Refresh calls on the same Store are serialized. Errors wrap
// ErrAcquisition.
//
// When acq is an IssuedAcquirer the credential is stamped with the
// issuer's acquisition time, moved earlier if needed so it never outlives
// the issuer's expiry. A token that is already stale is a failure.
func Refresh(ctx context.Context, s *Store, acq Acquirer) (domain.Credential, error) {
	s.acquireMu.Lock()
	defer s.acquireMu.Unlock()

	start := time.Now()
	issued, err := acquireIssued(ctx, acq)
	metrics.TokenAcquisitionDuration.Observe(time.Since(start).Seconds())

	var at time.Time
	if err == nil {
		issued.Token = NormalizeToken(issued.Token)
		at = s.stampFor(issued)
		switch {
		case issued.Token == "":
			err = errors.New("acquirer returned an empty token")
		case !s.nowFunc().Before(at.Add(s.ttl)):
			err = fmt.Errorf("issued token is already stale (acquired %s)", at.Format(time.RFC3339))
		}
	}
	if err != nil {
		metrics.TokenAcquisitionsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, ErrAcquisition) {
			return domain.Credential{}, err
		}
		return domain.Credential{}, fmt.Errorf("%w: %w", ErrAcquisition, err)
	}

	metrics.TokenAcquisitionsTotal.WithLabelValues("success").Inc()
	c := s.PutAt(issued.Token, at)
	s.log.Info("credential stored", "token", c.Redacted(), "acquired_at", c.AcquiredAt)
	return c, nil
}

func acquireIssued(ctx context.Context, acq Acquirer) (Issued, error) {
	if ia, ok := acq.(IssuedAcquirer); ok {
		return ia.AcquireIssued(ctx)
	}
	raw, err := acq.Acquire(ctx)
	return Issued{Token: raw}, err
}

// stampFor returns the acquisition time to record for issued.
func (s *Store) stampFor(issued Issued) time.Time {
	now := s.nowFunc()
	at := now
	if !issued.AcquiredAt.IsZero() && issued.AcquiredAt.Before(now) {
		at = issued.AcquiredAt
	}
	if !issued.ExpiresAt.IsZero() {
		if latest := issued.ExpiresAt.Add(-s.ttl); latest.Before(at) {
			at = latest
		}
	}
	return at
}

// NormalizeToken trims whitespace and strips a leading "Bearer " scheme so
// the store only ever holds the bare token.
func NormalizeToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	return raw
}

// CommandAcquirer runs an external helper (the browser automation script)
// and takes the last non-empty line of its stdout as the token.
type CommandAcquirer struct {
	name    string
	args    []string
	timeout time.Duration
}

// NewCommandAcquirer creates a CommandAcquirer for argv. A non-positive
// timeout selects 30 seconds.
func NewCommandAcquirer(argv []string, timeout time.Duration) (*CommandAcquirer, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New("acquirer command is empty")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CommandAcquirer{
		name:    argv[0],
		args:    append([]string(nil), argv[1:]...),
		timeout: timeout,
	}, nil
}

// Acquire implements Acquirer.
func (a *CommandAcquirer) Acquire(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.name, a.args...) //nolint:gosec // argv from trusted config
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %s timed out after %s", ErrAcquisition, a.name, a.timeout)
		}
		return "", fmt.Errorf("%w: running %s: %w: %s",
			ErrAcquisition, a.name, err, strings.TrimSpace(stderr.String()))
	}

	tok := lastLine(stdout.String())
	if tok == "" {
		return "", fmt.Errorf("%w: %s printed no token", ErrAcquisition, a.name)
	}
	return tok, nil
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
