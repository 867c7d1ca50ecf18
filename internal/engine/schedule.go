package engine

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ParseStartAt parses a scheduled start time. It accepts RFC 3339 or a
// wall-clock "HH:MM" / "HH:MM:SS", which resolves to the next occurrence
// of that time in now's location.
func ParseStartAt(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty start time")
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	for _, layout := range []string{"15:04:05", "15:04"} {
		clock, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t := time.Date(now.Year(), now.Month(), now.Day(),
			clock.Hour(), clock.Minute(), clock.Second(), 0, now.Location())
		if !t.After(now) {
			t = t.AddDate(0, 0, 1)
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid start time %q: want RFC 3339 or HH:MM[:SS]", s)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// waitUntil idles until the engine clock reaches at, re-checking at most
// every tick.
func (e *Engine) waitUntil(ctx context.Context, at time.Time) error {
	for {
		remaining := at.Sub(e.nowFunc())
		if remaining <= 0 {
			return ctx.Err()
		}
		if err := sleep(ctx, min(remaining, e.tick)); err != nil {
			return err
		}
	}
}
