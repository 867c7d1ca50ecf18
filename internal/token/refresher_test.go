package token_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shady333/gettingHWaccess/internal/token"
	"github.com/shady333/gettingHWaccess/pkg/logger"
)

func TestNewRefresher_RegistersCronEntry(t *testing.T) {
	t.Parallel()

	r, err := token.NewRefresher(token.NewStore(time.Minute), token.AcquirerFunc(nil), 30*time.Second, logger.Discard())
	require.NoError(t, err)
	assert.Len(t, r.Entries(), 1)
}

func TestRefresher_StartRefreshesImmediately(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	acq := token.AcquirerFunc(func(context.Context) (string, error) {
		calls.Add(1)
		return "fresh", nil
	})

	s := token.NewStore(time.Minute)
	r, err := token.NewRefresher(s, acq, time.Hour, logger.Discard())
	require.NoError(t, err)

	r.Start(context.Background())
	defer func() { <-r.Stop().Done() }()

	require.Eventually(t, func() bool {
		_, ok := s.Get()
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	got, _ := s.Get()
	assert.Equal(t, "fresh", got.Token)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRefresher_RunOnceFailureKeepsCache(t *testing.T) {
	t.Parallel()

	s := token.NewStore(time.Minute)
	s.Put("cached")

	r, err := token.NewRefresher(s, token.AcquirerFunc(func(context.Context) (string, error) {
		return "", errors.New("timeout waiting for request")
	}), time.Hour, logger.Discard())
	require.NoError(t, err)

	err = r.RunOnce(context.Background())
	require.ErrorIs(t, err, token.ErrAcquisition)

	got, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, "cached", got.Token)
}

func TestRefresher_StopWaitsForInitialRefresh(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	acq := token.AcquirerFunc(func(context.Context) (string, error) {
		close(started)
		<-release
		finished.Store(true)
		return "fresh", nil
	})

	r, err := token.NewRefresher(token.NewStore(time.Minute), acq, time.Hour, logger.Discard())
	require.NoError(t, err)

	r.Start(context.Background())
	<-started

	done := r.Stop().Done()
	select {
	case <-done:
		t.Fatal("Stop reported done while the initial refresh was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop never reported done")
	}
	assert.True(t, finished.Load())
}
