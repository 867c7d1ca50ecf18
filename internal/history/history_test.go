package history_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shady333/gettingHWaccess/internal/history"
	"github.com/shady333/gettingHWaccess/pkg/logger"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

func intp(v int) *int { return &v }

type recordingWriter struct {
	mu   sync.Mutex
	rows []history.Row
	err  error
}

func (w *recordingWriter) WriteRow(_ context.Context, row history.Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.rows = append(w.rows, row)
	return nil
}

func obs(id string, qty int) domain.Observation {
	return domain.Observation{ProductID: id, TotalQuantity: qty, ObservedAt: time.Now()}
}

func TestFormatDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   *int
		want string
	}{
		{in: nil, want: ""},
		{in: intp(0), want: ""},
		{in: intp(2), want: "+2"},
		{in: intp(-3), want: "-3"},
		{in: intp(-1), want: "-1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, history.FormatDelta(tt.in))
	}
}

func TestSink_RecordComputesDeltas(t *testing.T) {
	t.Parallel()

	sink := history.NewSink(history.WithLogger(logger.Discard()))
	ctx := context.Background()

	var got []*int
	for _, q := range []int{10, 9, 9, 12} {
		p, err := sink.Record(ctx, obs("A", q))
		require.NoError(t, err)
		got = append(got, p.Delta)
	}

	want := []*int{nil, intp(-1), intp(0), intp(3)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("deltas mismatch (-want +got):\n%s", diff)
	}

	h, ok := sink.History("A")
	require.True(t, ok)
	initial, _ := h.Initial()
	previous, _ := h.Previous()
	assert.Equal(t, 10, initial)
	assert.Equal(t, 12, previous)
	assert.Len(t, h.Points, 4)
}

func TestSink_SeriesArePerProduct(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	sink := history.NewSink(history.WithWriter(w), history.WithLogger(logger.Discard()))
	ctx := context.Background()

	for _, o := range []domain.Observation{obs("A", 100), obs("B", 10), obs("A", 98), obs("B", 12)} {
		_, err := sink.Record(ctx, o)
		require.NoError(t, err)
	}

	hs := sink.Histories()
	require.Len(t, hs, 2)
	assert.Equal(t, "A", hs[0].ProductID)
	assert.Equal(t, "B", hs[1].ProductID)

	if diff := cmp.Diff([]*int{nil, intp(-2)}, hs[0].Deltas()); diff != "" {
		t.Errorf("A deltas (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]*int{nil, intp(2)}, hs[1].Deltas()); diff != "" {
		t.Errorf("B deltas (-want +got):\n%s", diff)
	}

	require.Len(t, w.rows, 4)
	assert.Equal(t, "B", w.rows[3].ProductID)
	assert.Equal(t, 12, w.rows[3].Quantity)
	assert.Equal(t, intp(2), w.rows[3].Delta)
}

func TestSink_WriterFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	bad := &recordingWriter{err: errors.New("disk full")}
	good := &recordingWriter{}
	sink := history.NewSink(
		history.WithWriter(bad),
		history.WithWriter(good),
		history.WithLogger(logger.Discard()),
	)

	p, err := sink.Record(context.Background(), obs("A", 5))
	require.Error(t, err)

	var lwe *history.LogWriteError
	require.ErrorAs(t, err, &lwe)
	assert.Equal(t, "A", lwe.ProductID)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 5, p.Observation.TotalQuantity)

	h, ok := sink.History("A")
	require.True(t, ok, "observation is kept in memory")
	assert.Len(t, h.Points, 1)
	assert.Len(t, good.rows, 1, "remaining writers still run")
}

func TestSink_Reset(t *testing.T) {
	t.Parallel()

	sink := history.NewSink(history.WithLogger(logger.Discard()))
	ctx := context.Background()
	_, _ = sink.Record(ctx, obs("A", 1))
	_, _ = sink.Record(ctx, obs("B", 2))

	sink.Reset("A")
	sink.Reset("missing")
	_, ok := sink.History("A")
	assert.False(t, ok)
	require.Len(t, sink.Histories(), 1)

	p, err := sink.Record(ctx, obs("A", 7))
	require.NoError(t, err)
	assert.Nil(t, p.Delta, "a reset product starts over")

	sink.ResetAll()
	assert.Empty(t, sink.Histories())
}

func TestSink_HistoryIsACopy(t *testing.T) {
	t.Parallel()

	sink := history.NewSink(history.WithLogger(logger.Discard()))
	_, _ = sink.Record(context.Background(), obs("A", 1))

	h, _ := sink.History("A")
	h.Points[0].Observation.TotalQuantity = 999

	again, _ := sink.History("A")
	assert.Equal(t, 1, again.Points[0].Observation.TotalQuantity)
}
