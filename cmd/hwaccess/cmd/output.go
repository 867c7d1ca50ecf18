package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shady333/gettingHWaccess/internal/api/handlers"
	"github.com/shady333/gettingHWaccess/internal/engine"
	"github.com/shady333/gettingHWaccess/internal/history"
	"github.com/shady333/gettingHWaccess/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printTokenDetail(value string, acquired, expires time.Time) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Token:\t%s\n", value)
	tw.writef("Acquired:\t%s\n", acquired.Format(timeLayout))
	tw.writef("Expires:\t%s\n", expires.Format(timeLayout))
	return tw.finish()
}

func printSessionDetail(s *engine.Status) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Session:\t%s\n", s.SessionID)
	tw.writef("State:\t%s\n", s.State)
	tw.writef("Failures:\t%d\n", s.ConsecutiveFailures)
	tw.writef("Cycles:\t%d\n", s.CyclesCompleted)
	tw.writef("Started:\t%s\n", formatTime(s.StartedAt))
	if s.State == engine.StateStopped {
		tw.writef("Stopped:\t%s\n", formatTime(s.StoppedAt))
		tw.writef("Reason:\t%s\n", s.StopReason)
	}
	if s.LastError != "" {
		tw.writef("Last error:\t%s\n", truncate(s.LastError, 80))
	}
	return tw.finish()
}

func printProductsTable(products []handlers.TrackedProduct) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tINITIAL\tCURRENT\tMAX\tLAST DELTA\tPOINTS\tLAST SEEN\n")
	for i := range products {
		p := &products[i]
		h := history.ProductHistory{ProductID: p.ID, Points: p.Points}

		initial, current, maxQty, lastDelta, lastSeen := "-", "-", "-", "", "-"
		if v, ok := h.Initial(); ok {
			initial = strconv.Itoa(v)
		}
		if n := len(p.Points); n > 0 {
			last := p.Points[n-1]
			current = strconv.Itoa(last.Observation.TotalQuantity)
			maxQty = strconv.Itoa(last.Observation.MaxAvailableQuantity)
			lastDelta = history.FormatDelta(last.Delta)
			lastSeen = formatTime(last.Observation.ObservedAt)
		}

		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			p.ID,
			truncate(p.Name, 32),
			initial,
			current,
			maxQty,
			lastDelta,
			len(p.Points),
			lastSeen,
		)
	}
	return tw.finish()
}

func printObservationsTable(rows []store.StoredObservation) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("TIME\tPRODUCT\tNAME\tQTY\tMAX\tDELTA\tSKU\n")
	for i := range rows {
		r := &rows[i]
		tw.writef("%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.Time.Local().Format(timeLayout),
			r.ProductID,
			truncate(r.ProductName, 32),
			r.Quantity,
			r.MaxQuantity,
			history.FormatDelta(r.Delta),
			r.VariantSKU,
		)
	}
	return tw.finish()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
