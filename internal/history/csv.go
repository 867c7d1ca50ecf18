package history

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

var csvHeader = []string{
	"time", "product_id", "product_name", "quantity", "max_quantity", "delta", "variant_sku",
}

// CSVWriter appends rows to a CSV file, flushing after every row.
type CSVWriter struct {
	mu   sync.Mutex
	f    *os.File
	w    *csv.Writer
	path string
}

// NewCSVWriter opens path for appending, creating it and its directory if
// needed. A header row is written when the file is empty.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening observation log: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat observation log: %w", err)
	}

	cw := &CSVWriter{f: f, w: csv.NewWriter(f), path: path}
	if info.Size() == 0 {
		if err := cw.write(csvHeader); err != nil {
			f.Close()
			return nil, err
		}
	}
	return cw, nil
}

// Path returns the file path.
func (c *CSVWriter) Path() string {
	return c.path
}

// WriteRow implements Writer.
func (c *CSVWriter) WriteRow(_ context.Context, row Row) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.write([]string{
		row.Time.Format(time.RFC3339),
		row.ProductID,
		row.ProductName,
		strconv.Itoa(row.Quantity),
		strconv.Itoa(row.MaxQuantity),
		FormatDelta(row.Delta),
		row.VariantSKU,
	})
}

func (c *CSVWriter) write(record []string) error {
	if err := c.w.Write(record); err != nil {
		return fmt.Errorf("writing csv row: %w", err)
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("flushing csv row: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.w.Flush()
	return c.f.Close()
}
