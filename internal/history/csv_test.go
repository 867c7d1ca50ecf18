package history_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/shady333/gettingHWaccess/internal/history"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WritesHeaderOnce(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "observations.csv")
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	w, err := history.NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteRow(context.Background(), history.Row{
		Time: at, ProductID: "A", ProductName: "RTX 5090", Quantity: 100, MaxQuantity: 5, VariantSKU: "SKU-1",
	}))
	require.NoError(t, w.Close())

	w, err = history.NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteRow(context.Background(), history.Row{
		Time: at.Add(10 * time.Second), ProductID: "A", ProductName: "RTX 5090", Quantity: 98, MaxQuantity: 5,
		Delta: intp(-2), VariantSKU: "SKU-1",
	}))
	require.NoError(t, w.WriteRow(context.Background(), history.Row{
		Time: at.Add(20 * time.Second), ProductID: "A", ProductName: "RTX 5090", Quantity: 98, MaxQuantity: 5,
		Delta: intp(0), VariantSKU: "SKU-1",
	}))
	require.NoError(t, w.Close())

	want := [][]string{
		{"time", "product_id", "product_name", "quantity", "max_quantity", "delta", "variant_sku"},
		{"2026-03-14T09:00:00Z", "A", "RTX 5090", "100", "5", "", "SKU-1"},
		{"2026-03-14T09:00:10Z", "A", "RTX 5090", "98", "5", "-2", "SKU-1"},
		{"2026-03-14T09:00:20Z", "A", "RTX 5090", "98", "5", "", "SKU-1"},
	}
	if diff := cmp.Diff(want, readCSV(t, path)); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestNewCSVWriter_BadPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := history.NewCSVWriter(filepath.Join(blocker, "observations.csv"))
	require.Error(t, err)
}
