package token_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shady333/gettingHWaccess/internal/token"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

func TestSnapshot_WriteRead(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token.json")
	snap := token.NewSnapshot(path)
	want := domain.Credential{
		Token:      "abc.def",
		AcquiredAt: time.Date(2026, 3, 14, 9, 0, 0, 250_000_000, time.UTC),
	}

	require.NoError(t, snap.Write(want))

	got, err := snap.Read()
	require.NoError(t, err)
	assert.Equal(t, want.Token, got.Token)
	assert.WithinDuration(t, want.AcquiredAt, got.AcquiredAt, time.Millisecond)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSnapshot_WriteReplaces(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	snap := token.NewSnapshot(filepath.Join(dir, "token.json"))

	now := time.Now()
	require.NoError(t, snap.Write(domain.Credential{Token: "first", AcquiredAt: now}))
	require.NoError(t, snap.Write(domain.Credential{Token: "second", AcquiredAt: now}))

	got, err := snap.Read()
	require.NoError(t, err)
	assert.Equal(t, "second", got.Token)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestSnapshot_ReadMissing(t *testing.T) {
	t.Parallel()

	_, err := token.NewSnapshot(filepath.Join(t.TempDir(), "nope.json")).Read()
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSnapshot_ReadLegacyFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token": "legacy", "updated": 1773478800.0}`), 0o600))

	got, err := token.NewSnapshot(path).Read()
	require.NoError(t, err)
	assert.Equal(t, "legacy", got.Token)
	assert.True(t, got.AcquiredAt.Equal(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)))
}

func TestSnapshot_Remove(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token.json")
	snap := token.NewSnapshot(path)

	require.NoError(t, snap.Remove(), "missing file is not an error")
	require.NoError(t, snap.Write(domain.Credential{Token: "x", AcquiredAt: time.Now()}))
	require.NoError(t, snap.Remove())

	_, err := os.Stat(path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
