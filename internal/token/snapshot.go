package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

// Snapshot is the on-disk copy of the current credential:
// {"token": "...", "updated": <unix seconds>}.
type Snapshot struct {
	path string
}

type snapshotRecord struct {
	Token   string  `json:"token"`
	Updated float64 `json:"updated"`
}

// NewSnapshot returns a Snapshot stored at path.
func NewSnapshot(path string) *Snapshot {
	return &Snapshot{path: path}
}

// Path returns the snapshot file path.
func (s *Snapshot) Path() string {
	return s.path
}

// Read loads the credential from disk. A missing file yields an error
// matching fs.ErrNotExist.
func (s *Snapshot) Read() (domain.Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.Credential{}, err
	}

	var rec snapshotRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Credential{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	if rec.Token == "" {
		return domain.Credential{}, errors.New("snapshot has no token")
	}

	sec, frac := math.Modf(rec.Updated)
	return domain.Credential{
		Token:      rec.Token,
		AcquiredAt: time.Unix(int64(sec), int64(frac*1e9)),
	}, nil
}

// Write replaces the snapshot atomically by writing a temp file (mode 0600)
// in the same directory and renaming it over the old one.
func (s *Snapshot) Write(c domain.Credential) error {
	data, err := json.Marshal(snapshotRecord{
		Token:   c.Token,
		Updated: float64(c.AcquiredAt.UnixNano()) / 1e9,
	})
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".token-*.json")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// Remove deletes the snapshot file. A missing file is not an error.
func (s *Snapshot) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
