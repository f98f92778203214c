// Package ledger persists the incident ledger as a single JSON document.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/driftline/dronewatch/internal/domain"
)

// Store reads and writes the ledger file. One read at run start, one write at
// run end; concurrent runs against the same file must be serialized by the
// caller's scheduler.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a file-backed ledger store.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Load reads the current ledger. A missing file is the first-run case and
// yields an empty ledger. An unparseable file is recovered by starting over
// empty, so the incoming batch becomes the entire new ledger; the data loss
// is logged, not fatal.
func (s *Store) Load(_ context.Context) (domain.Ledger, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Ledger{}, nil
		}
		return domain.Ledger{}, fmt.Errorf("read ledger: %w", err)
	}

	var l domain.Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		s.logger.Warn("existing ledger unparseable, starting empty", "path", s.path, "error", err)
		return domain.Ledger{}, nil
	}
	return l, nil
}

// Save writes the ledger atomically: marshal to a temp file in the same
// directory, then rename over the destination, so a crash mid-write never
// leaves a truncated ledger behind.
func (s *Store) Save(_ context.Context, l domain.Ledger) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".incidents-*.json")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp ledger: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
