// Package storage keeps uploaded catalog icons on the local filesystem and
// removes replaced files in the background.
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// cleanupPoolSize bounds the concurrent background removals.
const cleanupPoolSize = 4

// IconStore writes icon files under a base directory and schedules removal
// of superseded files on a bounded worker pool. Removal is fire-and-forget:
// the HTTP response does not wait for it and failures are only logged.
type IconStore struct {
	dir    string
	pool   *ants.Pool
	logger *slog.Logger
}

// NewIconStore creates the base directory if needed and starts the cleanup
// pool.
func NewIconStore(dir string, logger *slog.Logger) (*IconStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create icon dir: %w", err)
	}
	pool, err := ants.NewPool(cleanupPoolSize, ants.WithPanicHandler(func(p any) {
		logger.Error("icon cleanup panic recovered", "panic", p)
	}))
	if err != nil {
		return nil, fmt.Errorf("create cleanup pool: %w", err)
	}
	return &IconStore{dir: dir, pool: pool, logger: logger}, nil
}

// Save writes data to a fresh uuid-named file with the given extension and
// returns the stored path relative to the base directory.
func (s *IconStore) Save(data []byte, ext string) (string, error) {
	name := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write icon: %w", err)
	}
	return name, nil
}

// Path returns the absolute path of a stored icon.
func (s *IconStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// ScheduleRemove queues deletion of a previously stored icon. Callers must
// only schedule a file after its replacement has been persisted.
func (s *IconStore) ScheduleRemove(name string) {
	if name == "" {
		return
	}
	path := filepath.Join(s.dir, name)
	err := s.pool.Submit(func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("icon cleanup failed", "path", path, "error", err)
		}
	})
	if err != nil {
		s.logger.Warn("icon cleanup not scheduled", "path", path, "error", err)
	}
}

// Close releases the cleanup pool. Queued removals may be dropped.
func (s *IconStore) Close() {
	s.pool.Release()
}
