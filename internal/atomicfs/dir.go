package atomicfs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// UpdateMarker is the sentinel file written into a committed directory.
// Directory mtimes change whenever any entry is touched, so freshness is
// tracked through this marker's mtime instead.
const UpdateMarker = "_update.dir"

// DirWriter stages a whole output directory. The owning step populates the
// staging directory via Path, then either Commits or Discards it.
type DirWriter struct {
	final     string
	tmp       string
	committed bool
}

// NewDirWriter creates an empty staging directory next to final.
func NewDirWriter(final string) (*DirWriter, error) {
	tmp := stagingPath(final)
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory for %s: %w", final, err)
	}
	return &DirWriter{final: final, tmp: tmp}, nil
}

// Path returns the staging directory the owner should populate.
func (w *DirWriter) Path() string {
	return w.tmp
}

// Commit writes the update marker stamped with ts into the staging
// directory, removes any prior artifact at the final path and renames the
// staging directory into place.
func (w *DirWriter) Commit(ts time.Time) error {
	if w.committed {
		return fmt.Errorf("writer for %s already committed", w.final)
	}
	marker := filepath.Join(w.tmp, UpdateMarker)
	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		return fmt.Errorf("failed to write update marker for %s: %w", w.final, err)
	}
	if err := os.Chtimes(marker, ts, ts); err != nil {
		return fmt.Errorf("failed to stamp update marker for %s: %w", w.final, err)
	}
	if err := os.Chtimes(w.tmp, ts, ts); err != nil {
		return fmt.Errorf("failed to stamp staging directory for %s: %w", w.final, err)
	}
	if err := os.RemoveAll(w.final); err != nil {
		return fmt.Errorf("failed to remove prior artifact %s: %w", w.final, err)
	}
	if err := os.Rename(w.tmp, w.final); err != nil {
		return fmt.Errorf("failed to publish %s: %w", w.final, err)
	}
	w.committed = true
	return nil
}

// Discard removes the staging directory and everything staged inside it.
// No-op after a successful Commit.
func (w *DirWriter) Discard() error {
	if w.committed {
		return nil
	}
	return os.RemoveAll(w.tmp)
}
