package atomicfs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// stagingPath derives the temporary sibling path for a final path. Staying
// in the same directory guarantees the final rename never crosses a
// filesystem boundary.
func stagingPath(final string) string {
	return filepath.Join(filepath.Dir(final), filepath.Base(final)+"_"+uuid.NewString()[:8])
}

// FileWriter stages a single output file. Exactly one of Commit or Discard
// must be called before the owning step returns.
type FileWriter struct {
	final     string
	tmp       string
	f         *os.File
	committed bool
}

// NewFileWriter creates the staging file next to final and opens it for
// writing.
func NewFileWriter(final string) (*FileWriter, error) {
	tmp := stagingPath(final)
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file for %s: %w", final, err)
	}
	return &FileWriter{final: final, tmp: tmp, f: f}, nil
}

// Write implements io.Writer, appending to the staged content.
func (w *FileWriter) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

// Path returns the staging path, for callers that hand the file to an
// external producer.
func (w *FileWriter) Path() string {
	return w.tmp
}

// Commit closes the staged file, stamps it with the logical timestamp ts,
// removes any prior artifact at the final path and renames the staged file
// into place.
func (w *FileWriter) Commit(ts time.Time) error {
	if w.committed {
		return fmt.Errorf("writer for %s already committed", w.final)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("failed to close staging file for %s: %w", w.final, err)
	}
	if err := os.Chtimes(w.tmp, ts, ts); err != nil {
		return fmt.Errorf("failed to stamp staging file for %s: %w", w.final, err)
	}
	if err := os.Remove(w.final); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove prior artifact %s: %w", w.final, err)
	}
	if err := os.Rename(w.tmp, w.final); err != nil {
		return fmt.Errorf("failed to publish %s: %w", w.final, err)
	}
	w.committed = true
	return nil
}

// Discard removes the staged file. It is a no-op after a successful Commit,
// so callers can defer it unconditionally.
func (w *FileWriter) Discard() error {
	if w.committed {
		return nil
	}
	w.f.Close()
	if err := os.Remove(w.tmp); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
