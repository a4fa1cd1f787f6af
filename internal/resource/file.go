package resource

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/vk/stepflow/internal/atomicfs"
	"github.com/vk/stepflow/internal/ctxlog"
)

// File tracks a single regular file on the local filesystem.
type File struct {
	name      string
	path      string
	required  bool
	available bool
	mtime     time.Time
}

// NewFile creates a file resource. name is the display name; path is the
// filesystem location probed on Refresh.
func NewFile(name, path string, required bool) *File {
	return &File{name: name, path: path, required: required}
}

// Name implements Resource.
func (f *File) Name() string { return f.name }

// Required implements Resource.
func (f *File) Required() bool { return f.required }

// Path returns the probed filesystem location.
func (f *File) Path() string { return f.path }

// Refresh stats the file. A missing or non-regular file is recorded as
// unavailable, not as an error.
func (f *File) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(f.path)
	if err != nil || !info.Mode().IsRegular() {
		f.available = false
		f.mtime = time.Time{}
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	f.available = true
	f.mtime = info.ModTime()
	ctxlog.FromContext(ctx).Debug("Refreshed file resource.", "name", f.name, "mtime", f.mtime)
	return nil
}

// Available implements Resource.
func (f *File) Available() bool { return f.available }

// LastUpdated implements Resource.
func (f *File) LastUpdated() time.Time { return f.mtime }

// Dir tracks a directory whose freshness is proxied by the update marker
// written on commit, since directory mtimes change whenever any entry is
// touched.
type Dir struct {
	name      string
	path      string
	required  bool
	available bool
	mtime     time.Time
}

// NewDir creates a directory resource.
func NewDir(name, path string, required bool) *Dir {
	return &Dir{name: name, path: path, required: required}
}

// Name implements Resource.
func (d *Dir) Name() string { return d.name }

// Required implements Resource.
func (d *Dir) Required() bool { return d.required }

// Path returns the probed filesystem location.
func (d *Dir) Path() string { return d.path }

// Refresh stats the directory's update marker. A directory without the
// marker counts as unavailable: it was never committed, so its content
// cannot be trusted as complete.
func (d *Dir) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.available = false
	d.mtime = time.Time{}

	info, err := os.Stat(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}

	marker, err := os.Stat(filepath.Join(d.path, atomicfs.UpdateMarker))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	d.available = true
	d.mtime = marker.ModTime()
	return nil
}

// Available implements Resource.
func (d *Dir) Available() bool { return d.available }

// LastUpdated implements Resource.
func (d *Dir) LastUpdated() time.Time { return d.mtime }
