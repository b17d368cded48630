package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// Store checks for and writes a single named file.
type Store interface {
	// Exists reports whether name is present as a regular file.
	Exists(ctx context.Context, name string) (bool, error)

	// Write creates or replaces name with data.
	Write(ctx context.Context, name string, data []byte) error
}

// Local is a Store rooted at a directory on the local filesystem.
type Local struct {
	root string
}

// NewLocal returns a Local store. Relative names resolve against root;
// an empty root means the current working directory.
func NewLocal(root string) *Local {
	return &Local{root: root}
}

func (l *Local) path(name string) string {
	if filepath.IsAbs(name) || l.root == "" {
		return name
	}
	return filepath.Join(l.root, name)
}

// Exists reports whether name is a regular file, following symlinks.
// Missing paths, paths through a non-directory, symlink loops and
// non-regular files (directories, devices) report false.
func (l *Local) Exists(_ context.Context, name string) (bool, error) {
	fi, err := os.Stat(l.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) || errors.Is(err, syscall.ELOOP) {
			return false, nil
		}
		return false, err
	}
	return fi.Mode().IsRegular(), nil
}

// Write writes data to a temporary file next to name and renames it into
// place. An existing file keeps its permission bits. If name is a symlink,
// the file it points to is replaced and the link is kept.
func (l *Local) Write(_ context.Context, name string, data []byte) error {
	path := l.path(name)
	if fi, err := os.Lstat(path); err == nil && fi.Mode()&fs.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("resolve symlink: %w", err)
		}
		path = resolved
	}

	mode := fs.FileMode(0644)
	if fi, err := os.Stat(path); err == nil {
		if !fi.Mode().IsRegular() {
			return fmt.Errorf("%s: not a regular file", path)
		}
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Remove the temp file on any failure below
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	committed = true

	return nil
}

// Bucket is a Store backed by a gocloud.dev/blob bucket.
type Bucket struct {
	bucket   *blob.Bucket
	metadata map[string]string
}

// NewBucket returns a Bucket store. metadata is attached to every object
// written and may be nil.
func NewBucket(bucket *blob.Bucket, metadata map[string]string) *Bucket {
	return &Bucket{bucket: bucket, metadata: metadata}
}

// Exists reports whether the object name exists.
func (b *Bucket) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := b.bucket.Exists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("%s: %w", gcerrors.Code(err), err)
	}
	return ok, nil
}

// Write uploads data as the object name. The object only becomes visible
// once the upload completes.
func (b *Bucket) Write(ctx context.Context, name string, data []byte) error {
	opts := &blob.WriterOptions{
		ContentType: "application/octet-stream",
		Metadata:    b.metadata,
	}
	if err := b.bucket.WriteAll(ctx, name, data, opts); err != nil {
		return fmt.Errorf("%s: %w", gcerrors.Code(err), err)
	}
	return nil
}
