// Package fsutil provides the file-system primitives behind retab's write
// path: snapshot reads, external-modification detection, atomic replace,
// and sidecar backups.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"time"
)

// Sentinel errors for categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates the file cannot be accessed.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path names a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrNilSnapshot is returned when a modification check gets a nil
	// Snapshot.
	ErrNilSnapshot = errors.New("nil snapshot")
)

// Snapshot captures a file's state at read time. The write path compares
// the disk state against it before replacing the file, so edits that
// raced in from another process are never silently overwritten.
type Snapshot struct {
	// Path is the file the snapshot was taken from.
	Path string

	// Mode holds the permission bits to preserve on rewrite.
	Mode os.FileMode

	// ModTime and Size support the quick modification check.
	ModTime time.Time
	Size    int64

	// Sum is the SHA-256 of the content, for the exact check.
	Sum [32]byte
}

// ReadFile reads a file and returns its content together with a Snapshot
// for later modification detection.
func ReadFile(ctx context.Context, path string) ([]byte, *Snapshot, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("read file: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		case os.IsPermission(err):
			return nil, nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		default:
			return nil, nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	return content, &Snapshot{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Sum:     sha256.Sum256(content),
	}, nil
}

// Modified reports whether the file changed on disk since the snapshot
// was taken. A quick mod-time and size comparison runs first; when it
// passes, the content is re-read and hashed so a same-size rewrite is
// still caught. A deleted file counts as modified.
func Modified(ctx context.Context, snap *Snapshot) (bool, error) {
	if snap == nil {
		return false, ErrNilSnapshot
	}
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("check modified: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(snap.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", snap.Path, err)
	}
	if !stat.ModTime().Equal(snap.ModTime) || stat.Size() != snap.Size {
		return true, nil
	}

	content, err := os.ReadFile(snap.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", snap.Path, err)
	}
	return sha256.Sum256(content) != snap.Sum, nil
}

// ModifiedQuick runs only the mod-time and size comparison. Use it when
// hashing is too expensive and a false negative is acceptable.
func ModifiedQuick(ctx context.Context, snap *Snapshot) (bool, error) {
	if snap == nil {
		return false, ErrNilSnapshot
	}
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("check modified: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(snap.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", snap.Path, err)
	}
	return !stat.ModTime().Equal(snap.ModTime) || stat.Size() != snap.Size, nil
}
