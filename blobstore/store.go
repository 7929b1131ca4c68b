package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for storing and retrieving named blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// Create creates a blob for streaming writes. The blob becomes visible
	// under its name when the returned WritableBlob is closed.
	Create(ctx context.Context, name string) (WritableBlob, error)

	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of blobs with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a stored blob.
type Blob interface {
	// ReadAt reads len(p) bytes starting at offset off. It follows the
	// io.ReaderAt contract: a short read returns a non-nil error.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)

	// ReadRange returns a reader over length bytes starting at off. Ranges
	// past the end of the blob are clamped.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)

	// Size returns the size of the blob in bytes.
	Size() int64

	// Close releases the handle.
	Close() error
}

// WritableBlob is a streaming write handle. Close commits the blob.
type WritableBlob interface {
	io.Writer

	// Sync flushes written data to stable storage where the backend
	// supports it.
	Sync() error

	// Close finalizes the blob and makes it visible under its name.
	Close() error
}

// Aborter is an optional interface for WritableBlobs that can discard an
// in-flight write instead of committing it.
type Aborter interface {
	Abort() error
}

// Discard abandons a writable blob, using Abort when the implementation
// supports it.
func Discard(wb WritableBlob) {
	if a, ok := wb.(Aborter); ok {
		_ = a.Abort()
		return
	}
	_ = wb.Close()
}

// ReadAll reads the full content of a blob.
func ReadAll(ctx context.Context, b Blob) ([]byte, error) {
	size := b.Size()
	data := make([]byte, size)
	if size == 0 {
		return data, nil
	}

	n, err := b.ReadAt(ctx, data, 0)
	if int64(n) == size && (err == nil || errors.Is(err, io.EOF)) {
		return data, nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}

	return nil, err
}
