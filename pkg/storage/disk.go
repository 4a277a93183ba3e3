// Package storage abstracts file storage behind the Disk interface, with
// local filesystem and S3 drivers selected by configuration. Trip images
// uploaded through the catalog API land here.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("storage: file not found")

// Disk stores and retrieves files by path.
type Disk interface {
	Put(ctx context.Context, path string, r io.Reader) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	// URL returns a public address for the stored file.
	URL(path string) string
}
