// Package storage implements the FileSystem capability consumed by the
// metadata-table indexing pipeline: a minimal read/write/list/delete surface
// over the table's base path, backed by local disk or S3.
package storage

import (
	"context"
	"io"
)

// Entry describes one listed path underneath a FileSystem directory.
type Entry struct {
	Path  string
	IsDir bool
	Size  int64
}

// FileSystem is the capability the FS Fallback Lister and the file-reader
// adapters consume. It generalizes the teacher's Storage interface with
// directory-aware listing and delete, since the fallback lister must walk
// a directory tree rather than a flat object prefix.
type FileSystem interface {
	Write(ctx context.Context, path string, data io.Reader) error
	Read(ctx context.Context, path string) (io.ReadCloser, error)
	List(ctx context.Context, dir string) ([]Entry, error)
	Delete(ctx context.Context, path string, recursive bool) error
}
