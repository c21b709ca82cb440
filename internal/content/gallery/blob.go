// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gallery

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrBlobNotFound is returned when a named blob does not exist.
var ErrBlobNotFound = errors.New("gallery: blob not found")

// BlobInfo describes one stored file.
type BlobInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// BlobStore holds the uploaded bytes. Names are flat; implementations never
// see a path separator because the service validates names first.
type BlobStore interface {
	// Put stores content under name and returns the number of bytes written.
	Put(ctx context.Context, name string, content io.Reader, size int64, contentType string) (int64, error)

	Stat(ctx context.Context, name string) (BlobInfo, error)

	// List returns every blob, in no particular order.
	List(ctx context.Context) ([]BlobInfo, error)

	Delete(ctx context.Context, name string) error

	// Open returns a seekable reader for serving the blob with range support.
	Open(ctx context.Context, name string) (io.ReadSeekCloser, BlobInfo, error)
}
