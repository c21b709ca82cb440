// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
)

// DiskStore keeps blobs as plain files in one directory.
type DiskStore struct {
	dir    string
	ignore map[string]bool
}

// NewDiskStore serves dir. Dotfiles and the names in ignore are hidden from
// [DiskStore.List] and cannot be opened.
func NewDiskStore(dir string, ignore ...string) *DiskStore {
	hidden := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		hidden[name] = true
	}
	return &DiskStore{dir: dir, ignore: hidden}
}

func (store *DiskStore) Put(_ context.Context, name string, content io.Reader, _ int64, _ string) (int64, error) {
	if err := os.MkdirAll(store.dir, 0o755); err != nil {
		return 0, fmt.Errorf("gallery: create upload dir: %w", err)
	}

	pending, err := renameio.NewPendingFile(filepath.Join(store.dir, name), renameio.WithPermissions(0o644))
	if err != nil {
		return 0, fmt.Errorf("gallery: create %s: %w", name, err)
	}
	defer func() { _ = pending.Cleanup() }()

	written, err := io.Copy(pending, content)
	if err != nil {
		return written, fmt.Errorf("gallery: write %s: %w", name, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return written, fmt.Errorf("gallery: commit %s: %w", name, err)
	}
	return written, nil
}

func (store *DiskStore) Stat(_ context.Context, name string) (BlobInfo, error) {
	if store.hidden(name) {
		return BlobInfo{}, ErrBlobNotFound
	}
	info, err := os.Stat(filepath.Join(store.dir, name))
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return BlobInfo{}, ErrBlobNotFound
	}
	if err != nil {
		return BlobInfo{}, fmt.Errorf("gallery: stat %s: %w", name, err)
	}
	return BlobInfo{Name: name, Size: info.Size(), ModTime: info.ModTime()}, nil
}

func (store *DiskStore) List(_ context.Context) ([]BlobInfo, error) {
	entries, err := os.ReadDir(store.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gallery: read upload dir: %w", err)
	}

	blobs := make([]BlobInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || store.hidden(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		blobs = append(blobs, BlobInfo{Name: entry.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return blobs, nil
}

func (store *DiskStore) Delete(_ context.Context, name string) error {
	if store.hidden(name) {
		return ErrBlobNotFound
	}
	err := os.Remove(filepath.Join(store.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrBlobNotFound
	}
	if err != nil {
		return fmt.Errorf("gallery: remove %s: %w", name, err)
	}
	return nil
}

func (store *DiskStore) Open(ctx context.Context, name string) (io.ReadSeekCloser, BlobInfo, error) {
	info, err := store.Stat(ctx, name)
	if err != nil {
		return nil, BlobInfo{}, err
	}
	file, err := os.Open(filepath.Join(store.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, BlobInfo{}, ErrBlobNotFound
	}
	if err != nil {
		return nil, BlobInfo{}, fmt.Errorf("gallery: open %s: %w", name, err)
	}
	return file, info, nil
}

func (store *DiskStore) hidden(name string) bool {
	return strings.HasPrefix(name, ".") || store.ignore[name]
}
