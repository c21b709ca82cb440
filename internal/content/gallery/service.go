// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gallery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/portfolio/internal/platform/apperr"
	"github.com/taibuivan/portfolio/internal/platform/docstore"
)

// Upload is one incoming file with its form fields.
type Upload struct {
	OriginalName string
	DisplayName  string
	Description  string
	ContentType  string
	Size         int64
	Content      io.Reader
}

// Service coordinates blobs and their metadata. Uploads and deletes are
// serialised so a name check and the write that follows cannot interleave.
type Service struct {
	mu       sync.Mutex
	blobs    BlobStore
	metadata *docstore.Document[[]Meta]
	logger   *slog.Logger
	now      func() time.Time
}

// ServiceOption customises a [Service].
type ServiceOption func(*Service)

// WithClock replaces the wall clock used for names and timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(service *Service) { service.now = now }
}

// NewService keeps metadata in metaDir/gallery-meta.json.
func NewService(blobs BlobStore, metaDir string, logger *slog.Logger, options ...ServiceOption) *Service {
	service := &Service{
		blobs:    blobs,
		metadata: docstore.New(filepath.Join(metaDir, MetaFileName), func() []Meta { return []Meta{} }),
		logger:   logger,
		now:      time.Now,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// List returns every upload, newest first.
func (service *Service) List(context context.Context) ([]File, error) {
	blobs, err := service.blobs.List(context)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	byName := service.loadMeta(context)
	files := make([]File, 0, len(blobs))
	for _, blob := range blobs {
		if blob.Name == MetaFileName {
			continue
		}
		files = append(files, present(blob, byName[blob.Name]))
	}

	slices.SortStableFunc(files, func(a, b File) int {
		if byTime := b.CreatedAt.Compare(a.CreatedAt); byTime != 0 {
			return byTime
		}
		return strings.Compare(a.Filename, b.Filename)
	})
	return files, nil
}

// Save stores the upload and records its metadata.
func (service *Service) Save(context context.Context, upload Upload) (File, error) {
	if upload.Size > MaxUploadSize {
		return File{}, apperr.ValidationError("The file is larger than 10 MB")
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	uploadedAt := service.now().UTC().Truncate(time.Millisecond)
	name, err := service.freeName(context, upload.OriginalName, uploadedAt)
	if err != nil {
		return File{}, apperr.Internal(err)
	}

	size, err := service.blobs.Put(context, name, upload.Content, upload.Size, upload.ContentType)
	if err != nil {
		return File{}, apperr.Internal(err)
	}

	originalName := filepath.Base(strings.ReplaceAll(upload.OriginalName, `\`, "/"))
	meta := Meta{
		Filename:     name,
		OriginalName: originalName,
		DisplayName:  strings.TrimSpace(upload.DisplayName),
		Description:  strings.TrimSpace(upload.Description),
		CreatedAt:    uploadedAt,
	}
	if meta.DisplayName == "" {
		meta.DisplayName = originalName
	}

	if _, err := service.metadata.Update(func(entries *[]Meta) error {
		*entries = append(*entries, meta)
		return nil
	}); err != nil {
		// The blob is still listed without metadata.
		service.logger.ErrorContext(context, "gallery_meta_write_failed",
			slog.String("filename", name),
			slog.String("error", err.Error()),
		)
	}

	service.logger.InfoContext(context, "gallery_upload_saved",
		slog.String("filename", name),
		slog.Int64("size", size),
	)
	return present(BlobInfo{Name: name, Size: size, ModTime: uploadedAt}, &meta), nil
}

// Delete removes the upload and its metadata. Only the last path element of
// filename is used.
func (service *Service) Delete(context context.Context, filename string) error {
	name, ok := cleanName(filename)
	if !ok {
		return apperr.NotFound("File")
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	if err := service.blobs.Delete(context, name); err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return apperr.NotFound("File")
		}
		return apperr.Internal(err)
	}

	if _, err := service.metadata.Update(func(entries *[]Meta) error {
		*entries = slices.DeleteFunc(*entries, func(meta Meta) bool { return meta.Filename == name })
		return nil
	}); err != nil {
		service.logger.ErrorContext(context, "gallery_meta_write_failed",
			slog.String("filename", name),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// Open returns the bytes of one upload for serving.
func (service *Service) Open(context context.Context, filename string) (io.ReadSeekCloser, BlobInfo, error) {
	name, ok := cleanName(filename)
	if !ok {
		return nil, BlobInfo{}, apperr.NotFound("File")
	}
	content, info, err := service.blobs.Open(context, name)
	if errors.Is(err, ErrBlobNotFound) {
		return nil, BlobInfo{}, apperr.NotFound("File")
	}
	if err != nil {
		return nil, BlobInfo{}, apperr.Internal(err)
	}
	return content, info, nil
}

// freeName picks the stored name, moving to the next millisecond while the
// name is taken.
func (service *Service) freeName(context context.Context, originalName string, uploadedAt time.Time) (string, error) {
	for {
		name := StoredName(originalName, uploadedAt)
		_, err := service.blobs.Stat(context, name)
		if errors.Is(err, ErrBlobNotFound) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
		uploadedAt = uploadedAt.Add(time.Millisecond)
	}
}

// loadMeta indexes the metadata by filename. An unreadable document is logged
// and treated as empty.
func (service *Service) loadMeta(context context.Context) map[string]*Meta {
	entries, err := service.metadata.Load()
	if err != nil {
		service.logger.WarnContext(context, "gallery_meta_unreadable", slog.String("error", err.Error()))
		return nil
	}
	byName := make(map[string]*Meta, len(entries))
	for index := range entries {
		byName[entries[index].Filename] = &entries[index]
	}
	return byName
}
