// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gallery

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config locates an S3-compatible bucket (Cloudflare R2, MinIO, AWS).
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// S3Store keeps blobs as objects at the root of one bucket.
type S3Store struct {
	client *minio.Client
	bucket string
}

// NewS3Store connects to the bucket. The endpoint may be a bare host or a URL;
// a URL scheme overrides UseSSL.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint, secure := cfg.Endpoint, cfg.UseSSL
	if strings.Contains(endpoint, "://") {
		parsed, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("gallery: parse S3 endpoint: %w", err)
		}
		endpoint, secure = parsed.Host, parsed.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("gallery: create S3 client: %w", err)
	}
	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

// Ping checks that the bucket exists and the credentials can see it.
func (store *S3Store) Ping(ctx context.Context) error {
	exists, err := store.client.BucketExists(ctx, store.bucket)
	if err != nil {
		return fmt.Errorf("gallery: check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("gallery: bucket %q does not exist", store.bucket)
	}
	return nil
}

func (store *S3Store) Put(ctx context.Context, name string, content io.Reader, size int64, contentType string) (int64, error) {
	info, err := store.client.PutObject(ctx, store.bucket, name, content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return 0, fmt.Errorf("gallery: put %s: %w", name, err)
	}
	return info.Size, nil
}

func (store *S3Store) Stat(ctx context.Context, name string) (BlobInfo, error) {
	object, err := store.client.StatObject(ctx, store.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		return BlobInfo{}, translateS3Error(name, "stat", err)
	}
	return BlobInfo{Name: object.Key, Size: object.Size, ModTime: object.LastModified}, nil
}

func (store *S3Store) List(ctx context.Context) ([]BlobInfo, error) {
	var blobs []BlobInfo
	for object := range store.client.ListObjects(ctx, store.bucket, minio.ListObjectsOptions{}) {
		if object.Err != nil {
			return nil, fmt.Errorf("gallery: list bucket: %w", object.Err)
		}
		if strings.HasSuffix(object.Key, "/") {
			continue
		}
		blobs = append(blobs, BlobInfo{Name: object.Key, Size: object.Size, ModTime: object.LastModified})
	}
	return blobs, nil
}

// Delete removes the object. S3 deletes are idempotent, so existence is
// checked first to report [ErrBlobNotFound].
func (store *S3Store) Delete(ctx context.Context, name string) error {
	if _, err := store.Stat(ctx, name); err != nil {
		return err
	}
	if err := store.client.RemoveObject(ctx, store.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("gallery: remove %s: %w", name, err)
	}
	return nil
}

func (store *S3Store) Open(ctx context.Context, name string) (io.ReadSeekCloser, BlobInfo, error) {
	object, err := store.client.GetObject(ctx, store.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, BlobInfo{}, translateS3Error(name, "get", err)
	}
	// GetObject is lazy; Stat performs the request.
	stat, err := object.Stat()
	if err != nil {
		_ = object.Close()
		return nil, BlobInfo{}, translateS3Error(name, "get", err)
	}
	return object, BlobInfo{Name: stat.Key, Size: stat.Size, ModTime: stat.LastModified}, nil
}

func translateS3Error(name, action string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrBlobNotFound
	}
	return fmt.Errorf("gallery: %s %s: %w", action, name, err)
}
