// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package gallery stores the owner's uploaded images and serves them back.

Bytes go to a [BlobStore] (a local directory or an S3-compatible bucket);
display names, descriptions and upload times live in a small JSON metadata
document next to the local uploads. A blob without metadata is still listed,
with values derived from the blob itself.
*/
package gallery

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/portfolio/pkg/slug"
)

// # Limits and Names

const (
	// MaxUploadSize is the largest accepted file.
	MaxUploadSize = 10 << 20

	// MetaFileName is the metadata document inside the upload directory.
	MetaFileName = "gallery-meta.json"

	// URLPrefix is where uploaded files are served.
	URLPrefix = "/uploads/"
)

// Meta is the stored description of one upload.
type Meta struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	DisplayName  string    `json:"displayName"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
}

// File is the public view of one upload.
type File struct {
	Filename     string    `json:"filename"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	SizeKB       int64     `json:"sizeKB"`
	OriginalName string    `json:"originalName"`
	DisplayName  string    `json:"displayName"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
}

// present merges a blob with its metadata entry, if any.
func present(blob BlobInfo, meta *Meta) File {
	file := File{
		Filename:     blob.Name,
		URL:          URLPrefix + blob.Name,
		Size:         blob.Size,
		SizeKB:       (blob.Size + 512) / 1024,
		OriginalName: blob.Name,
		DisplayName:  blob.Name,
		CreatedAt:    blob.ModTime.UTC(),
	}
	if meta == nil {
		return file
	}

	if meta.OriginalName != "" {
		file.OriginalName = meta.OriginalName
		file.DisplayName = meta.OriginalName
	}
	if meta.DisplayName != "" {
		file.DisplayName = meta.DisplayName
	}
	if !meta.CreatedAt.IsZero() {
		file.CreatedAt = meta.CreatedAt
	}
	file.Description = meta.Description
	return file
}

// StoredName derives the blob name for an upload: the folded base name, an
// underscore, the upload time in Unix milliseconds and the lowercased
// extension. "Café Night.PNG" becomes "cafe_night_1700000000000.png".
func StoredName(originalName string, uploadedAt time.Time) string {
	original := filepath.Base(strings.ReplaceAll(originalName, `\`, "/"))
	extension := filepath.Ext(original)

	base := slug.Fold(strings.TrimSuffix(original, extension), '_')
	if base == "" {
		base = "file"
	}

	name := base + "_" + strconv.FormatInt(uploadedAt.UnixMilli(), 10)
	if folded := slug.Fold(strings.TrimPrefix(extension, "."), '_'); folded != "" {
		name += "." + folded
	}
	return name
}

// cleanName reduces a client-supplied name to its last path element and
// rejects names that can never refer to an upload.
func cleanName(name string) (string, bool) {
	clean := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if clean == "" || clean == "." || clean == "/" || strings.HasPrefix(clean, ".") || clean == MetaFileName {
		return "", false
	}
	return clean, true
}
