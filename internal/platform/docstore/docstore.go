// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package docstore persists small JSON documents as single files on disk.

Every mutation rewrites the whole document. Writes go to a temporary file in
the same directory which is fsynced and renamed over the target, so a reader
sees either the previous or the next version and never a partial file.

A Document serialises its own readers and writers with a mutex. It does not
coordinate with other processes; the site runs as a single instance.
*/
package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Document is a JSON file holding one value of type T.
type Document[T any] struct {
	mu       sync.Mutex
	path     string
	newEmpty func() T
}

// New returns a document stored at path. newEmpty supplies the value used when
// the file does not exist yet.
func New[T any](path string, newEmpty func() T) *Document[T] {
	return &Document[T]{path: path, newEmpty: newEmpty}
}

// Path returns the file backing the document.
func (document *Document[T]) Path() string {
	return document.path
}

// Load reads the current value. A missing file yields the empty value; the
// file is created on the first [Document.Update].
func (document *Document[T]) Load() (T, error) {
	document.mu.Lock()
	defer document.mu.Unlock()
	return document.read()
}

// Update loads the value, applies mutate and writes the result durably. When
// mutate returns an error nothing is written and the error is returned as-is.
func (document *Document[T]) Update(mutate func(value *T) error) (T, error) {
	document.mu.Lock()
	defer document.mu.Unlock()

	value, err := document.read()
	if err != nil {
		return value, err
	}
	if err := mutate(&value); err != nil {
		return value, err
	}
	if err := document.write(value); err != nil {
		return value, err
	}
	return value, nil
}

// Save replaces the stored value.
func (document *Document[T]) Save(value T) error {
	document.mu.Lock()
	defer document.mu.Unlock()
	return document.write(value)
}

func (document *Document[T]) read() (T, error) {
	raw, err := os.ReadFile(document.path)
	if errors.Is(err, fs.ErrNotExist) {
		return document.newEmpty(), nil
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("docstore: read %s: %w", document.path, err)
	}

	value := document.newEmpty()
	if err := json.Unmarshal(raw, &value); err != nil {
		var zero T
		return zero, fmt.Errorf("docstore: decode %s: %w", document.path, err)
	}
	return value, nil
}

func (document *Document[T]) write(value T) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("docstore: encode %s: %w", document.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(document.path), dirPerm); err != nil {
		return fmt.Errorf("docstore: create dir for %s: %w", document.path, err)
	}
	if err := renameio.WriteFile(document.path, raw, filePerm); err != nil {
		return fmt.Errorf("docstore: write %s: %w", document.path, err)
	}
	return nil
}
