// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package docstore_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/portfolio/internal/platform/docstore"
)

type counter struct {
	Count int `json:"count"`
}

func newCounter() counter { return counter{} }

/*
TestDocument_MissingFile returns the empty value without creating the file.
*/
func TestDocument_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "visits.json")
	document := docstore.New(path, newCounter)

	value, err := document.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, value.Count)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

/*
TestDocument_UpdatePersists writes through to disk and creates parent directories.
*/
func TestDocument_UpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "visits.json")
	document := docstore.New(path, newCounter)

	_, err := document.Update(func(value *counter) error {
		value.Count = 41
		return nil
	})
	require.NoError(t, err)

	reopened := docstore.New(path, newCounter)
	value, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, 41, value.Count)
}

/*
TestDocument_UpdateAbort leaves the file untouched when the mutation fails.
*/
func TestDocument_UpdateAbort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visits.json")
	document := docstore.New(path, newCounter)
	require.NoError(t, document.Save(counter{Count: 3}))

	sentinel := errors.New("rejected")
	_, err := document.Update(func(value *counter) error {
		value.Count = 99
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	value, err := document.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, value.Count)
}

/*
TestDocument_CorruptFile surfaces decode failures instead of silently resetting.
*/
func TestDocument_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visits.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := docstore.New(path, newCounter).Load()
	assert.Error(t, err)
}

/*
TestDocument_ConcurrentUpdates never loses an increment.
*/
func TestDocument_ConcurrentUpdates(t *testing.T) {
	document := docstore.New(filepath.Join(t.TempDir(), "visits.json"), newCounter)

	var group sync.WaitGroup
	for range 25 {
		group.Add(1)
		go func() {
			defer group.Done()
			_, err := document.Update(func(value *counter) error {
				value.Count++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	group.Wait()

	value, err := document.Load()
	require.NoError(t, err)
	assert.Equal(t, 25, value.Count)
}
