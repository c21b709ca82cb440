// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/portfolio/internal/platform/sec"
	"github.com/taibuivan/portfolio/internal/social/comment"
)

// legacyDocument mirrors files written before replies existed, plus one
// author whose stored badge is stale.
const legacyDocument = `[
  {
    "id": 1700000000000,
    "text": "old comment",
    "createdAt": "2023-11-14T22:13:20.000Z",
    "author": {"id": "555", "username": "former_admin", "avatarUrl": "", "isAdmin": true}
  },
  {
    "id": 1700000001000,
    "text": "answered",
    "createdAt": "2023-11-14T22:13:21.000Z",
    "author": {"id": "100", "username": "alice", "avatarUrl": "", "isAdmin": false},
    "replies": [
      {"id": 1700000002000, "text": "thanks", "createdAt": "2023-11-14T22:13:22.000Z",
       "author": {"id": "555", "username": "former_admin", "avatarUrl": "", "isAdmin": true}}
    ]
  },
  null
]`

func writeLegacy(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, comment.FileName), []byte(legacyDocument), 0o644))
	return dir
}

/*
TestJSONRepository_RepairOnRead fills in missing replies and skips null entries.
*/
func TestJSONRepository_RepairOnRead(t *testing.T) {
	repository := comment.NewJSONRepository(writeLegacy(t))

	comments, err := repository.List(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 2)

	for _, item := range comments {
		assert.NotNil(t, item.Replies)
	}

	encoded, err := json.Marshal(comments[0])
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"replies":[]`)
	assert.NotContains(t, string(encoded), `"updatedAt"`)
}

/*
TestService_List_IgnoresStoredAdminFlag recomputes badges from the current allowlist.
*/
func TestService_List_IgnoresStoredAdminFlag(t *testing.T) {
	repository := comment.NewJSONRepository(writeLegacy(t))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// 555 was an admin when the file was written but no longer is; 100 now is.
	service := comment.NewService(repository, sec.NewAllowlist([]string{"100"}), logger)

	comments, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 2)

	answered, old := comments[0], comments[1]
	assert.Equal(t, "answered", answered.Text)
	assert.True(t, answered.Author.IsAdmin)
	require.Len(t, answered.Replies, 1)
	assert.False(t, answered.Replies[0].Author.IsAdmin)

	assert.Equal(t, "old comment", old.Text)
	assert.False(t, old.Author.IsAdmin)

	// The stored snapshot is untouched by reads.
	raw, err := os.ReadFile(repository.Path())
	require.NoError(t, err)
	assert.JSONEq(t, legacyDocument, string(raw))
}

/*
TestService_IDsContinueAfterStoredMax seeds the sequence above existing ids.
*/
func TestService_IDsContinueAfterStoredMax(t *testing.T) {
	repository := comment.NewJSONRepository(writeLegacy(t))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := &fakeClock{current: time.Unix(1_600_000_000, 0)} // behind the stored ids

	service := comment.NewService(repository, sec.NewAllowlist(nil), logger, comment.WithClock(clock.Now))

	created, err := service.Create(context.Background(), alice, "new")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000002001), created.ID)
}
