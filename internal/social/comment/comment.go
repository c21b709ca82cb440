// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment implements the comment wall: top-level comments by any signed-in
visitor and one level of admin replies beneath them.

Authors are stored as snapshots taken at write time. The admin badge is the one
exception: it is recomputed from the current allowlist on every read, so removing
someone from ADMIN_IDS un-badges their past comments without a data migration.
*/
package comment

import (
	"time"

	"github.com/taibuivan/portfolio/internal/platform/sec"
)

// MaxTextLength is the maximum number of characters in a comment or reply after trimming.
const MaxTextLength = 1000

// Author is the identity snapshot embedded in comments and replies.
//
// IsAdmin is persisted for older readers of the data file and is ignored when
// serving; see [Service.List].
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"username"`
	AvatarURL   string `json:"avatarUrl"`
	IsAdmin     bool   `json:"isAdmin"`
}

// Comment is a top-level entry on the wall.
type Comment struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Author    Author     `json:"author"`
	Replies   []Reply    `json:"replies"`
}

// Reply is an admin answer to a comment. Replies are append-only.
type Reply struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Author    Author    `json:"author"`
}

// IsEdited reports whether the comment was changed after creation.
func (comment *Comment) IsEdited() bool {
	return comment.UpdatedAt != nil && !comment.UpdatedAt.Equal(comment.CreatedAt)
}

// authorFrom snapshots the principal at write time.
func authorFrom(principal *sec.Principal) Author {
	return Author{
		ID:          principal.ID,
		DisplayName: principal.DisplayName,
		AvatarURL:   principal.AvatarURL,
		IsAdmin:     principal.IsAdmin,
	}
}

// clone returns a deep copy so callers can adjust flags without touching stored data.
func (comment *Comment) clone() *Comment {
	copied := *comment
	if comment.UpdatedAt != nil {
		updatedAt := *comment.UpdatedAt
		copied.UpdatedAt = &updatedAt
	}
	copied.Replies = make([]Reply, len(comment.Replies))
	copy(copied.Replies, comment.Replies)
	return &copied
}
