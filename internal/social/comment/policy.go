// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import "github.com/taibuivan/portfolio/internal/platform/sec"

// # Authorization Policy
//
// Pure predicates. A nil principal is anonymous and may do nothing.

// CanCreate reports whether principal may post a top-level comment.
func CanCreate(principal *sec.Principal) bool {
	return principal != nil
}

// CanEdit reports whether principal may change the text of comment.
// Only the author may edit; admins moderate by deleting.
func CanEdit(principal *sec.Principal, comment *Comment) bool {
	return principal != nil && comment != nil && principal.ID == comment.Author.ID
}

// CanDelete reports whether principal may remove comment and its replies.
func CanDelete(principal *sec.Principal, comment *Comment) bool {
	if principal == nil || comment == nil {
		return false
	}
	return principal.ID == comment.Author.ID || principal.IsAdmin
}

// CanReply reports whether principal may answer comments.
func CanReply(principal *sec.Principal) bool {
	return principal != nil && principal.IsAdmin
}
