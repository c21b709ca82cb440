// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"strings"
)

// # Discord CDN

const (
	// avatarURLFormat renders a user avatar from a Discord id and avatar hash.
	avatarURLFormat = "https://cdn.discordapp.com/avatars/%s/%s.png?size=64"

	// DefaultAvatarURL is served for accounts without a custom avatar.
	DefaultAvatarURL = "https://cdn.discordapp.com/embed/avatars/0.png"
)

// # Principal

// Principal is the resolved identity of the requester for the current request.
//
// It is derived on every request from the session token and the admin
// allowlist, and is never persisted as its own record. The JSON key for
// DisplayName stays "username" because stored comments and the frontend use it.
type Principal struct {
	ID          string `json:"id"`
	DisplayName string `json:"username"`
	AvatarURL   string `json:"avatarUrl"`
	IsAdmin     bool   `json:"isAdmin"`
}

// AvatarURL builds the CDN URL for a Discord avatar, or the default avatar when
// hash is empty.
func AvatarURL(userID, hash string) string {
	if hash == "" {
		return DefaultAvatarURL
	}
	return fmt.Sprintf(avatarURLFormat, userID, hash)
}

// DisplayName picks the name shown next to a user's content.
//
// The global display name wins. Legacy accounts fall back to the
// "username#discriminator" composite, and the post-migration discriminator "0"
// is dropped instead of being rendered as "#0".
func DisplayName(globalName, username, discriminator string) string {
	if name := strings.TrimSpace(globalName); name != "" {
		return name
	}
	if discriminator != "" && discriminator != "0" && username != "" {
		return username + "#" + discriminator
	}
	return username
}

// # Admin Allowlist

// Allowlist is the configured set of identity ids granted moderation rights.
//
// It is built once at startup and injected wherever admin status is derived.
// A nil *Allowlist contains nobody.
type Allowlist struct {
	ids map[string]struct{}
}

// NewAllowlist builds an [Allowlist], trimming entries and dropping empty ones.
func NewAllowlist(ids []string) *Allowlist {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return &Allowlist{ids: set}
}

// Contains reports whether id is an admin.
func (list *Allowlist) Contains(id string) bool {
	if list == nil || id == "" {
		return false
	}
	_, ok := list.ids[id]
	return ok
}

// Len returns the number of admin ids.
func (list *Allowlist) Len() int {
	if list == nil {
		return 0
	}
	return len(list.ids)
}
