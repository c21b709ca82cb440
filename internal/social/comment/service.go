// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/taibuivan/portfolio/internal/platform/apperr"
	"github.com/taibuivan/portfolio/internal/platform/sec"
	"github.com/taibuivan/portfolio/internal/platform/validate"
)

// Service applies the authorization policy and validation around a [Repository].
//
// # Concurrency
//
// Mutations run one at a time inside the service mutex, so a check such as
// "does this comment exist and is the caller its author" cannot be invalidated
// by another request before the write lands. This holds within one process;
// the wall must be served by a single instance.
type Service struct {
	mu         sync.Mutex
	repository Repository
	admins     *sec.Allowlist
	logger     *slog.Logger
	now        func() time.Time
	ids        idSequence
}

// ServiceOption customises a [Service].
type ServiceOption func(*Service)

// WithClock replaces the wall clock used for ids and timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(service *Service) { service.now = now }
}

func NewService(repository Repository, admins *sec.Allowlist, logger *slog.Logger, options ...ServiceOption) *Service {
	service := &Service{
		repository: repository,
		admins:     admins,
		logger:     logger,
		now:        time.Now,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// List returns every comment newest first, with admin badges taken from the
// current allowlist rather than from storage.
func (service *Service) List(context context.Context) ([]*Comment, error) {
	stored, err := service.repository.List(context)
	if err != nil {
		return nil, err
	}

	comments := make([]*Comment, 0, len(stored))
	for _, comment := range stored {
		comments = append(comments, service.present(comment))
	}

	slices.SortStableFunc(comments, func(a, b *Comment) int {
		if byTime := b.CreatedAt.Compare(a.CreatedAt); byTime != 0 {
			return byTime
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return comments, nil
}

// Create posts a new top-level comment authored by principal.
func (service *Service) Create(context context.Context, principal *sec.Principal, text string) (*Comment, error) {
	if !CanCreate(principal) {
		return nil, errSignInRequired
	}
	body, err := normalizeText(text)
	if err != nil {
		return nil, err
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	now := service.timestamp()
	id, err := service.nextID(context, now)
	if err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:        id,
		Text:      body,
		CreatedAt: now,
		Author:    authorFrom(principal),
		Replies:   []Reply{},
	}
	if err := service.repository.Insert(context, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.String("author_id", principal.ID),
	)
	return service.present(comment), nil
}

// Edit replaces the text of a comment the principal authored.
func (service *Service) Edit(context context.Context, principal *sec.Principal, id int64, text string) (*Comment, error) {
	if principal == nil {
		return nil, errSignInRequired
	}
	body, err := normalizeText(text)
	if err != nil {
		return nil, err
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	existing, err := service.repository.Get(context, id)
	if err != nil {
		return nil, err
	}
	if !CanEdit(principal, existing) {
		return nil, apperr.Forbidden("You can only edit your own comments")
	}

	updated, err := service.repository.UpdateText(context, id, body, service.timestamp())
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_edited", slog.Int64("comment_id", id))
	return service.present(updated), nil
}

// Delete removes a comment and its replies. Authors may delete their own
// comments; admins may delete any.
func (service *Service) Delete(context context.Context, principal *sec.Principal, id int64) error {
	if principal == nil {
		return errSignInRequired
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	existing, err := service.repository.Get(context, id)
	if err != nil {
		return err
	}
	if !CanDelete(principal, existing) {
		return apperr.Forbidden("You do not have permission to delete this comment")
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "comment_deleted",
		slog.Int64("comment_id", id),
		slog.String("deleted_by", principal.ID),
		slog.Bool("moderated", existing.Author.ID != principal.ID),
	)
	return nil
}

// AddReply appends an admin reply to a comment and returns the updated parent.
func (service *Service) AddReply(context context.Context, principal *sec.Principal, commentID int64, text string) (*Comment, error) {
	if principal == nil {
		return nil, errSignInRequired
	}
	if !CanReply(principal) {
		return nil, apperr.Forbidden("Only the admin can reply to comments")
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	if _, err := service.repository.Get(context, commentID); err != nil {
		return nil, err
	}
	body, err := normalizeText(text)
	if err != nil {
		return nil, err
	}

	now := service.timestamp()
	id, err := service.nextID(context, now)
	if err != nil {
		return nil, err
	}

	author := authorFrom(principal)
	author.IsAdmin = true
	updated, err := service.repository.AppendReply(context, commentID, Reply{
		ID:        id,
		Text:      body,
		CreatedAt: now,
		Author:    author,
	})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_reply_added",
		slog.Int64("comment_id", commentID),
		slog.Int64("reply_id", id),
	)
	return service.present(updated), nil
}

// # Helpers

var errSignInRequired = apperr.Unauthorized("You must sign in with Discord")

// present copies a stored comment and recomputes every admin badge.
func (service *Service) present(stored *Comment) *Comment {
	comment := stored.clone()
	comment.Author.IsAdmin = service.admins.Contains(comment.Author.ID)
	if comment.Replies == nil {
		comment.Replies = []Reply{}
	}
	for index := range comment.Replies {
		comment.Replies[index].Author.IsAdmin = service.admins.Contains(comment.Replies[index].Author.ID)
	}
	return comment
}

// timestamp is the current time in UTC at millisecond precision, matching
// what the JSON encoding round-trips.
func (service *Service) timestamp() time.Time {
	return service.now().UTC().Truncate(time.Millisecond)
}

// nextID must be called with the mutex held.
func (service *Service) nextID(context context.Context, now time.Time) (int64, error) {
	if !service.ids.seeded {
		highest, err := service.repository.MaxID(context)
		if err != nil {
			return 0, err
		}
		service.ids.seed(highest)
	}
	return service.ids.next(now), nil
}

func normalizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", validate.RequiredError("text", "Comment cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxTextLength {
		return "", (&validate.Validator{}).MaxLen("text", trimmed, MaxTextLength).Err()
	}
	return trimmed, nil
}
