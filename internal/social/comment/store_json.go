// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"path/filepath"
	"time"

	"github.com/taibuivan/portfolio/internal/platform/apperr"
	"github.com/taibuivan/portfolio/internal/platform/docstore"
)

// FileName is the document holding the wall inside the comments data directory.
const FileName = "comments.json"

// JSONRepository keeps the whole wall in one JSON array rewritten on every mutation.
type JSONRepository struct {
	document *docstore.Document[[]*Comment]
}

// NewJSONRepository stores comments in dir/comments.json.
func NewJSONRepository(dir string) *JSONRepository {
	return &JSONRepository{
		document: docstore.New(filepath.Join(dir, FileName), func() []*Comment { return []*Comment{} }),
	}
}

// Path returns the backing file.
func (repository *JSONRepository) Path() string {
	return repository.document.Path()
}

func (repository *JSONRepository) List(_ context.Context) ([]*Comment, error) {
	comments, err := repository.document.Load()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return repair(comments), nil
}

func (repository *JSONRepository) Get(_ context.Context, id int64) (*Comment, error) {
	comments, err := repository.document.Load()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	index := indexOf(comments, id)
	if index < 0 {
		return nil, apperr.NotFound("Comment")
	}
	return repair(comments)[index], nil
}

func (repository *JSONRepository) Insert(_ context.Context, comment *Comment) error {
	_, err := repository.document.Update(func(comments *[]*Comment) error {
		*comments = append(repair(*comments), comment)
		return nil
	})
	return wrapUpdate(err)
}

func (repository *JSONRepository) UpdateText(_ context.Context, id int64, text string, updatedAt time.Time) (*Comment, error) {
	var updated *Comment
	_, err := repository.document.Update(func(comments *[]*Comment) error {
		*comments = repair(*comments)
		index := indexOf(*comments, id)
		if index < 0 {
			return apperr.NotFound("Comment")
		}
		updated = (*comments)[index]
		updated.Text = text
		updated.UpdatedAt = &updatedAt
		return nil
	})
	if err != nil {
		return nil, wrapUpdate(err)
	}
	return updated, nil
}

func (repository *JSONRepository) Delete(_ context.Context, id int64) error {
	_, err := repository.document.Update(func(comments *[]*Comment) error {
		index := indexOf(*comments, id)
		if index < 0 {
			return apperr.NotFound("Comment")
		}
		// Replies are embedded, so they leave in the same write.
		*comments = append((*comments)[:index], (*comments)[index+1:]...)
		return nil
	})
	return wrapUpdate(err)
}

func (repository *JSONRepository) AppendReply(_ context.Context, commentID int64, reply Reply) (*Comment, error) {
	var updated *Comment
	_, err := repository.document.Update(func(comments *[]*Comment) error {
		*comments = repair(*comments)
		index := indexOf(*comments, commentID)
		if index < 0 {
			return apperr.NotFound("Comment")
		}
		updated = (*comments)[index]
		updated.Replies = append(updated.Replies, reply)
		return nil
	})
	if err != nil {
		return nil, wrapUpdate(err)
	}
	return updated, nil
}

func (repository *JSONRepository) MaxID(_ context.Context) (int64, error) {
	comments, err := repository.document.Load()
	if err != nil {
		return 0, apperr.Internal(err)
	}
	var highest int64
	for _, comment := range comments {
		if comment == nil {
			continue
		}
		highest = max(highest, comment.ID)
		for _, reply := range comment.Replies {
			highest = max(highest, reply.ID)
		}
	}
	return highest, nil
}

// repair drops null entries and guarantees Replies is never nil, so older
// files without a replies field serialise as [] instead of null.
func repair(comments []*Comment) []*Comment {
	repaired := make([]*Comment, 0, len(comments))
	for _, comment := range comments {
		if comment == nil {
			continue
		}
		if comment.Replies == nil {
			comment.Replies = []Reply{}
		}
		repaired = append(repaired, comment)
	}
	return repaired
}

func indexOf(comments []*Comment, id int64) int {
	for index, comment := range comments {
		if comment != nil && comment.ID == id {
			return index
		}
	}
	return -1
}

// wrapUpdate keeps domain errors raised inside a mutation and hides I/O failures.
func wrapUpdate(err error) error {
	if err == nil || apperr.IsAppError(err) {
		return err
	}
	return apperr.Internal(err)
}
