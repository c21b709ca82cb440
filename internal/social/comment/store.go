// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"time"
)

// Repository is the durable storage of the comment wall.
//
// Every method is one atomic write: a concurrent reader observes the state
// before or after it, never in between. Methods that target a missing comment
// return an apperr NotFound error. Ordering of [Repository.List] is not
// guaranteed; the service sorts.
type Repository interface {
	List(context context.Context) ([]*Comment, error)
	Get(context context.Context, id int64) (*Comment, error)
	Insert(context context.Context, comment *Comment) error
	UpdateText(context context.Context, id int64, text string, updatedAt time.Time) (*Comment, error)
	Delete(context context.Context, id int64) error
	AppendReply(context context.Context, commentID int64, reply Reply) (*Comment, error)

	// MaxID returns the largest comment or reply id in storage, or 0 when empty.
	MaxID(context context.Context) (int64, error)
}
