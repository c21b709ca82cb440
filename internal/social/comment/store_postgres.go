// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/portfolio/internal/platform/apperr"
	"github.com/taibuivan/portfolio/internal/platform/database/schema"
	"github.com/taibuivan/portfolio/internal/platform/dberr"
)

// PostgresRepository stores comments in social.comment and replies in
// social.commentreply. Deleting a comment cascades to its replies.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	commentColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		schema.SocialComment.ID, schema.SocialComment.Body, schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
		schema.SocialComment.AuthorID, schema.SocialComment.AuthorName, schema.SocialComment.AuthorAvatarURL, schema.SocialComment.AuthorIsAdmin,
	)
	replyColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		schema.SocialCommentReply.ID, schema.SocialCommentReply.CommentID, schema.SocialCommentReply.Body, schema.SocialCommentReply.CreatedAt,
		schema.SocialCommentReply.AuthorID, schema.SocialCommentReply.AuthorName, schema.SocialCommentReply.AuthorAvatarURL, schema.SocialCommentReply.AuthorIsAdmin,
	)
)

func (repository *PostgresRepository) List(context context.Context) ([]*Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, commentColumns, schema.SocialComment.Table)
	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "list_comments")
	}
	comments, err := pgx.CollectRows(rows, scanComment)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "scan_comments")
	}

	replyQuery := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC, %s ASC`,
		replyColumns, schema.SocialCommentReply.Table,
		schema.SocialCommentReply.CreatedAt, schema.SocialCommentReply.ID)
	if err := repository.attachReplies(context, comments, replyQuery); err != nil {
		return nil, err
	}
	return comments, nil
}

func (repository *PostgresRepository) Get(context context.Context, id int64) (*Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		commentColumns, schema.SocialComment.Table, schema.SocialComment.ID)
	rows, err := repository.db.Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "get_comment")
	}
	comment, err := pgx.CollectExactlyOneRow(rows, scanComment)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "scan_comment")
	}

	replyQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC, %s ASC`,
		replyColumns, schema.SocialCommentReply.Table, schema.SocialCommentReply.CommentID,
		schema.SocialCommentReply.CreatedAt, schema.SocialCommentReply.ID)
	if err := repository.attachReplies(context, []*Comment{comment}, replyQuery, id); err != nil {
		return nil, err
	}
	return comment, nil
}

func (repository *PostgresRepository) Insert(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.SocialComment.Table, commentColumns)
	_, err := repository.db.Exec(context, query,
		comment.ID, comment.Text, comment.CreatedAt, comment.UpdatedAt,
		comment.Author.ID, comment.Author.DisplayName, comment.Author.AvatarURL, comment.Author.IsAdmin,
	)
	return dberr.Wrap(err, "Comment", "insert_comment")
}

func (repository *PostgresRepository) UpdateText(context context.Context, id int64, text string, updatedAt time.Time) (*Comment, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.SocialComment.Table, schema.SocialComment.Body, schema.SocialComment.UpdatedAt, schema.SocialComment.ID)
	tag, err := repository.db.Exec(context, query, id, text, updatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "update_comment")
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("Comment")
	}
	return repository.Get(context, id)
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialComment.Table, schema.SocialComment.ID)
	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Comment", "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}

func (repository *PostgresRepository) AppendReply(context context.Context, commentID int64, reply Reply) (*Comment, error) {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.SocialCommentReply.Table, replyColumns)
	_, err := repository.db.Exec(context, query,
		reply.ID, commentID, reply.Text, reply.CreatedAt,
		reply.Author.ID, reply.Author.DisplayName, reply.Author.AvatarURL, reply.Author.IsAdmin,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "insert_reply")
	}
	return repository.Get(context, commentID)
}

func (repository *PostgresRepository) MaxID(context context.Context) (int64, error) {
	query := fmt.Sprintf(`SELECT GREATEST(
		(SELECT COALESCE(MAX(%s), 0) FROM %s),
		(SELECT COALESCE(MAX(%s), 0) FROM %s))`,
		schema.SocialComment.ID, schema.SocialComment.Table,
		schema.SocialCommentReply.ID, schema.SocialCommentReply.Table)
	var highest int64
	if err := repository.db.QueryRow(context, query).Scan(&highest); err != nil {
		return 0, dberr.Wrap(err, "Comment", "max_comment_id")
	}
	return highest, nil
}

func (repository *PostgresRepository) attachReplies(context context.Context, comments []*Comment, query string, args ...any) error {
	byID := make(map[int64]*Comment, len(comments))
	for _, comment := range comments {
		comment.Replies = []Reply{}
		byID[comment.ID] = comment
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, "Comment", "list_replies")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			reply     Reply
			commentID int64
		)
		if err := rows.Scan(
			&reply.ID, &commentID, &reply.Text, &reply.CreatedAt,
			&reply.Author.ID, &reply.Author.DisplayName, &reply.Author.AvatarURL, &reply.Author.IsAdmin,
		); err != nil {
			return dberr.Wrap(err, "Comment", "scan_reply")
		}
		if parent, ok := byID[commentID]; ok {
			parent.Replies = append(parent.Replies, reply)
		}
	}
	if err := rows.Err(); err != nil {
		return dberr.Wrap(err, "Comment", "iterate_replies")
	}
	return nil
}

func scanComment(row pgx.CollectableRow) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(
		&comment.ID, &comment.Text, &comment.CreatedAt, &comment.UpdatedAt,
		&comment.Author.ID, &comment.Author.DisplayName, &comment.Author.AvatarURL, &comment.Author.IsAdmin,
	)
	return comment, err
}
