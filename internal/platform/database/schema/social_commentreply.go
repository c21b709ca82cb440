package schema

// SocialCommentReplyTable represents the 'social.commentreply' table
type SocialCommentReplyTable struct {
	Table           string
	ID              string
	CommentID       string
	Body            string
	AuthorID        string
	AuthorName      string
	AuthorAvatarURL string
	AuthorIsAdmin   string
	CreatedAt       string
}

// SocialCommentReply is the schema definition for social.commentreply
var SocialCommentReply = SocialCommentReplyTable{
	Table:           "social.commentreply",
	ID:              "id",
	CommentID:       "commentid",
	Body:            "body",
	AuthorID:        "authorid",
	AuthorName:      "authorname",
	AuthorAvatarURL: "authoravatarurl",
	AuthorIsAdmin:   "authorisadmin",
	CreatedAt:       "createdat",
}
