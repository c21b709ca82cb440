package schema

// SocialCommentTable represents the 'social.comment' table
type SocialCommentTable struct {
	Table           string
	ID              string
	Body            string
	AuthorID        string
	AuthorName      string
	AuthorAvatarURL string
	AuthorIsAdmin   string
	CreatedAt       string
	UpdatedAt       string
}

// SocialComment is the schema definition for social.comment
var SocialComment = SocialCommentTable{
	Table:           "social.comment",
	ID:              "id",
	Body:            "body",
	AuthorID:        "authorid",
	AuthorName:      "authorname",
	AuthorAvatarURL: "authoravatarurl",
	AuthorIsAdmin:   "authorisadmin",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}
