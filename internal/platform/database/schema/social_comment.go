package schema

// SocialCommentTable represents the 'social.comment' table
type SocialCommentTable struct {
	Table     string
	ID        string
	PostID    string
	UserID    string
	Text      string
	CreatedAt string
}

// SocialComment is the schema definition for social.comment
var SocialComment = SocialCommentTable{
	Table:     "social.comment",
	ID:        "id",
	PostID:    "postid",
	UserID:    "userid",
	Text:      "text",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t SocialCommentTable) Columns() []string {
	return []string{t.ID, t.PostID, t.UserID, t.Text, t.CreatedAt}
}
