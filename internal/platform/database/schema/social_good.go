package schema

// SocialGoodTable represents the 'social.good' table
type SocialGoodTable struct {
	Table     string
	UserID    string
	PostID    string
	CreatedAt string
}

// SocialGood is the schema definition for social.good
var SocialGood = SocialGoodTable{
	Table:     "social.good",
	UserID:    "userid",
	PostID:    "postid",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t SocialGoodTable) Columns() []string {
	return []string{t.UserID, t.PostID, t.CreatedAt}
}
