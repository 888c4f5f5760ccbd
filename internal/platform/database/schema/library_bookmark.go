package schema

// LibraryBookmarkTable represents the 'library.bookmark' table
type LibraryBookmarkTable struct {
	Table     string
	UserID    string
	PostID    string
	Position  string
	UpdatedAt string
}

// LibraryBookmark is the schema definition for library.bookmark
var LibraryBookmark = LibraryBookmarkTable{
	Table:     "library.bookmark",
	UserID:    "userid",
	PostID:    "postid",
	Position:  "position",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t LibraryBookmarkTable) Columns() []string {
	return []string{t.UserID, t.PostID, t.Position, t.UpdatedAt}
}
