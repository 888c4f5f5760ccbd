package schema

// LibraryBookshelfTable represents the 'library.bookshelf' table
type LibraryBookshelfTable struct {
	Table     string
	UserID    string
	PostID    string
	CreatedAt string
}

// LibraryBookshelf is the schema definition for library.bookshelf
var LibraryBookshelf = LibraryBookshelfTable{
	Table:     "library.bookshelf",
	UserID:    "userid",
	PostID:    "postid",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t LibraryBookshelfTable) Columns() []string {
	return []string{t.UserID, t.PostID, t.CreatedAt}
}
