package schema

// CorePostTable represents the 'core.post' table
type CorePostTable struct {
	Table            string
	ID               string
	AuthorID         string
	SeriesID         string
	Title            string
	Content          string
	Description      string
	Tags             string
	WordCount        string
	IsOriginal       string
	IsAdultContent   string
	IsAI             string
	ViewCounter      string
	GoodCounter      string
	BookShelfCounter string
	CreatedAt        string
	UpdatedAt        string
}

// CorePost is the schema definition for core.post
var CorePost = CorePostTable{
	Table:            "core.post",
	ID:               "id",
	AuthorID:         "authorid",
	SeriesID:         "seriesid",
	Title:            "title",
	Content:          "content",
	Description:      "description",
	Tags:             "tags",
	WordCount:        "wordcount",
	IsOriginal:       "isoriginal",
	IsAdultContent:   "isadultcontent",
	IsAI:             "isai",
	ViewCounter:      "viewcounter",
	GoodCounter:      "goodcounter",
	BookShelfCounter: "bookshelfcounter",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
}

// Columns returns all standard column names
func (t CorePostTable) Columns() []string {
	return []string{t.ID, t.AuthorID, t.SeriesID, t.Title, t.Content, t.Description, t.Tags, t.WordCount, t.IsOriginal, t.IsAdultContent, t.IsAI, t.ViewCounter, t.GoodCounter, t.BookShelfCounter, t.CreatedAt, t.UpdatedAt}
}
