package schema

// CoreSeriesTable represents the 'core.series' table
type CoreSeriesTable struct {
	Table          string
	ID             string
	AuthorID       string
	Title          string
	Description    string
	Tags           string
	IsOriginal     string
	IsAdultContent string
	AIGenerated    string
	Episodes       string
	CreatedAt      string
	UpdatedAt      string
}

// CoreSeries is the schema definition for core.series
var CoreSeries = CoreSeriesTable{
	Table:          "core.series",
	ID:             "id",
	AuthorID:       "authorid",
	Title:          "title",
	Description:    "description",
	Tags:           "tags",
	IsOriginal:     "isoriginal",
	IsAdultContent: "isadultcontent",
	AIGenerated:    "aigenerated",
	Episodes:       "episodes",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t CoreSeriesTable) Columns() []string {
	return []string{t.ID, t.AuthorID, t.Title, t.Description, t.Tags, t.IsOriginal, t.IsAdultContent, t.AIGenerated, t.Episodes, t.CreatedAt, t.UpdatedAt}
}
