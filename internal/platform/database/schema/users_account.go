package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Email       string
	Password    string
	Nickname    string
	Icon        string
	DateOfBirth string
	Gender      string
	Description string
	XLink       string
	PixivLink   string
	OtherLink   string
	Role        string
	CreatedAt   string
	UpdatedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Email:       "email",
	Password:    "passwordhash",
	Nickname:    "nickname",
	Icon:        "icon",
	DateOfBirth: "dob",
	Gender:      "gender",
	Description: "description",
	XLink:       "xlink",
	PixivLink:   "pixivlink",
	OtherLink:   "otherlink",
	Role:        "role",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Email, t.Password, t.Nickname, t.Icon, t.DateOfBirth, t.Gender, t.Description, t.XLink, t.PixivLink, t.OtherLink, t.Role, t.CreatedAt, t.UpdatedAt}
}
