package schema

// UserFollowTable represents the 'users.follow' table.
// One row is a directed edge: FollowerID follows FollowingID.
type UserFollowTable struct {
	Table       string
	FollowerID  string
	FollowingID string
	CreatedAt   string
}

// UserFollow is the schema definition for users.follow
var UserFollow = UserFollowTable{
	Table:       "users.follow",
	FollowerID:  "followerid",
	FollowingID: "followingid",
	CreatedAt:   "createdat",
}

// Peer returns the edge column opposite to column.
func (t UserFollowTable) Peer(column string) string {
	if column == t.FollowerID {
		return t.FollowingID
	}
	return t.FollowerID
}
