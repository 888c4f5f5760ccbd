// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// UserRole is the role claim carried in access tokens.
type UserRole string

const (
	// RoleAdmin can run series reconciliation for any author.
	RoleAdmin UserRole = "admin"

	// RoleMember is assigned at registration.
	RoleMember UserRole = "member"
)

// rank orders roles. Unknown roles rank below every known one.
var rank = map[UserRole]int{
	RoleMember: 1,
	RoleAdmin:  2,
}

// AtLeast reports whether r grants everything target grants.
func (r UserRole) AtLeast(target UserRole) bool {
	return rank[r] >= rank[target] && rank[r] > 0
}

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	_, known := rank[r]
	return known
}
