// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole is the role metadata the identity provider attaches to a user.
type UserRole string

const (
	// Platform operators
	RoleAdmin UserRole = "admin"

	// Can publish and manage their own courses
	RoleEducator UserRole = "educator"

	// Default role; no role metadata at all is treated the same
	RoleStudent UserRole = "student"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleEducator:
		return 20
	case RoleStudent, "":
		return 10
	default:
		return 0
	}
}
