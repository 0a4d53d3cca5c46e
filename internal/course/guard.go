// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

// # Ownership Guard

// CanAccess reports whether requesterID may read or mutate c.
// Only the owning educator can; there is no delegation or role override.
func CanAccess(c *Course, requesterID string) bool {
	return c != nil && requesterID != "" && c.EducatorID == requesterID
}
