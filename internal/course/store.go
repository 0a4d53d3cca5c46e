// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

import (
	"context"
	"io"
)

// # Persistence Contracts

// Repository is the course document store.
type Repository interface {
	FindByID(context context.Context, id string) (*Course, error)
	ListByEducator(context context.Context, educatorID string) ([]*Course, error)
	Create(context context.Context, course *Course) error

	// Replace overwrites the editable fields and thumbnail of an existing course.
	// The owner and enrollments are never written.
	Replace(context context.Context, course *Course) error

	// Delete removes a course that has no enrolled students.
	// It returns ErrHasEnrollments if a purchase landed in between.
	Delete(context context.Context, id string) error

	SumCompletedPurchases(context context.Context, courseIDs []string) (float64, error)
	FindStudents(context context.Context, studentIDs []string) (map[string]StudentProfile, error)
	ListCompletedPurchases(context context.Context, courseIDs []string, limit, offset int) ([]*Enrollment, int, error)
}

// DashboardCache holds recently computed dashboards per educator.
type DashboardCache interface {
	// Get returns (nil, nil) on a miss.
	Get(context context.Context, educatorID string) (*Dashboard, error)
	Set(context context.Context, educatorID string, dashboard *Dashboard) error
	Invalidate(context context.Context, educatorID string) error
}

// # External Collaborators

// ImageHost stores thumbnail binaries and returns their public URL.
type ImageHost interface {
	Upload(context context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// RoleGranter updates role metadata at the identity provider.
type RoleGranter interface {
	GrantEducatorRole(context context.Context, userID string) error
}
