// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package coursetest provides in-memory implementations of the course package's
// collaborators for tests.
package coursetest

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/coursedesk/internal/course"
	"github.com/taibuivan/coursedesk/internal/platform/apperr"
)

// # Repository

// Purchase is a row of the purchase workflow's table.
type Purchase struct {
	CourseID  string
	UserID    string
	Amount    float64
	Status    string
	CreatedAt time.Time
}

// Repository is an in-memory [course.Repository].
type Repository struct {
	mu        sync.Mutex
	courses   map[string]*course.Course
	students  map[string]course.StudentProfile
	purchases []Purchase
	listCalls int
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{
		courses:  map[string]*course.Course{},
		students: map[string]course.StudentProfile{},
	}
}

// Clone deep-copies a course.
func Clone(c *course.Course) *course.Course {
	copied := *c
	copied.Chapters = make([]course.Chapter, len(c.Chapters))
	for i, chapter := range c.Chapters {
		copied.Chapters[i] = chapter
		copied.Chapters[i].Lectures = slices.Clone(chapter.Lectures)
	}
	copied.EnrolledStudents = slices.Clone(c.EnrolledStudents)
	if c.ThumbnailURL != nil {
		url := *c.ThumbnailURL
		copied.ThumbnailURL = &url
	}
	return &copied
}

// Seed stores a course as-is, enrollments included.
func (repository *Repository) Seed(c *course.Course) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.courses[c.ID] = Clone(c)
}

// Get returns a copy of a stored course.
func (repository *Repository) Get(id string) (*course.Course, bool) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	c, ok := repository.courses[id]
	if !ok {
		return nil, false
	}
	return Clone(c), true
}

// Count returns the number of stored courses.
func (repository *Repository) Count() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.courses)
}

// ListCalls returns how many times ListByEducator ran.
func (repository *Repository) ListCalls() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.listCalls
}

// AddStudent registers a user profile.
func (repository *Repository) AddStudent(student course.StudentProfile) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.students[student.ID] = student
}

// Student returns a registered profile.
func (repository *Repository) Student(id string) course.StudentProfile {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.students[id]
}

// AddPurchase records a purchase.
func (repository *Repository) AddPurchase(purchase Purchase) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.purchases = append(repository.purchases, purchase)
}

// FindByID implements [course.Repository].
func (repository *Repository) FindByID(_ context.Context, id string) (*course.Course, error) {
	if c, ok := repository.Get(id); ok {
		return c, nil
	}
	return nil, apperr.NotFound("Course")
}

// ListByEducator implements [course.Repository], newest first.
func (repository *Repository) ListByEducator(_ context.Context, educatorID string) ([]*course.Course, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.listCalls++

	var courses []*course.Course
	for _, c := range repository.courses {
		if c.EducatorID == educatorID {
			courses = append(courses, Clone(c))
		}
	}
	slices.SortFunc(courses, func(a, b *course.Course) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return courses, nil
}

// Create implements [course.Repository].
func (repository *Repository) Create(_ context.Context, c *course.Course) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	repository.courses[c.ID] = Clone(c)
	return nil
}

// Replace implements [course.Repository]. Owner and enrollments are never overwritten.
func (repository *Repository) Replace(_ context.Context, c *course.Course) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored, ok := repository.courses[c.ID]
	if !ok {
		return apperr.NotFound("Course")
	}

	replaced := Clone(c)
	replaced.EducatorID = stored.EducatorID
	replaced.EnrolledStudents = stored.EnrolledStudents
	replaced.CreatedAt = stored.CreatedAt
	replaced.UpdatedAt = time.Now()
	repository.courses[c.ID] = replaced
	c.UpdatedAt = replaced.UpdatedAt
	return nil
}

// Delete implements [course.Repository].
func (repository *Repository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	c, ok := repository.courses[id]
	if !ok {
		return course.ErrCourseNotFound
	}
	if len(c.EnrolledStudents) > 0 {
		return course.ErrHasEnrollments
	}
	delete(repository.courses, id)
	return nil
}

// SumCompletedPurchases implements [course.Repository].
func (repository *Repository) SumCompletedPurchases(_ context.Context, courseIDs []string) (float64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	total := 0.0
	for _, p := range repository.purchases {
		if p.Status == "completed" && slices.Contains(courseIDs, p.CourseID) {
			total += p.Amount
		}
	}
	return total, nil
}

// FindStudents implements [course.Repository].
func (repository *Repository) FindStudents(_ context.Context, studentIDs []string) (map[string]course.StudentProfile, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	found := map[string]course.StudentProfile{}
	for _, id := range studentIDs {
		if student, ok := repository.students[id]; ok {
			found[id] = student
		}
	}
	return found, nil
}

// ListCompletedPurchases implements [course.Repository], newest first.
func (repository *Repository) ListCompletedPurchases(_ context.Context, courseIDs []string, limit, offset int) ([]*course.Enrollment, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var matching []*course.Enrollment
	for _, p := range repository.purchases {
		if p.Status != "completed" || !slices.Contains(courseIDs, p.CourseID) {
			continue
		}
		title := ""
		if c, ok := repository.courses[p.CourseID]; ok {
			title = c.Title
		}
		matching = append(matching, &course.Enrollment{
			Student:      repository.students[p.UserID],
			CourseTitle:  title,
			PurchaseDate: p.CreatedAt,
		})
	}
	slices.SortFunc(matching, func(a, b *course.Enrollment) int { return b.PurchaseDate.Compare(a.PurchaseDate) })

	total := len(matching)
	if offset < 0 || offset >= total {
		return []*course.Enrollment{}, total, nil
	}
	return matching[offset:min(offset+limit, total)], total, nil
}

// # Collaborators

// ImageHost records uploads and serves them from https://cdn.test/.
type ImageHost struct {
	mu           sync.Mutex
	Keys         []string
	ContentTypes []string
	Contents     [][]byte
	Err          error
}

// Upload implements [course.ImageHost].
func (host *ImageHost) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) (string, error) {
	if host.Err != nil {
		return "", host.Err
	}
	content, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	host.mu.Lock()
	defer host.mu.Unlock()
	host.Keys = append(host.Keys, key)
	host.ContentTypes = append(host.ContentTypes, contentType)
	host.Contents = append(host.Contents, content)
	return "https://cdn.test/" + key, nil
}

// RoleGranter records granted users.
type RoleGranter struct {
	Granted []string
	Err     error
}

// GrantEducatorRole implements [course.RoleGranter].
func (granter *RoleGranter) GrantEducatorRole(_ context.Context, userID string) error {
	if granter.Err != nil {
		return granter.Err
	}
	granter.Granted = append(granter.Granted, userID)
	return nil
}

// Cache is an in-memory [course.DashboardCache] without expiry.
type Cache struct {
	mu          sync.Mutex
	dashboards  map[string]*course.Dashboard
	Invalidated []string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{dashboards: map[string]*course.Dashboard{}}
}

// Get implements [course.DashboardCache].
func (cache *Cache) Get(_ context.Context, educatorID string) (*course.Dashboard, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return cache.dashboards[educatorID], nil
}

// Set implements [course.DashboardCache].
func (cache *Cache) Set(_ context.Context, educatorID string, dashboard *course.Dashboard) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.dashboards[educatorID] = dashboard
	return nil
}

// Invalidate implements [course.DashboardCache].
func (cache *Cache) Invalidate(_ context.Context, educatorID string) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	delete(cache.dashboards, educatorID)
	cache.Invalidated = append(cache.Invalidated, educatorID)
	return nil
}
