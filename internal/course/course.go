// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package course manages courses authored by educators.

A course is a single document: metadata plus a nested content tree of chapters and
lectures. The tree is always submitted and persisted whole; there is no partial patch.

# Core Responsibility

  - Model: [Course], [Chapter], [Lecture] and the submitted [CourseData] payload.
  - Ownership: [CanAccess] gates every course-scoped read and mutation.
  - Sync: [Service] and [Handler] expose fetch-for-edit, create, update, delete,
    list, dashboard and enrolled-student queries under /api/v1/educator.

Enrollment is owned by the purchase workflow. Nothing in this package appends to
[Course.EnrolledStudents].
*/
package course

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/coursedesk/internal/platform/apperr"
	"github.com/taibuivan/coursedesk/internal/platform/validate"
)

// # Core Entities

// Lecture is a single video unit inside a chapter.
type Lecture struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Duration      float64 `json:"duration"` // minutes
	URL           string  `json:"url"`
	IsPreviewFree bool    `json:"is_preview_free"`
	Order         int     `json:"order"`
}

// Chapter groups lectures. Order is unique within the course but not contiguous.
type Chapter struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	Collapsed bool      `json:"collapsed"` // UI only
	Lectures  []Lecture `json:"lectures"`
}

// Course is the persisted course document.
type Course struct {
	ID               string    `json:"id"` // UUIDv7
	Title            string    `json:"title"`
	Description      string    `json:"description"` // rich text markup
	Price            float64   `json:"price"`
	Discount         int       `json:"discount"` // percent, 0..100
	ThumbnailURL     *string   `json:"thumbnail_url"`
	EducatorID       string    `json:"educator_id"`
	Chapters         []Chapter `json:"chapters"`
	EnrolledStudents []string  `json:"enrolled_students"`
	IsPublished      bool      `json:"is_published"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CourseData is the editable part of a course as submitted by the editor.
type CourseData struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Discount    int       `json:"discount"`
	Chapters    []Chapter `json:"chapters"`
}

// apply replaces the editable fields of c with data, leaving identity,
// ownership, thumbnail and enrollments untouched.
func (c *Course) apply(data CourseData) {
	c.Title = data.Title
	c.Description = data.Description
	c.Price = data.Price
	c.Discount = data.Discount
	c.Chapters = data.Chapters
	if c.Chapters == nil {
		c.Chapters = []Chapter{}
	}
}

// EstimatedEarnings is the gross revenue implied by the current enrollment count at
// the current discounted price, rounded down to a whole currency unit.
func (c *Course) EstimatedEarnings() int {
	discounted := c.Price - float64(c.Discount)*c.Price/100
	return int(math.Floor(float64(len(c.EnrolledStudents)) * discounted))
}

// # Read Models

// CourseSummary is a list-mine row: the course plus its estimated earnings.
type CourseSummary struct {
	Course
	EstimatedEarnings int `json:"estimated_earnings"`
}

// StudentProfile is the public part of a user record.
type StudentProfile struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url"`
}

// EnrolledStudent pairs a course with one of its students.
type EnrolledStudent struct {
	CourseTitle string         `json:"course_title"`
	Student     StudentProfile `json:"student"`
}

// Dashboard aggregates an educator's courses.
type Dashboard struct {
	TotalEarnings        float64           `json:"total_earnings"`
	TotalCourses         int               `json:"total_courses"`
	EnrolledStudentsData []EnrolledStudent `json:"enrolled_students_data"`
}

// Enrollment is a completed purchase of one of the educator's courses.
type Enrollment struct {
	Student      StudentProfile `json:"student"`
	CourseTitle  string         `json:"course_title"`
	PurchaseDate time.Time      `json:"purchase_date"`
}

// Thumbnail is an uploaded image ready to be pushed to the image host.
type Thumbnail struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// # Errors

var (
	// ErrCourseNotFound is returned both for missing courses and for courses the
	// requester does not own.
	ErrCourseNotFound = apperr.NotFound("Course")

	// ErrThumbnailMissing rejects a create without an attached image.
	ErrThumbnailMissing = apperr.ValidationError("Thumbnail Not Attached")

	// ErrHasEnrollments blocks deleting a course that students have bought.
	ErrHasEnrollments = apperr.Conflict("Cannot delete course with enrolled students")
)

// # Validation

// Field identifiers used in validation details.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldDiscount    = "discount"
	FieldChapters    = "chapters"
	FieldImage       = "image"
)

// MaxPrice is the largest price the course store holds (12 digits, 2 of them decimals).
const MaxPrice = 9_999_999_999.99

const (
	maxTitleLength        = 200
	maxDescriptionLength  = 50000
	maxChapters           = 500
	maxLecturesPerChapter = 500
)

/*
ValidateData checks a submitted course payload.

Rules:
  - Non-empty titles for the course, every chapter and every lecture.
  - Price and durations are finite and non-negative; discount is within [0, 100].
  - Price is at most [MaxPrice] with at most two decimal places.
  - Chapter IDs and orders are unique within the course; lecture IDs and orders are
    unique within their chapter; every order is positive.
  - Lecture URLs, when present, are absolute http(s) URLs.

Returns:
  - error: apperr VALIDATION_ERROR with one detail per violation, or nil
*/
func ValidateData(data CourseData) error {
	validator := &validate.Validator{}

	validator.Required(FieldTitle, data.Title).MaxLen(FieldTitle, data.Title, maxTitleLength)
	validator.MaxLen(FieldDescription, data.Description, maxDescriptionLength)
	validator.NonNegative(FieldPrice, data.Price)
	validator.Custom(FieldPrice, data.Price > MaxPrice, fmt.Sprintf("Must be at most %.2f", MaxPrice))
	validator.Custom(FieldPrice, !HasCentPrecision(data.Price), "Must have at most 2 decimal places")
	validator.Range(FieldDiscount, data.Discount, 0, 100)
	validator.Custom(FieldChapters, len(data.Chapters) > maxChapters, fmt.Sprintf("Maximum %d chapters", maxChapters))

	chapterIDs := make(map[string]struct{}, len(data.Chapters))
	chapterOrders := make(map[int]struct{}, len(data.Chapters))

	for i, chapter := range data.Chapters {
		prefix := fmt.Sprintf("chapters[%d]", i)

		validator.Required(prefix+".id", chapter.ID)
		validator.Required(prefix+".title", chapter.Title).MaxLen(prefix+".title", chapter.Title, maxTitleLength)
		validator.Custom(prefix+".order", chapter.Order < 1, "Must be a positive integer")

		_, duplicateID := chapterIDs[chapter.ID]
		validator.Custom(prefix+".id", chapter.ID != "" && duplicateID, "Duplicate chapter id")
		chapterIDs[chapter.ID] = struct{}{}

		_, duplicateOrder := chapterOrders[chapter.Order]
		validator.Custom(prefix+".order", chapter.Order >= 1 && duplicateOrder, "Duplicate chapter order")
		chapterOrders[chapter.Order] = struct{}{}

		validateLectures(validator, prefix, chapter.Lectures)
	}

	return validator.Err()
}

// HasCentPrecision reports whether price has at most two decimal places in its
// shortest decimal form. Non-finite values report true; range checks reject them.
func HasCentPrecision(price float64) bool {
	formatted := strconv.FormatFloat(price, 'f', -1, 64)
	_, decimals, found := strings.Cut(formatted, ".")
	return !found || len(decimals) <= 2
}

func validateLectures(validator *validate.Validator, chapterPrefix string, lectures []Lecture) {
	validator.Custom(chapterPrefix+".lectures", len(lectures) > maxLecturesPerChapter,
		fmt.Sprintf("Maximum %d lectures", maxLecturesPerChapter))

	lectureIDs := make(map[string]struct{}, len(lectures))
	lectureOrders := make(map[int]struct{}, len(lectures))

	for j, lecture := range lectures {
		prefix := fmt.Sprintf("%s.lectures[%d]", chapterPrefix, j)

		validator.Required(prefix+".id", lecture.ID)
		validator.Required(prefix+".title", lecture.Title).MaxLen(prefix+".title", lecture.Title, maxTitleLength)
		validator.NonNegative(prefix+".duration", lecture.Duration)
		validator.URL(prefix+".url", lecture.URL)
		validator.Custom(prefix+".order", lecture.Order < 1, "Must be a positive integer")

		_, duplicateID := lectureIDs[lecture.ID]
		validator.Custom(prefix+".id", lecture.ID != "" && duplicateID, "Duplicate lecture id")
		lectureIDs[lecture.ID] = struct{}{}

		_, duplicateOrder := lectureOrders[lecture.Order]
		validator.Custom(prefix+".order", lecture.Order >= 1 && duplicateOrder, "Duplicate lecture order")
		lectureOrders[lecture.Order] = struct{}{}
	}
}
