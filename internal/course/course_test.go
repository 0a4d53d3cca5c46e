// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/coursedesk/internal/course"
	"github.com/taibuivan/coursedesk/internal/platform/apperr"
)

func validData() course.CourseData {
	return course.CourseData{
		Title:       "Go Basics",
		Description: "<p>Learn Go</p>",
		Price:       49.99,
		Discount:    10,
		Chapters: []course.Chapter{
			{ID: "c1", Title: "Intro", Order: 1, Lectures: []course.Lecture{
				{ID: "l1", Title: "Welcome", Duration: 5, URL: "https://v.example.com/1", IsPreviewFree: true, Order: 1},
				{ID: "l2", Title: "Setup", Duration: 12, URL: "https://v.example.com/2", Order: 3},
			}},
			{ID: "c2", Title: "Types", Order: 4, Lectures: []course.Lecture{}},
		},
	}
}

func detailFields(t *testing.T, err error) []string {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)

	fields := make([]string, 0, len(appError.Details))
	for _, detail := range appError.Details {
		fields = append(fields, detail.Field)
	}
	return fields
}

/*
TestValidateData covers each invariant of a submitted course payload.
*/
func TestValidateData(t *testing.T) {
	require.NoError(t, course.ValidateData(validData()))

	tests := []struct {
		name   string
		mutate func(*course.CourseData)
		field  string
	}{
		{"blank_title", func(d *course.CourseData) { d.Title = "  " }, "title"},
		{"negative_price", func(d *course.CourseData) { d.Price = -1 }, "price"},
		{"nan_price", func(d *course.CourseData) { d.Price = math.NaN() }, "price"},
		{"price_over_store_limit", func(d *course.CourseData) { d.Price = 1e12 }, "price"},
		{"price_sub_cent", func(d *course.CourseData) { d.Price = 49.999 }, "price"},
		{"discount_over_100", func(d *course.CourseData) { d.Discount = 101 }, "discount"},
		{"discount_negative", func(d *course.CourseData) { d.Discount = -5 }, "discount"},
		{"chapter_order_zero", func(d *course.CourseData) { d.Chapters[0].Order = 0 }, "chapters[0].order"},
		{"chapter_order_duplicate", func(d *course.CourseData) { d.Chapters[1].Order = 1 }, "chapters[1].order"},
		{"chapter_id_duplicate", func(d *course.CourseData) { d.Chapters[1].ID = "c1" }, "chapters[1].id"},
		{"chapter_title_blank", func(d *course.CourseData) { d.Chapters[1].Title = "" }, "chapters[1].title"},
		{"lecture_order_duplicate", func(d *course.CourseData) { d.Chapters[0].Lectures[1].Order = 1 }, "chapters[0].lectures[1].order"},
		{"lecture_id_duplicate", func(d *course.CourseData) { d.Chapters[0].Lectures[1].ID = "l1" }, "chapters[0].lectures[1].id"},
		{"lecture_duration_negative", func(d *course.CourseData) { d.Chapters[0].Lectures[0].Duration = -2 }, "chapters[0].lectures[0].duration"},
		{"lecture_duration_inf", func(d *course.CourseData) { d.Chapters[0].Lectures[0].Duration = math.Inf(1) }, "chapters[0].lectures[0].duration"},
		{"lecture_url_scheme", func(d *course.CourseData) { d.Chapters[0].Lectures[0].URL = "ftp://x/y" }, "chapters[0].lectures[0].url"},
		{"lecture_title_blank", func(d *course.CourseData) { d.Chapters[0].Lectures[0].Title = "" }, "chapters[0].lectures[0].title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validData()
			tt.mutate(&data)
			assert.Contains(t, detailFields(t, course.ValidateData(data)), tt.field)
		})
	}
}

func TestValidateData_PriceAtStoreLimits(t *testing.T) {
	for _, price := range []float64{0, 0.1, 49.99, course.MaxPrice} {
		data := validData()
		data.Price = price
		assert.NoError(t, course.ValidateData(data), "price %v", price)
	}
}

func TestValidateData_LectureIDsScopedToChapter(t *testing.T) {
	data := validData()
	data.Chapters[1].Lectures = []course.Lecture{{ID: "l1", Title: "Same id, other chapter", Order: 1}}

	assert.NoError(t, course.ValidateData(data))
}

/*
TestEstimatedEarnings checks floor(enrolled * discounted price).
*/
func TestEstimatedEarnings(t *testing.T) {
	tests := []struct {
		price    float64
		discount int
		enrolled int
		want     int
	}{
		{100, 15, 3, 255},
		{9.99, 0, 3, 29},
		{49.99, 100, 10, 0},
		{20, 50, 0, 0},
	}

	for _, tt := range tests {
		c := &course.Course{Price: tt.price, Discount: tt.discount, EnrolledStudents: make([]string, tt.enrolled)}
		assert.Equal(t, tt.want, c.EstimatedEarnings(), "price %v discount %d enrolled %d", tt.price, tt.discount, tt.enrolled)
	}
}

func TestCanAccess(t *testing.T) {
	owned := &course.Course{EducatorID: "user_a"}

	assert.True(t, course.CanAccess(owned, "user_a"))
	assert.False(t, course.CanAccess(owned, "user_b"))
	assert.False(t, course.CanAccess(owned, ""))
	assert.False(t, course.CanAccess(&course.Course{}, ""))
	assert.False(t, course.CanAccess(nil, "user_a"))
}
