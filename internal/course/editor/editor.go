// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package editor is the in-memory course editor an educator works in before submitting.

It owns the chapter/lecture tree while it is being edited: it mints identifiers,
assigns order indices, and keeps a single lecture edit buffer. Nothing is sent
anywhere until [Editor.Build] produces a [course.CourseData] for submission.

# Ordering

A new chapter or lecture gets max(sibling orders)+1, or 1 for the first one. The
editor also remembers the highest order it ever handed out per sibling list, so
removing the last chapter and adding another never reuses its index.

An Editor is not safe for concurrent use.
*/
package editor

import (
	"strings"

	"github.com/taibuivan/coursedesk/internal/course"
	"github.com/taibuivan/coursedesk/pkg/uuid"
)

// LectureFields are the content fields of a lecture, as held in the edit buffer.
type LectureFields struct {
	Title         string
	Duration      float64 // minutes
	URL           string
	IsPreviewFree bool
}

// Details are the course-level form fields.
type Details struct {
	Title       string
	Description string // rich text markup
	Price       float64
	Discount    int
}

// Editor holds one course being edited.
type Editor struct {
	newID    func() string
	details  Details
	chapters []course.Chapter

	state State
	draft LectureFields

	// Highest order ever assigned, so indices survive removal of the top sibling.
	chapterHighWater  int
	lectureHighWaters map[string]int
}

// Option customizes an [Editor].
type Option func(*Editor)

// WithIDGenerator replaces the UUIDv7 identifier source.
func WithIDGenerator(newID func() string) Option {
	return func(editor *Editor) {
		editor.newID = newID
	}
}

// New returns an empty editor.
func New(options ...Option) *Editor {
	editor := &Editor{
		newID:             uuid.New,
		state:             Closed{},
		lectureHighWaters: map[string]int{},
	}
	for _, option := range options {
		option(editor)
	}
	return editor
}

// Load replaces the editor content with a fetched course and closes the buffer.
func (editor *Editor) Load(c *course.Course) {
	editor.details = Details{
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		Discount:    c.Discount,
	}
	editor.chapters = cloneChapters(c.Chapters)
	editor.state = Closed{}
	editor.draft = LectureFields{}

	editor.chapterHighWater = maxChapterOrder(editor.chapters)
	editor.lectureHighWaters = make(map[string]int, len(editor.chapters))
	for _, chapter := range editor.chapters {
		editor.lectureHighWaters[chapter.ID] = maxLectureOrder(chapter.Lectures)
	}
}

// # Course Details

// SetDetails replaces the course-level fields.
func (editor *Editor) SetDetails(details Details) {
	editor.details = details
}

// Details returns the course-level fields.
func (editor *Editor) Details() Details {
	return editor.details
}

// # Chapters

// Chapters returns a deep copy of the current tree.
func (editor *Editor) Chapters() []course.Chapter {
	return cloneChapters(editor.chapters)
}

// AddChapter appends a chapter and reports whether it did. Blank titles are ignored.
func (editor *Editor) AddChapter(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}

	order := max(maxChapterOrder(editor.chapters), editor.chapterHighWater) + 1
	editor.chapterHighWater = order

	editor.chapters = append(editor.chapters, course.Chapter{
		ID:       editor.newID(),
		Title:    title,
		Order:    order,
		Lectures: []course.Lecture{},
	})
	return true
}

// RemoveChapter deletes a chapter. Unknown IDs are ignored.
func (editor *Editor) RemoveChapter(chapterID string) {
	index := editor.chapterIndex(chapterID)
	if index < 0 {
		return
	}

	editor.chapters = append(editor.chapters[:index], editor.chapters[index+1:]...)
	delete(editor.lectureHighWaters, chapterID)

	if editor.targetChapter() == chapterID {
		editor.closeBuffer()
	}
}

// ToggleChapter flips a chapter's collapsed flag. Unknown IDs are ignored.
func (editor *Editor) ToggleChapter(chapterID string) {
	if index := editor.chapterIndex(chapterID); index >= 0 {
		editor.chapters[index].Collapsed = !editor.chapters[index].Collapsed
	}
}

// # Lectures

// State returns the lecture edit buffer's target.
func (editor *Editor) State() State {
	return editor.state
}

// Draft returns the content of the edit buffer.
func (editor *Editor) Draft() LectureFields {
	return editor.draft
}

// SetDraft replaces the content of an open edit buffer. It is ignored while closed.
func (editor *Editor) SetDraft(fields LectureFields) {
	if _, closed := editor.state.(Closed); closed {
		return
	}
	editor.draft = fields
}

// BeginAddLecture opens an empty buffer targeting a chapter, discarding any open buffer.
// It reports false, leaving the state unchanged, for an unknown chapter.
func (editor *Editor) BeginAddLecture(chapterID string) bool {
	if editor.chapterIndex(chapterID) < 0 {
		return false
	}

	editor.state = AddingTo{ChapterID: chapterID}
	editor.draft = LectureFields{}
	return true
}

// BeginEditLecture opens a buffer holding a copy of an existing lecture, discarding
// any open buffer. It reports false, leaving the state unchanged, for an invalid target.
func (editor *Editor) BeginEditLecture(chapterID string, lectureIndex int) bool {
	index := editor.chapterIndex(chapterID)
	if index < 0 || lectureIndex < 0 || lectureIndex >= len(editor.chapters[index].Lectures) {
		return false
	}

	lecture := editor.chapters[index].Lectures[lectureIndex]
	editor.state = EditingAt{ChapterID: chapterID, LectureIndex: lectureIndex}
	editor.draft = LectureFields{
		Title:         lecture.Title,
		Duration:      lecture.Duration,
		URL:           lecture.URL,
		IsPreviewFree: lecture.IsPreviewFree,
	}
	return true
}

/*
CommitLecture applies the edit buffer and closes it.

An add appends a lecture with a fresh ID and the next order index. An edit replaces
the content fields in place, keeping the lecture's ID and order. The buffer is closed
in every case; committing with no open buffer or a blank title changes nothing.

Returns:
  - bool: whether the tree changed
*/
func (editor *Editor) CommitLecture() bool {
	state, fields := editor.state, editor.draft
	editor.closeBuffer()

	fields.Title = strings.TrimSpace(fields.Title)
	if fields.Title == "" {
		return false
	}

	switch target := state.(type) {
	case AddingTo:
		index := editor.chapterIndex(target.ChapterID)
		if index < 0 {
			return false
		}

		chapter := &editor.chapters[index]
		order := max(maxLectureOrder(chapter.Lectures), editor.lectureHighWaters[chapter.ID]) + 1
		editor.lectureHighWaters[chapter.ID] = order

		chapter.Lectures = append(chapter.Lectures, course.Lecture{
			ID:            editor.newID(),
			Title:         fields.Title,
			Duration:      fields.Duration,
			URL:           strings.TrimSpace(fields.URL),
			IsPreviewFree: fields.IsPreviewFree,
			Order:         order,
		})
		return true

	case EditingAt:
		index := editor.chapterIndex(target.ChapterID)
		if index < 0 || target.LectureIndex >= len(editor.chapters[index].Lectures) {
			return false
		}

		lecture := &editor.chapters[index].Lectures[target.LectureIndex]
		lecture.Title = fields.Title
		lecture.Duration = fields.Duration
		lecture.URL = strings.TrimSpace(fields.URL)
		lecture.IsPreviewFree = fields.IsPreviewFree
		return true

	default:
		return false
	}
}

// CancelLecture discards the edit buffer.
func (editor *Editor) CancelLecture() {
	editor.closeBuffer()
}

// RemoveLecture deletes the lecture at lectureIndex. Invalid targets are ignored.
// An open edit of the same chapter keeps pointing at the same lecture, or closes
// if that lecture was the one removed.
func (editor *Editor) RemoveLecture(chapterID string, lectureIndex int) {
	index := editor.chapterIndex(chapterID)
	if index < 0 || lectureIndex < 0 || lectureIndex >= len(editor.chapters[index].Lectures) {
		return
	}

	lectures := editor.chapters[index].Lectures
	editor.chapters[index].Lectures = append(lectures[:lectureIndex], lectures[lectureIndex+1:]...)

	if editing, ok := editor.state.(EditingAt); ok && editing.ChapterID == chapterID {
		switch {
		case editing.LectureIndex == lectureIndex:
			editor.closeBuffer()
		case editing.LectureIndex > lectureIndex:
			editor.state = EditingAt{ChapterID: chapterID, LectureIndex: editing.LectureIndex - 1}
		}
	}
}

// # Submission

// Build returns the submission payload, validated the same way the server validates it.
func (editor *Editor) Build() (course.CourseData, error) {
	data := course.CourseData{
		Title:       strings.TrimSpace(editor.details.Title),
		Description: editor.details.Description,
		Price:       editor.details.Price,
		Discount:    editor.details.Discount,
		Chapters:    cloneChapters(editor.chapters),
	}

	if err := course.ValidateData(data); err != nil {
		return course.CourseData{}, err
	}
	return data, nil
}

// # Helpers

func (editor *Editor) chapterIndex(chapterID string) int {
	for i := range editor.chapters {
		if editor.chapters[i].ID == chapterID {
			return i
		}
	}
	return -1
}

func (editor *Editor) targetChapter() string {
	switch target := editor.state.(type) {
	case AddingTo:
		return target.ChapterID
	case EditingAt:
		return target.ChapterID
	default:
		return ""
	}
}

func (editor *Editor) closeBuffer() {
	editor.state = Closed{}
	editor.draft = LectureFields{}
}

func maxChapterOrder(chapters []course.Chapter) int {
	highest := 0
	for _, chapter := range chapters {
		highest = max(highest, chapter.Order)
	}
	return highest
}

func maxLectureOrder(lectures []course.Lecture) int {
	highest := 0
	for _, lecture := range lectures {
		highest = max(highest, lecture.Order)
	}
	return highest
}

func cloneChapters(chapters []course.Chapter) []course.Chapter {
	cloned := make([]course.Chapter, len(chapters))
	for i, chapter := range chapters {
		cloned[i] = chapter
		cloned[i].Lectures = append([]course.Lecture{}, chapter.Lectures...)
	}
	return cloned
}
