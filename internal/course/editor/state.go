// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor

// # Lecture Editor State

// State is the lecture edit buffer's target. It is exactly one of [Closed],
// [AddingTo] or [EditingAt].
type State interface {
	isState()
}

// Closed means no lecture is being edited.
type Closed struct{}

// AddingTo means the buffer will be appended to a chapter on commit.
type AddingTo struct {
	ChapterID string
}

// EditingAt means the buffer will replace the lecture at LectureIndex on commit.
type EditingAt struct {
	ChapterID    string
	LectureIndex int
}

func (Closed) isState()    {}
func (AddingTo) isState()  {}
func (EditingAt) isState() {}
