// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package client is the editor-side half of the course sync protocol.

It speaks to the educator API with the caller's session token and decodes the
standard response envelope. A failed call returns an [*APIError] carrying the
server's status, code and message, so callers can surface the message verbatim.

# Editing flow

	ed, err := api.Open(ctx, courseID)   // fetch-for-edit, loaded into an editor
	...                                  // edit chapters and lectures locally
	saved, err := api.Submit(ctx, ed, courseID, image)
*/
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/taibuivan/coursedesk/internal/course"
	"github.com/taibuivan/coursedesk/internal/course/editor"
	"github.com/taibuivan/coursedesk/internal/platform/apperr"
	"github.com/taibuivan/coursedesk/internal/platform/constants"
	"github.com/taibuivan/coursedesk/pkg/pagination"
)

const requestTimeout = 30 * time.Second

// APIError is a non-2xx answer from the educator API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    []apperr.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coursedesk api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Image is a thumbnail file attached to a create or update.
type Image struct {
	Filename    string
	ContentType string // optional; the server sniffs the bytes anyway
	Body        io.Reader
}

// Client calls the educator API as one signed-in user.
type Client struct {
	http *resty.Client
}

// Option customizes a [Client].
type Option func(*resty.Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(http *resty.Client) {
		http.SetTimeout(timeout)
	}
}

// New returns a client for the educator API mounted at baseURL
// (e.g. https://coursedesk.example/api/v1/educator), authenticated with token.
func New(baseURL, token string, options ...Option) *Client {
	http := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(token).
		SetTimeout(requestTimeout).
		SetHeader("Accept", "application/json")

	for _, option := range options {
		option(http)
	}
	return &Client{http: http}
}

// SetToken swaps the session token, e.g. after the role claim changed.
func (client *Client) SetToken(token string) {
	client.http.SetAuthToken(token)
}

// # Envelope

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Meta    *pagination.Meta    `json:"meta"`
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details"`
}

// do executes the request and returns the decoded envelope of a successful answer.
func (client *Client) do(request *resty.Request, method, path string) (*envelope, error) {
	var body envelope
	response, err := request.
		SetResult(&body).
		SetError(&body).
		Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("coursedesk api: %s %s: %w", method, path, err)
	}

	if response.IsError() || !body.Success {
		message := body.Error
		if message == "" {
			message = strings.TrimSpace(response.String())
		}
		return nil, &APIError{
			StatusCode: response.StatusCode(),
			Code:       body.Code,
			Message:    message,
			Details:    body.Details,
		}
	}

	return &body, nil
}

func decodeData[T any](body *envelope) (T, error) {
	var data T
	if err := json.Unmarshal(body.Data, &data); err != nil {
		return data, fmt.Errorf("coursedesk api: decode data: %w", err)
	}
	return data, nil
}

// # Operations

// BecomeEducator asks for the educator role. The new role reaches the token only
// after the session refreshes; call [Client.SetToken] with the new token.
func (client *Client) BecomeEducator(ctx context.Context) (string, error) {
	body, err := client.do(client.http.R().SetContext(ctx), resty.MethodPost, "/role")
	if err != nil {
		return "", err
	}
	return body.Message, nil
}

// FetchForEdit loads one owned course.
func (client *Client) FetchForEdit(ctx context.Context, courseID string) (*course.Course, error) {
	request := client.http.R().SetContext(ctx).SetPathParam("courseID", courseID)
	body, err := client.do(request, resty.MethodGet, "/courses/{courseID}")
	if err != nil {
		return nil, err
	}
	return decodeData[*course.Course](body)
}

// Create submits a new course. The server rejects a create without an image.
func (client *Client) Create(ctx context.Context, data course.CourseData, image *Image) (*course.Course, error) {
	request, err := submission(client.http.R().SetContext(ctx), data, image)
	if err != nil {
		return nil, err
	}

	body, err := client.do(request, resty.MethodPost, "/courses")
	if err != nil {
		return nil, err
	}
	return decodeData[*course.Course](body)
}

// Update replaces an owned course's content. A nil image keeps the current thumbnail.
func (client *Client) Update(ctx context.Context, courseID string, data course.CourseData, image *Image) (*course.Course, error) {
	request, err := submission(client.http.R().SetContext(ctx).SetPathParam("courseID", courseID), data, image)
	if err != nil {
		return nil, err
	}

	body, err := client.do(request, resty.MethodPut, "/courses/{courseID}")
	if err != nil {
		return nil, err
	}
	return decodeData[*course.Course](body)
}

// Delete removes an owned course that has no enrolled students.
func (client *Client) Delete(ctx context.Context, courseID string) error {
	request := client.http.R().SetContext(ctx).SetPathParam("courseID", courseID)
	_, err := client.do(request, resty.MethodDelete, "/courses/{courseID}")
	return err
}

// ListMine lists the caller's courses, newest first, with estimated earnings.
func (client *Client) ListMine(ctx context.Context) ([]course.CourseSummary, error) {
	body, err := client.do(client.http.R().SetContext(ctx), resty.MethodGet, "/courses")
	if err != nil {
		return nil, err
	}
	return decodeData[[]course.CourseSummary](body)
}

// Dashboard returns the caller's aggregate earnings and enrollments.
func (client *Client) Dashboard(ctx context.Context) (*course.Dashboard, error) {
	body, err := client.do(client.http.R().SetContext(ctx), resty.MethodGet, "/dashboard")
	if err != nil {
		return nil, err
	}
	return decodeData[*course.Dashboard](body)
}

// EnrolledStudents returns one page of completed purchases across the caller's courses.
func (client *Client) EnrolledStudents(ctx context.Context, params pagination.Params) ([]course.Enrollment, pagination.Meta, error) {
	request := client.http.R().SetContext(ctx).SetQueryParamsFromValues(params.Query())
	body, err := client.do(request, resty.MethodGet, "/enrolled-students")
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	enrollments, err := decodeData[[]course.Enrollment](body)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	var meta pagination.Meta
	if body.Meta != nil {
		meta = *body.Meta
	}
	return enrollments, meta, nil
}

// # Editor Integration

// Open fetches an owned course and loads it into a fresh editor.
func (client *Client) Open(ctx context.Context, courseID string, options ...editor.Option) (*editor.Editor, error) {
	fetched, err := client.FetchForEdit(ctx, courseID)
	if err != nil {
		return nil, err
	}

	ed := editor.New(options...)
	ed.Load(fetched)
	return ed, nil
}

// Submit builds the editor content and creates the course when courseID is empty,
// or updates it otherwise. Local validation errors are returned before any request.
func (client *Client) Submit(ctx context.Context, ed *editor.Editor, courseID string, image *Image) (*course.Course, error) {
	data, err := ed.Build()
	if err != nil {
		return nil, err
	}

	if courseID == "" {
		return client.Create(ctx, data, image)
	}
	return client.Update(ctx, courseID, data, image)
}

// # Helpers

// submission attaches the multipart course_data field and the optional image part.
func submission(request *resty.Request, data course.CourseData, image *Image) (*resty.Request, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("coursedesk api: encode course data: %w", err)
	}

	request.SetMultipartFormData(map[string]string{constants.FormFieldCourseData: string(encoded)})

	if image != nil {
		contentType := image.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		request.SetMultipartField(constants.FormFieldImage, image.Filename, contentType, image.Body)
	}

	return request, nil
}
