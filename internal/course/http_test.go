// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/coursedesk/internal/course"
	"github.com/taibuivan/coursedesk/internal/course/coursetest"
	"github.com/taibuivan/coursedesk/internal/platform/middleware"
	"github.com/taibuivan/coursedesk/internal/platform/sec"
	"github.com/taibuivan/coursedesk/pkg/uuid"
)

// # Harness

type apiHarness struct {
	t       *testing.T
	fixture *fixture
	router  http.Handler
	key     *rsa.PrivateKey
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	f := newFixture()
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(sec.NewTokenVerifierFromKey(&key.PublicKey, "")))
	router.Mount("/api/v1/educator", course.NewHandler(f.service).Routes())

	return &apiHarness{t: t, fixture: f, router: router, key: key}
}

func (h *apiHarness) token(userID string, role sec.UserRole) string {
	h.t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString(h.key)
	require.NoError(h.t, err)
	return signed
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Meta    map[string]int  `json:"meta"`
}

func (h *apiHarness) do(request *http.Request, token string) (int, envelope) {
	h.t.Helper()
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, request)

	var body envelope
	require.NoError(h.t, json.Unmarshal(recorder.Body.Bytes(), &body), recorder.Body.String())
	return recorder.Code, body
}

// submission builds a multipart course submission; image may be nil.
func submission(t *testing.T, method, target string, data course.CourseData, filename string, image []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	payload, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("course_data", string(payload)))

	if image != nil {
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(method, target, &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return request
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// # Access Control

func TestAPI_RequiresEducatorRole(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(httptest.NewRequest(http.MethodGet, "/api/v1/educator/courses", nil), "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, body.Success)

	status, body = h.do(httptest.NewRequest(http.MethodGet, "/api/v1/educator/courses", nil), h.token("user_s", sec.RoleStudent))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Unauthorized Access", body.Error)

	status, _ = h.do(httptest.NewRequest(http.MethodGet, "/api/v1/educator/courses", nil), "garbage")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_BecomeEducator(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(httptest.NewRequest(http.MethodPost, "/api/v1/educator/role", nil), h.token("user_s", sec.RoleStudent))

	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)
	assert.Equal(t, "You can publish a course now", body.Message)
	assert.Equal(t, []string{"user_s"}, h.fixture.granter.Granted)
}

// # Create

func TestAPI_CreateCourse(t *testing.T) {
	h := newAPIHarness(t)
	request := submission(t, http.MethodPost, "/api/v1/educator/courses", validData(), "cover.png", pngBytes)

	status, body := h.do(request, h.token(educatorA, sec.RoleEducator))
	require.Equal(t, http.StatusCreated, status, body.Error)
	assert.True(t, body.Success)

	var created course.Course
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, educatorA, created.EducatorID)
	assert.NotNil(t, created.ThumbnailURL)
	assert.Equal(t, []string{"image/png"}, h.fixture.images.ContentTypes)
	assert.Equal(t, pngBytes, h.fixture.images.Contents[0])
}

/*
TestAPI_CreateCourse_MissingThumbnail is the no-image scenario: rejected with the
missing-input error and nothing stored.
*/
func TestAPI_CreateCourse_MissingThumbnail(t *testing.T) {
	h := newAPIHarness(t)
	request := submission(t, http.MethodPost, "/api/v1/educator/courses", validData(), "", nil)

	status, body := h.do(request, h.token(educatorA, sec.RoleEducator))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, body.Success)
	assert.Equal(t, "Thumbnail Not Attached", body.Error)
	assert.Equal(t, 0, h.fixture.repository.Count())
}

func TestAPI_CreateCourse_RejectsNonImage(t *testing.T) {
	h := newAPIHarness(t)
	request := submission(t, http.MethodPost, "/api/v1/educator/courses", validData(), "notes.png", []byte("plain text, not a picture"))

	status, body := h.do(request, h.token(educatorA, sec.RoleEducator))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, 0, h.fixture.repository.Count())
}

func TestAPI_CreateCourse_MissingCourseData(t *testing.T) {
	h := newAPIHarness(t)

	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	require.NoError(t, writer.Close())
	request := httptest.NewRequest(http.MethodPost, "/api/v1/educator/courses", &buffer)
	request.Header.Set("Content-Type", writer.FormDataContentType())

	status, body := h.do(request, h.token(educatorA, sec.RoleEducator))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
}

// # Course-scoped Routes

/*
TestAPI_ForeignCourseLooksMissing checks that fetch, update and delete answer a
foreign course with exactly the body of a missing one.
*/
func TestAPI_ForeignCourseLooksMissing(t *testing.T) {
	h := newAPIHarness(t)
	owned := seedCourse(h.fixture, educatorA)
	intruder := h.token(educatorB, sec.RoleEducator)

	_, missing := h.do(httptest.NewRequest(http.MethodGet, "/api/v1/educator/courses/"+uuid.New(), nil), intruder)

	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/v1/educator/courses/"+owned.ID, nil),
		submission(t, http.MethodPut, "/api/v1/educator/courses/"+owned.ID, validData(), "", nil),
		httptest.NewRequest(http.MethodDelete, "/api/v1/educator/courses/"+owned.ID, nil),
	}

	for _, request := range requests {
		status, body := h.do(request, intruder)
		assert.Equal(t, http.StatusNotFound, status, request.Method)
		assert.Equal(t, missing, body, request.Method)
	}

	_, stillThere := h.fixture.repository.Get(owned.ID)
	assert.True(t, stillThere)
}

func TestAPI_FetchAndUpdateOwnCourse(t *testing.T) {
	h := newAPIHarness(t)
	owned := seedCourse(h.fixture, educatorA)
	token := h.token(educatorA, sec.RoleEducator)

	status, body := h.do(httptest.NewRequest(http.MethodGet, "/api/v1/educator/courses/"+owned.ID, nil), token)
	require.Equal(t, http.StatusOK, status)
	var fetched course.Course
	require.NoError(t, json.Unmarshal(body.Data, &fetched))
	assert.Equal(t, owned.ID, fetched.ID)

	data := validData()
	data.Title = "Updated over HTTP"
	status, body = h.do(submission(t, http.MethodPut, "/api/v1/educator/courses/"+owned.ID, data, "", nil), token)
	require.Equal(t, http.StatusOK, status, body.Error)

	var updated course.Course
	require.NoError(t, json.Unmarshal(body.Data, &updated))
	assert.Equal(t, "Updated over HTTP", updated.Title)
	assert.Equal(t, owned.ThumbnailURL, updated.ThumbnailURL)
}

func TestAPI_DeleteCourse(t *testing.T) {
	h := newAPIHarness(t)
	enrolled := seedCourse(h.fixture, educatorA, "s1", "s2")
	empty := seedCourse(h.fixture, educatorA)
	token := h.token(educatorA, sec.RoleEducator)

	status, body := h.do(httptest.NewRequest(http.MethodDelete, "/api/v1/educator/courses/"+enrolled.ID, nil), token)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Cannot delete course with enrolled students", body.Error)

	status, body = h.do(httptest.NewRequest(http.MethodDelete, "/api/v1/educator/courses/"+empty.ID, nil), token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Course deleted", body.Message)
}

// # Read Models

func TestAPI_ListMineAndDashboard(t *testing.T) {
	h := newAPIHarness(t)
	seeded := seedCourse(h.fixture, educatorA, "s1")
	h.fixture.repository.AddStudent(course.StudentProfile{ID: "s1", Name: "Ada"})
	token := h.token(educatorA, sec.RoleEducator)

	status, body := h.do(httptest.NewRequest(http.MethodGet, "/api/v1/educator/courses", nil), token)
	require.Equal(t, http.StatusOK, status)
	var summaries []map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, seeded.ID, summaries[0]["id"])
	assert.EqualValues(t, 85, summaries[0]["estimated_earnings"])

	status, body = h.do(httptest.NewRequest(http.MethodGet, "/api/v1/educator/dashboard", nil), token)
	require.Equal(t, http.StatusOK, status)
	var dashboard course.Dashboard
	require.NoError(t, json.Unmarshal(body.Data, &dashboard))
	assert.Equal(t, 1, dashboard.TotalCourses)
	require.Len(t, dashboard.EnrolledStudentsData, 1)
	assert.Equal(t, "Ada", dashboard.EnrolledStudentsData[0].Student.Name)
}

func TestAPI_EnrolledStudentsPagination(t *testing.T) {
	h := newAPIHarness(t)
	owned := seedCourse(h.fixture, educatorA, "s1")
	h.fixture.repository.AddStudent(course.StudentProfile{ID: "s1", Name: "Ada"})
	h.fixture.repository.AddPurchase(coursetest.Purchase{CourseID: owned.ID, UserID: "s1", Amount: 85, Status: "completed", CreatedAt: time.Now()})

	request := httptest.NewRequest(http.MethodGet, "/api/v1/educator/enrolled-students?page=1&limit=5", nil)
	status, body := h.do(request, h.token(educatorA, sec.RoleEducator))

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]int{"page": 1, "limit": 5, "total": 1, "total_pages": 1}, body.Meta)

	var enrollments []course.Enrollment
	require.NoError(t, json.Unmarshal(body.Data, &enrollments))
	require.Len(t, enrollments, 1)
	assert.Equal(t, owned.Title, enrollments[0].CourseTitle)
}

/*
TestAPI_EnrolledStudentsHugePage falls back to the first page instead of computing a
wrapped-around offset.
*/
func TestAPI_EnrolledStudentsHugePage(t *testing.T) {
	h := newAPIHarness(t)
	owned := seedCourse(h.fixture, educatorA, "s1")
	h.fixture.repository.AddStudent(course.StudentProfile{ID: "s1", Name: "Ada"})
	h.fixture.repository.AddPurchase(coursetest.Purchase{CourseID: owned.ID, UserID: "s1", Amount: 85, Status: "completed", CreatedAt: time.Now()})

	request := httptest.NewRequest(http.MethodGet, "/api/v1/educator/enrolled-students?page=922337203685477581&limit=20", nil)
	status, body := h.do(request, h.token(educatorA, sec.RoleEducator))

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]int{"page": 1, "limit": 20, "total": 1, "total_pages": 1}, body.Meta)
}
