// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/coursedesk/internal/platform/constants"
	"github.com/taibuivan/coursedesk/internal/platform/middleware"
	requestutil "github.com/taibuivan/coursedesk/internal/platform/request"
	"github.com/taibuivan/coursedesk/internal/platform/respond"
	"github.com/taibuivan/coursedesk/internal/platform/sec"
	"github.com/taibuivan/coursedesk/internal/platform/validate"
	"github.com/taibuivan/coursedesk/pkg/pagination"
)

// # Handler Implementation

// Handler exposes the educator API.
type Handler struct {
	service *Service
}

// NewHandler constructs a new course [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /api/v1/educator.
//
// # Routing Strategy
//
//   - POST /role: any signed-in user may ask to become an educator.
//   - Everything else requires [sec.RoleEducator]; course-scoped routes also
//     require ownership, enforced in the [Service].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequireAuth).Post("/role", handler.becomeEducator)

	router.Group(func(educator chi.Router) {
		educator.Use(middleware.RequireRole(sec.RoleEducator))

		educator.Post("/courses", handler.createCourse)
		educator.Get("/courses", handler.listMine)
		educator.Get("/courses/{courseID}", handler.fetchForEdit)
		educator.Put("/courses/{courseID}", handler.updateCourse)
		educator.Delete("/courses/{courseID}", handler.deleteCourse)

		educator.Get("/dashboard", handler.dashboard)
		educator.Get("/enrolled-students", handler.enrolledStudents)
	})

	return router
}

/*
POST /api/v1/educator/role.

Response:
  - 200: message "You can publish a course now"
  - 502: identity provider rejected the update
*/
func (handler *Handler) becomeEducator(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.BecomeEducator(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, "You can publish a course now")
}

/*
POST /api/v1/educator/courses.

Request (multipart/form-data):
  - course_data: CourseData as JSON
  - image: thumbnail file (required)

Response:
  - 201: Course
  - 400: missing thumbnail or invalid course data
  - 502: course stored but thumbnail upload failed
*/
func (handler *Handler) createCourse(writer http.ResponseWriter, request *http.Request) {
	userID, data, thumbnail, ok := handler.readSubmission(writer, request)
	if !ok {
		return
	}

	course, err := handler.service.CreateCourse(request.Context(), userID, data, thumbnail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, course)
}

/*
GET /api/v1/educator/courses.

Response:
  - 200: []CourseSummary
*/
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	courses, err := handler.service.ListMine(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, courses)
}

/*
GET /api/v1/educator/courses/{courseID}.

Response:
  - 200: Course
  - 404: missing or not owned
*/
func (handler *Handler) fetchForEdit(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	course, err := handler.service.FetchForEdit(request.Context(), userID, requestutil.Param(request, "courseID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, course)
}

/*
PUT /api/v1/educator/courses/{courseID}.

Request (multipart/form-data):
  - course_data: CourseData as JSON
  - image: new thumbnail (optional)

Response:
  - 200: Course
  - 404: missing or not owned
*/
func (handler *Handler) updateCourse(writer http.ResponseWriter, request *http.Request) {
	userID, data, thumbnail, ok := handler.readSubmission(writer, request)
	if !ok {
		return
	}

	course, err := handler.service.UpdateCourse(request.Context(), userID, requestutil.Param(request, "courseID"), data, thumbnail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, course)
}

/*
DELETE /api/v1/educator/courses/{courseID}.

Response:
  - 200: message "Course deleted"
  - 404: missing or not owned
  - 409: course has enrolled students
*/
func (handler *Handler) deleteCourse(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteCourse(request.Context(), userID, requestutil.Param(request, "courseID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, "Course deleted")
}

/*
GET /api/v1/educator/dashboard.

Response:
  - 200: Dashboard
*/
func (handler *Handler) dashboard(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	dashboard, err := handler.service.Dashboard(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, dashboard)
}

/*
GET /api/v1/educator/enrolled-students?page=&limit=.

Response:
  - 200: []Enrollment with pagination meta
*/
func (handler *Handler) enrolledStudents(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	enrollments, total, err := handler.service.EnrolledStudents(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, enrollments, pagination.NewMeta(params.Page, params.Limit, total))
}

// # Submission Parsing

// readSubmission parses the multipart body shared by create and update.
// It writes the error response itself and reports ok=false on failure.
func (handler *Handler) readSubmission(writer http.ResponseWriter, request *http.Request) (string, CourseData, *Thumbnail, bool) {
	var data CourseData

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return "", data, nil, false
	}

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxThumbnailBytes+constants.MaxMultipartMemory)
	if err := requestutil.ParseMultipart(request, constants.MaxMultipartMemory); err != nil {
		respond.Error(writer, request, err)
		return "", data, nil, false
	}

	if err := requestutil.DecodeFormJSON(request, constants.FormFieldCourseData, &data); err != nil {
		respond.Error(writer, request, err)
		return "", data, nil, false
	}

	file, header, err := requestutil.OptionalFile(request, constants.FormFieldImage)
	if err != nil {
		respond.Error(writer, request, err)
		return "", data, nil, false
	}
	if file == nil {
		return userID, data, nil, true
	}

	thumbnail, err := readThumbnail(file, header)
	if err != nil {
		respond.Error(writer, request, err)
		return "", data, nil, false
	}

	return userID, data, thumbnail, true
}

// readThumbnail buffers an uploaded image after checking its size and sniffed type.
func readThumbnail(file multipart.File, header *multipart.FileHeader) (*Thumbnail, error) {
	defer file.Close()

	if header.Size > constants.MaxThumbnailBytes {
		return nil, validate.RequiredError(FieldImage, "Image must be 10MB or smaller")
	}

	content, err := io.ReadAll(io.LimitReader(file, constants.MaxThumbnailBytes+1))
	if err != nil {
		return nil, requestutil.ErrInvalidForm
	}
	if len(content) > constants.MaxThumbnailBytes {
		return nil, validate.RequiredError(FieldImage, "Image must be 10MB or smaller")
	}

	contentType := http.DetectContentType(content)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, validate.RequiredError(FieldImage, "File must be an image")
	}

	return &Thumbnail{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        int64(len(content)),
		Body:        bytes.NewReader(content),
	}, nil
}
