// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/taibuivan/coursedesk/internal/platform/apperr"
	"github.com/taibuivan/coursedesk/pkg/pagination"
	"github.com/taibuivan/coursedesk/pkg/pointer"
	"github.com/taibuivan/coursedesk/pkg/slice"
	"github.com/taibuivan/coursedesk/pkg/slug"
	"github.com/taibuivan/coursedesk/pkg/uuid"
)

// # Service Layer

// Service implements the educator side of course management.
type Service struct {
	repo     Repository
	cache    DashboardCache
	images   ImageHost
	identity RoleGranter
	logger   *slog.Logger
	newID    func() string
}

// NewService constructs a new course [Service]. cache may be nil.
func NewService(repo Repository, cache DashboardCache, images ImageHost, identity RoleGranter, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		images:   images,
		identity: identity,
		logger:   logger,
		newID:    uuid.New,
	}
}

// # Educator Role

// BecomeEducator asks the identity provider to grant the educator role to userID.
// The new role shows up in the user's next session token.
func (service *Service) BecomeEducator(context context.Context, userID string) error {
	if err := service.identity.GrantEducatorRole(context, userID); err != nil {
		return apperr.Upstream("Could not update role", err)
	}

	service.logger.Info("educator_role_granted", slog.String("user_id", userID))
	return nil
}

// # Course Sync

/*
FetchForEdit returns a course for its owner.

Missing and foreign courses produce the same [ErrCourseNotFound] so callers cannot
probe for other educators' course IDs.
*/
func (service *Service) FetchForEdit(context context.Context, requesterID, courseID string) (*Course, error) {
	return service.findOwned(context, requesterID, courseID)
}

/*
CreateCourse persists a new course owned by requesterID and uploads its thumbnail.

Description: The record is written before the upload. If the upload fails the course
stays without a thumbnail; the failure is logged and reported upstream, not rolled back.

Parameters:
  - context: context.Context
  - requesterID: string (becomes the immutable owner)
  - data: CourseData
  - thumbnail: *Thumbnail (required)

Returns:
  - *Course: The stored course
  - error: ErrThumbnailMissing, validation, persistence or upstream failures
*/
func (service *Service) CreateCourse(context context.Context, requesterID string, data CourseData, thumbnail *Thumbnail) (*Course, error) {
	if thumbnail == nil {
		return nil, ErrThumbnailMissing
	}

	if err := ValidateData(data); err != nil {
		return nil, err
	}

	course := &Course{
		ID:               service.newID(),
		EducatorID:       requesterID,
		EnrolledStudents: []string{},
		IsPublished:      true,
	}
	course.apply(data)

	if err := service.repo.Create(context, course); err != nil {
		return nil, err
	}

	url, err := service.uploadThumbnail(context, course.ID, thumbnail)
	if err != nil {
		service.logger.Error("course_thumbnail_orphaned",
			slog.String("course_id", course.ID),
			slog.String("educator_id", requesterID),
			slog.Any("error", err),
		)
		service.invalidateDashboard(context, requesterID)
		return nil, apperr.Upstream("Course saved but thumbnail upload failed", err)
	}

	course.ThumbnailURL = pointer.To(url)
	if err := service.repo.Replace(context, course); err != nil {
		return nil, err
	}

	service.invalidateDashboard(context, requesterID)
	service.logger.Info("course_created",
		slog.String("course_id", course.ID),
		slog.String("educator_id", requesterID),
	)

	return course, nil
}

/*
UpdateCourse replaces the editable fields and content tree of an owned course.

Description: A new thumbnail, when given, is uploaded first and replaces the stored
URL; otherwise the existing thumbnail is kept.

Returns:
  - *Course: The updated course
  - error: ErrCourseNotFound, validation, persistence or upstream failures
*/
func (service *Service) UpdateCourse(context context.Context, requesterID, courseID string, data CourseData, thumbnail *Thumbnail) (*Course, error) {
	if err := ValidateData(data); err != nil {
		return nil, err
	}

	course, err := service.findOwned(context, requesterID, courseID)
	if err != nil {
		return nil, err
	}

	course.apply(data)

	if thumbnail != nil {
		url, err := service.uploadThumbnail(context, course.ID, thumbnail)
		if err != nil {
			return nil, apperr.Upstream("Thumbnail upload failed", err)
		}
		course.ThumbnailURL = pointer.To(url)
	}

	if err := service.repo.Replace(context, course); err != nil {
		return nil, err
	}

	service.invalidateDashboard(context, requesterID)
	service.logger.Info("course_updated",
		slog.String("course_id", course.ID),
		slog.Bool("thumbnail_replaced", thumbnail != nil),
	)

	return course, nil
}

// DeleteCourse removes an owned course that nobody has enrolled in.
func (service *Service) DeleteCourse(context context.Context, requesterID, courseID string) error {
	course, err := service.findOwned(context, requesterID, courseID)
	if err != nil {
		return err
	}

	if len(course.EnrolledStudents) > 0 {
		return ErrHasEnrollments
	}

	if err := service.repo.Delete(context, course.ID); err != nil {
		return err
	}

	service.invalidateDashboard(context, requesterID)
	service.logger.Info("course_deleted", slog.String("course_id", course.ID))

	return nil
}

// ListMine returns the requester's courses with their estimated earnings.
func (service *Service) ListMine(context context.Context, requesterID string) ([]CourseSummary, error) {
	courses, err := service.repo.ListByEducator(context, requesterID)
	if err != nil {
		return nil, err
	}

	summaries := slice.Map(courses, func(course *Course) CourseSummary {
		return CourseSummary{Course: *course, EstimatedEarnings: course.EstimatedEarnings()}
	})
	if summaries == nil {
		summaries = []CourseSummary{}
	}
	return summaries, nil
}

/*
Dashboard aggregates earnings and enrollments across the requester's courses.

Description: Served from the dashboard cache when warm. Students without a profile
record are skipped.

Purchases are written outside this service, so the cache is only invalidated by the
educator's own course mutations. A new purchase shows up after DASHBOARD_CACHE_TTL
or after the educator's next create, update or delete, whichever comes first.
*/
func (service *Service) Dashboard(context context.Context, requesterID string) (*Dashboard, error) {
	if service.cache != nil {
		cached, err := service.cache.Get(context, requesterID)
		if err != nil {
			service.logger.Warn("dashboard_cache_read_failed", slog.Any("error", err))
		} else if cached != nil {
			return cached, nil
		}
	}

	courses, err := service.repo.ListByEducator(context, requesterID)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		TotalCourses:         len(courses),
		EnrolledStudentsData: []EnrolledStudent{},
	}

	if len(courses) > 0 {
		courseIDs := slice.Map(courses, func(course *Course) string { return course.ID })

		dashboard.TotalEarnings, err = service.repo.SumCompletedPurchases(context, courseIDs)
		if err != nil {
			return nil, err
		}

		studentIDs := slice.Reduce(courses, []string{}, func(ids []string, course *Course) []string {
			return append(ids, course.EnrolledStudents...)
		})

		if len(studentIDs) > 0 {
			students, err := service.repo.FindStudents(context, studentIDs)
			if err != nil {
				return nil, err
			}

			for _, course := range courses {
				for _, studentID := range course.EnrolledStudents {
					student, ok := students[studentID]
					if !ok {
						continue
					}
					dashboard.EnrolledStudentsData = append(dashboard.EnrolledStudentsData, EnrolledStudent{
						CourseTitle: course.Title,
						Student:     student,
					})
				}
			}
		}
	}

	if service.cache != nil {
		if err := service.cache.Set(context, requesterID, dashboard); err != nil {
			service.logger.Warn("dashboard_cache_write_failed", slog.Any("error", err))
		}
	}

	return dashboard, nil
}

/*
EnrolledStudents pages through completed purchases of the requester's courses.

Returns:
  - []*Enrollment: Current page
  - int: Total matching count
  - error: Retrieval errors
*/
func (service *Service) EnrolledStudents(context context.Context, requesterID string, params pagination.Params) ([]*Enrollment, int, error) {
	courses, err := service.repo.ListByEducator(context, requesterID)
	if err != nil {
		return nil, 0, err
	}

	if len(courses) == 0 {
		return []*Enrollment{}, 0, nil
	}

	courseIDs := slice.Map(courses, func(course *Course) string { return course.ID })
	return service.repo.ListCompletedPurchases(context, courseIDs, params.Limit, params.Offset())
}

// # Helpers

// findOwned loads a course and applies the ownership guard.
func (service *Service) findOwned(context context.Context, requesterID, courseID string) (*Course, error) {
	if !uuid.IsValid(courseID) {
		return nil, ErrCourseNotFound
	}

	course, err := service.repo.FindByID(context, courseID)
	if err != nil {
		if ae := apperr.As(err); ae != nil && ae.Code == ErrCourseNotFound.Code {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if !CanAccess(course, requesterID) {
		return nil, ErrCourseNotFound
	}

	return course, nil
}

// uploadThumbnail pushes the image under courses/{courseID}/{uuid}-{slug}{ext}.
func (service *Service) uploadThumbnail(context context.Context, courseID string, thumbnail *Thumbnail) (string, error) {
	base := path.Base(thumbnail.Filename)
	ext := path.Ext(base)

	name := slug.From(strings.TrimSuffix(base, ext))
	if name == "" {
		name = "thumbnail"
	}
	if ext = slug.From(ext); ext != "" {
		ext = "." + ext
	}

	key := fmt.Sprintf("courses/%s/%s-%s%s", courseID, service.newID(), name, ext)
	return service.images.Upload(context, key, thumbnail.ContentType, thumbnail.Body, thumbnail.Size)
}

func (service *Service) invalidateDashboard(context context.Context, educatorID string) {
	if service.cache == nil {
		return
	}
	if err := service.cache.Invalidate(context, educatorID); err != nil {
		service.logger.Warn("dashboard_cache_invalidate_failed",
			slog.String("educator_id", educatorID),
			slog.Any("error", err),
		)
	}
}
