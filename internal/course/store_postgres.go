// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/coursedesk/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
//
// The content tree lives in a JSONB column and is rewritten whole on every update.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed course store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const courseColumns = `
	id, title, description, price, discount, thumbnail_url, educator_id,
	chapters, enrolled_students, is_published, created_at, updated_at
`

func scanCourse(row pgx.Row) (*Course, error) {
	course := &Course{}
	err := row.Scan(
		&course.ID, &course.Title, &course.Description, &course.Price, &course.Discount,
		&course.ThumbnailURL, &course.EducatorID, &course.Chapters, &course.EnrolledStudents,
		&course.IsPublished, &course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if course.Chapters == nil {
		course.Chapters = []Chapter{}
	}
	if course.EnrolledStudents == nil {
		course.EnrolledStudents = []string{}
	}
	return course, nil
}

// # Course Retrieval

/*
FindByID retrieves a single course document.

Returns:
  - *Course: Hydrated course including its content tree
  - error: apperr NOT_FOUND if absent
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	course, err := scanCourse(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Course", "find_course_by_id")
	}
	return course, nil
}

// ListByEducator returns every course owned by educatorID, newest first.
func (repository *PostgresRepository) ListByEducator(context context.Context, educatorID string) ([]*Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE educator_id = $1 ORDER BY created_at DESC`

	rows, err := repository.db.Query(context, query, educatorID)
	if err != nil {
		return nil, dberr.Wrap(err, "Course", "list_courses_by_educator")
	}
	defer rows.Close()

	courses := []*Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Course", "scan_course")
		}
		courses = append(courses, course)
	}

	return courses, dberr.Wrap(rows.Err(), "Course", "iterate_courses")
}

// # Course Mutation

// Create inserts a new course document. Enrollments start empty.
func (repository *PostgresRepository) Create(context context.Context, course *Course) error {
	const query = `
		INSERT INTO courses (
			id, title, description, price, discount, thumbnail_url,
			educator_id, chapters, is_published, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := repository.db.QueryRow(context, query,
		course.ID, course.Title, course.Description, course.Price, course.Discount, course.ThumbnailURL,
		course.EducatorID, course.Chapters, course.IsPublished,
	).Scan(&course.CreatedAt, &course.UpdatedAt)

	return dberr.Wrap(err, "Course", "create_course")
}

// Replace rewrites the editable fields, the content tree and the thumbnail.
func (repository *PostgresRepository) Replace(context context.Context, course *Course) error {
	const query = `
		UPDATE courses
		SET title = $2, description = $3, price = $4, discount = $5,
		    thumbnail_url = $6, chapters = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := repository.db.QueryRow(context, query,
		course.ID, course.Title, course.Description, course.Price, course.Discount,
		course.ThumbnailURL, course.Chapters,
	).Scan(&course.UpdatedAt)

	return dberr.Wrap(err, "Course", "replace_course")
}

// Delete removes the course only while it has no enrolled students.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM courses WHERE id = $1 AND cardinality(enrolled_students) = 0`

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Course", "delete_course")
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing deleted: either the row is gone or someone enrolled in the meantime.
	var exists bool
	if err := repository.db.QueryRow(context, `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, id).Scan(&exists); err != nil {
		return dberr.Wrap(err, "Course", "delete_course")
	}
	if !exists {
		return ErrCourseNotFound
	}
	return ErrHasEnrollments
}

// # Purchases & Students

// SumCompletedPurchases totals completed purchase amounts across courseIDs.
func (repository *PostgresRepository) SumCompletedPurchases(context context.Context, courseIDs []string) (float64, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)::float8
		FROM purchases
		WHERE course_id = ANY($1) AND status = 'completed'
	`
	var total float64
	err := repository.db.QueryRow(context, query, courseIDs).Scan(&total)
	if err != nil {
		return 0, dberr.Wrap(err, "Purchase", "sum_completed_purchases")
	}
	return total, nil
}

// FindStudents returns the public profiles of studentIDs keyed by ID.
// Unknown IDs are absent from the map.
func (repository *PostgresRepository) FindStudents(context context.Context, studentIDs []string) (map[string]StudentProfile, error) {
	const query = `SELECT id, name, image_url FROM users WHERE id = ANY($1)`

	rows, err := repository.db.Query(context, query, studentIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "Student", "find_students")
	}
	defer rows.Close()

	students := make(map[string]StudentProfile, len(studentIDs))
	for rows.Next() {
		var student StudentProfile
		if err := rows.Scan(&student.ID, &student.Name, &student.ImageURL); err != nil {
			return nil, dberr.Wrap(err, "Student", "scan_student")
		}
		students[student.ID] = student
	}

	return students, dberr.Wrap(rows.Err(), "Student", "iterate_students")
}

/*
ListCompletedPurchases pages through completed purchases of courseIDs, newest first,
joined with the buyer profile and the course title.

Returns:
  - []*Enrollment: One row per purchase
  - int: Total matching count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListCompletedPurchases(context context.Context, courseIDs []string, limit, offset int) ([]*Enrollment, int, error) {
	const query = `
		SELECT
			u.id, u.name, u.image_url, c.title, p.created_at,
			COUNT(*) OVER() AS total
		FROM purchases p
		JOIN courses c ON c.id = p.course_id
		JOIN users u ON u.id = p.user_id
		WHERE p.course_id = ANY($1) AND p.status = 'completed'
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := repository.db.Query(context, query, courseIDs, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Purchase", "list_completed_purchases")
	}
	defer rows.Close()

	enrollments := []*Enrollment{}
	var total int
	for rows.Next() {
		enrollment := &Enrollment{}
		err := rows.Scan(
			&enrollment.Student.ID, &enrollment.Student.Name, &enrollment.Student.ImageURL,
			&enrollment.CourseTitle, &enrollment.PurchaseDate, &total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Purchase", "scan_purchase")
		}
		enrollments = append(enrollments, enrollment)
	}

	return enrollments, total, dberr.Wrap(rows.Err(), "Purchase", "iterate_purchases")
}
