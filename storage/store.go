// Package storage persists courses and per-user progress. Courses are
// written once and read many times; progress is read with defaulting and
// written wholesale on every mutating action.
package storage

import "quickstudy/models"

// CourseSummary is the listing shape for stored courses.
type CourseSummary struct {
	CourseID         string `json:"course_id"`
	OriginalFileName string `json:"original_file_name"`
	SlideCount       int    `json:"slide_count"`
}

type CourseStore interface {
	SaveCourse(course *models.Course) error
	LoadCourse(courseID string) (*models.Course, error)
	CourseExists(courseID string) bool
	ListCourses() ([]CourseSummary, error)
}

// ProgressStore keys progress by (course, user). A missing record is not an
// error: GetProgress synthesizes defaults.
type ProgressStore interface {
	GetProgress(courseID, userID string) (*models.Progress, error)
	SaveProgress(courseID, userID string, progress *models.Progress) error
}
