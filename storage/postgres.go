package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"quickstudy/models"
)

// PostgresStore is the DB-backed alternative to the flat-file store,
// selected when a database URL is configured. Course and progress documents
// are stored whole as JSON columns.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) SaveCourse(course *models.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("failed to marshal course: %w", err)
	}

	query := `
		INSERT INTO quickstudy.courses (course_id, data, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (course_id) DO UPDATE SET data = EXCLUDED.data`

	if _, err := s.db.Exec(query, course.CourseID, data, course.CreatedAt); err != nil {
		return fmt.Errorf("failed to save course: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadCourse(courseID string) (*models.Course, error) {
	query := `SELECT data FROM quickstudy.courses WHERE course_id = $1`

	var data []byte
	if err := s.db.QueryRow(query, courseID).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("course %s not found", courseID)
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	course := &models.Course{}
	if err := json.Unmarshal(data, course); err != nil {
		return nil, fmt.Errorf("failed to unmarshal course: %w", err)
	}
	return course, nil
}

func (s *PostgresStore) CourseExists(courseID string) bool {
	query := `SELECT 1 FROM quickstudy.courses WHERE course_id = $1`

	var one int
	err := s.db.QueryRow(query, courseID).Scan(&one)
	return err == nil
}

func (s *PostgresStore) ListCourses() ([]CourseSummary, error) {
	query := `SELECT data FROM quickstudy.courses ORDER BY created_at DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	summaries := make([]CourseSummary, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}

		var course models.Course
		if err := json.Unmarshal(data, &course); err != nil {
			return nil, fmt.Errorf("failed to unmarshal course: %w", err)
		}

		summaries = append(summaries, CourseSummary{
			CourseID:         course.CourseID,
			OriginalFileName: course.OriginalFileName,
			SlideCount:       len(course.Slides),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over courses: %w", err)
	}
	return summaries, nil
}

func (s *PostgresStore) GetProgress(courseID, userID string) (*models.Progress, error) {
	query := `SELECT data FROM quickstudy.progress WHERE course_id = $1 AND user_id = $2`

	var data []byte
	if err := s.db.QueryRow(query, courseID, userID).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NewProgress(), nil
		}
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	progress := models.NewProgress()
	if err := json.Unmarshal(data, progress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
	}
	return progress, nil
}

func (s *PostgresStore) SaveProgress(courseID, userID string, progress *models.Progress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	query := `
		INSERT INTO quickstudy.progress (course_id, user_id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (course_id, user_id) DO UPDATE SET data = EXCLUDED.data`

	if _, err := s.db.Exec(query, courseID, userID, data); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
