package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"quickstudy/models"
)

// FileStore keeps one JSON document per course and one per (course, user)
// progress pair under a single base directory. Single-writer flat files; no
// durability guarantees beyond that.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create courses directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(baseDir, "images"), 0o755); err != nil {
		return nil, fmt.Errorf("create images directory: %w", err)
	}

	return &FileStore{baseDir: baseDir}, nil
}

// ImagesDir is where downloaded slide images land.
func (s *FileStore) ImagesDir() string {
	return filepath.Join(s.baseDir, "images")
}

func (s *FileStore) SaveCourse(course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeJSON(s.coursePath(course.CourseID), course)
}

func (s *FileStore) LoadCourse(courseID string) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var course models.Course
	if err := readJSON(s.coursePath(courseID), &course); err != nil {
		return nil, fmt.Errorf("load course %s: %w", courseID, err)
	}
	return &course, nil
}

func (s *FileStore) CourseExists(courseID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.coursePath(courseID))
	return err == nil
}

func (s *FileStore) ListCourses() ([]CourseSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("list courses directory: %w", err)
	}

	summaries := make([]CourseSummary, 0)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.Contains(name, "_progress") {
			continue
		}

		var course models.Course
		if err := readJSON(filepath.Join(s.baseDir, name), &course); err != nil {
			log.Printf("[ERROR] Skipping unreadable course file %s: %v", name, err)
			continue
		}

		summaries = append(summaries, CourseSummary{
			CourseID:         course.CourseID,
			OriginalFileName: course.OriginalFileName,
			SlideCount:       len(course.Slides),
		})
	}

	return summaries, nil
}

// GetProgress loads the progress record for a (course, user) pair. A missing
// file yields a fresh default record, never an error.
func (s *FileStore) GetProgress(courseID, userID string) (*models.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var progress models.Progress
	err := readJSON(s.progressPath(courseID, userID), &progress)
	if errors.Is(err, os.ErrNotExist) {
		return models.NewProgress(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress for course %s user %s: %w", courseID, userID, err)
	}

	if progress.QuizAnswers == nil {
		progress.QuizAnswers = map[int]models.Answer{}
	}
	if progress.QuizScores == nil {
		progress.QuizScores = map[int]models.EvaluationResult{}
	}
	if progress.Bookmarks == nil {
		progress.Bookmarks = []int{}
	}

	return &progress, nil
}

func (s *FileStore) SaveProgress(courseID, userID string, progress *models.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeJSON(s.progressPath(courseID, userID), progress)
}

func (s *FileStore) coursePath(courseID string) string {
	return filepath.Join(s.baseDir, courseID+".json")
}

func (s *FileStore) progressPath(courseID, userID string) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_%s_progress.json", courseID, userID))
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
