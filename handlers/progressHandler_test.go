package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"quickstudy/models"
	"quickstudy/services/evaluator"
	"quickstudy/storage"
)

func seedStore(t *testing.T) *storage.FileStore {
	t.Helper()

	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	course := &models.Course{
		CourseID:         "course-1",
		OriginalFileName: "lecture.pdf",
		CreatedAt:        time.Now().UTC(),
		TOC:              []models.TOCEntry{{Title: "Basics", EstimatedSlideCount: 1}},
		Slides: []models.Slide{
			{
				ID:           0,
				SectionTitle: "Basics",
				Title:        "Models",
				Content:      "A model maps inputs to outputs.",
				Quiz: &models.Quiz{
					Question:      "Pick the right option",
					Type:          models.QuizTypeMultipleChoice,
					Options:       []string{"right", "wrong"},
					CorrectAnswer: models.SingleAnswer("right"),
					IdealAnswer:   "right is correct because it is right.",
				},
			},
			{ID: 1, SectionTitle: "Basics", Title: "No quiz here", Content: "Plain slide."},
		},
	}
	if err := store.SaveCourse(course); err != nil {
		t.Fatalf("SaveCourse returned error: %v", err)
	}
	return store
}

func progressRouter(store *storage.FileStore) *mux.Router {
	handler := NewProgressHandler(store, store, evaluator.NewService(nil, evaluator.DefaultConfig()))
	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestEvaluateAnswer(t *testing.T) {
	store := seedStore(t)
	router := progressRouter(store)

	body := `{"user_id": "user-1", "slide_id": 0, "answer": "right"}`
	req := httptest.NewRequest("POST", "/courses/course-1/evaluate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp EvaluateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.UserID != "user-1" {
		t.Errorf("Expected user id to be echoed, got %q", resp.UserID)
	}
	if !resp.Result.IsCorrect || resp.Result.Score != 10 {
		t.Errorf("Expected correct evaluation, got %+v", resp.Result)
	}

	// The evaluation must have been recorded.
	progress, err := store.GetProgress("course-1", "user-1")
	if err != nil {
		t.Fatalf("GetProgress returned error: %v", err)
	}
	if answer, ok := progress.QuizAnswers[0]; !ok || answer.Value() != "right" {
		t.Errorf("Expected answer recorded in progress, got %+v", progress.QuizAnswers)
	}
	if score, ok := progress.QuizScores[0]; !ok || score.Score != 10 {
		t.Errorf("Expected score recorded in progress, got %+v", progress.QuizScores)
	}
}

func TestEvaluateAnswerAssignsUserID(t *testing.T) {
	router := progressRouter(seedStore(t))

	body := `{"slide_id": 0, "answer": "wrong"}`
	req := httptest.NewRequest("POST", "/courses/course-1/evaluate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp EvaluateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.UserID == "" {
		t.Error("Expected a generated user id for an anonymous evaluation")
	}
	if resp.Result.IsCorrect {
		t.Errorf("Expected wrong answer to be incorrect, got %+v", resp.Result)
	}
}

func TestEvaluateAnswerErrors(t *testing.T) {
	router := progressRouter(seedStore(t))

	tests := []struct {
		name     string
		url      string
		body     string
		wantCode int
	}{
		{"unknown course", "/courses/missing/evaluate", `{"slide_id": 0, "answer": "x"}`, http.StatusNotFound},
		{"unknown slide", "/courses/course-1/evaluate", `{"slide_id": 99, "answer": "x"}`, http.StatusNotFound},
		{"bad json", "/courses/course-1/evaluate", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", tt.url, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("Expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestUpdateProgress(t *testing.T) {
	router := progressRouter(seedStore(t))

	post := func(body string) *models.Progress {
		t.Helper()
		req := httptest.NewRequest("POST", "/courses/course-1/progress/user-1", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var progress models.Progress
		if err := json.Unmarshal(rec.Body.Bytes(), &progress); err != nil {
			t.Fatalf("Failed to decode progress: %v", err)
		}
		return &progress
	}

	progress := post(`{"current_slide": 3}`)
	if progress.CurrentSlide != 3 {
		t.Errorf("Expected current slide 3, got %d", progress.CurrentSlide)
	}

	progress = post(`{"toggle_bookmark": 1}`)
	if len(progress.Bookmarks) != 1 || progress.Bookmarks[0] != 1 {
		t.Errorf("Expected bookmark on slide 1, got %v", progress.Bookmarks)
	}
	if progress.CurrentSlide != 3 {
		t.Errorf("Expected current slide to persist, got %d", progress.CurrentSlide)
	}

	progress = post(`{"toggle_bookmark": 1}`)
	if len(progress.Bookmarks) != 0 {
		t.Errorf("Expected bookmark toggled off, got %v", progress.Bookmarks)
	}
}

func TestGetProgressDefaults(t *testing.T) {
	router := progressRouter(seedStore(t))

	req := httptest.NewRequest("GET", "/courses/course-1/progress/new-user", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var progress models.Progress
	if err := json.Unmarshal(rec.Body.Bytes(), &progress); err != nil {
		t.Fatalf("Failed to decode progress: %v", err)
	}
	if progress.CurrentSlide != 0 || len(progress.Bookmarks) != 0 {
		t.Errorf("Expected fresh progress, got %+v", progress)
	}
}
