package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"quickstudy/models"
	"quickstudy/services/evaluator"
	"quickstudy/storage"
)

type EvaluateRequest struct {
	UserID  string        `json:"user_id"`
	SlideID int           `json:"slide_id"`
	Answer  models.Answer `json:"answer"`
}

type EvaluateResponse struct {
	UserID string                  `json:"user_id"`
	Result models.EvaluationResult `json:"result"`
}

type ProgressUpdateRequest struct {
	CurrentSlide   *int `json:"current_slide,omitempty"`
	ToggleBookmark *int `json:"toggle_bookmark,omitempty"`
}

// ProgressHandler owns the evaluation and study-progress flows. All mutating
// actions rewrite the whole progress record.
type ProgressHandler struct {
	courses   storage.CourseStore
	progress  storage.ProgressStore
	evaluator *evaluator.Service
}

func NewProgressHandler(courses storage.CourseStore, progress storage.ProgressStore, eval *evaluator.Service) *ProgressHandler {
	return &ProgressHandler{
		courses:   courses,
		progress:  progress,
		evaluator: eval,
	}
}

func (h *ProgressHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/courses/{courseID}/evaluate", h.EvaluateAnswer).Methods("POST")
	router.HandleFunc("/courses/{courseID}/progress/{userID}", h.GetProgress).Methods("GET")
	router.HandleFunc("/courses/{courseID}/progress/{userID}", h.UpdateProgress).Methods("POST")
}

// EvaluateAnswer grades one submitted answer and records the outcome in the
// user's progress. A persistence failure is logged but never withholds the
// evaluation result.
func (h *ProgressHandler) EvaluateAnswer(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["courseID"]

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.UserID == "" {
		req.UserID = uuid.NewString()
	}

	course, err := h.courses.LoadCourse(courseID)
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, "Course not found")
		return
	}

	slide, found := lo.Find(course.Slides, func(s models.Slide) bool {
		return s.ID == req.SlideID
	})
	if !found {
		writeErrorResponse(w, http.StatusNotFound, "Slide not found")
		return
	}

	result := h.evaluator.Evaluate(r.Context(), req.Answer, slide.Quiz, slide.Title+"\n"+slide.Content)

	progress, err := h.progress.GetProgress(courseID, req.UserID)
	if err != nil {
		log.Printf("[ERROR] Failed to load progress for %s/%s: %v", courseID, req.UserID, err)
		progress = models.NewProgress()
	}

	progress.QuizAnswers[req.SlideID] = req.Answer
	progress.QuizScores[req.SlideID] = result
	progress.LastAccessed = time.Now().UTC()

	if err := h.progress.SaveProgress(courseID, req.UserID, progress); err != nil {
		log.Printf("[ERROR] Failed to save progress for %s/%s: %v", courseID, req.UserID, err)
	}

	writeJSONResponse(w, http.StatusOK, EvaluateResponse{UserID: req.UserID, Result: result})
}

func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	progress, err := h.progress.GetProgress(vars["courseID"], vars["userID"])
	if err != nil {
		log.Printf("[ERROR] Failed to load progress: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to load progress")
		return
	}

	writeJSONResponse(w, http.StatusOK, progress)
}

// UpdateProgress records navigation and bookmark events.
func (h *ProgressHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courseID, userID := vars["courseID"], vars["userID"]

	var req ProgressUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	progress, err := h.progress.GetProgress(courseID, userID)
	if err != nil {
		log.Printf("[ERROR] Failed to load progress: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to load progress")
		return
	}

	if req.CurrentSlide != nil {
		progress.CurrentSlide = *req.CurrentSlide
	}
	if req.ToggleBookmark != nil {
		progress.Bookmarks = toggleBookmark(progress.Bookmarks, *req.ToggleBookmark)
	}
	progress.LastAccessed = time.Now().UTC()

	if err := h.progress.SaveProgress(courseID, userID, progress); err != nil {
		log.Printf("[ERROR] Failed to save progress: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to save progress")
		return
	}

	writeJSONResponse(w, http.StatusOK, progress)
}

func toggleBookmark(bookmarks []int, slideID int) []int {
	if lo.Contains(bookmarks, slideID) {
		return lo.Filter(bookmarks, func(id int, _ int) bool {
			return id != slideID
		})
	}
	return append(bookmarks, slideID)
}
