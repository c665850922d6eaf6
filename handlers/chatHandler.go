package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"quickstudy/services/chat"
	"quickstudy/storage"
)

type ChatRequest struct {
	Question string `json:"question"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

type ChatHandler struct {
	courses storage.CourseStore
	chat    *chat.Service
}

func NewChatHandler(courses storage.CourseStore, chatService *chat.Service) *ChatHandler {
	return &ChatHandler{courses: courses, chat: chatService}
}

func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/courses/{courseID}/chat", h.AskQuestion).Methods("POST")
}

// AskQuestion answers a free-form question about the course material.
func (h *ChatHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["courseID"]

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.Question == "" {
		writeErrorResponse(w, http.StatusBadRequest, "Question is required")
		return
	}

	course, err := h.courses.LoadCourse(courseID)
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, "Course not found")
		return
	}

	answer, err := h.chat.Answer(r.Context(), course, req.Question)
	if err != nil {
		log.Printf("[ERROR] Failed to answer question for course %s: %v", courseID, err)
		writeErrorResponse(w, http.StatusBadGateway, "Failed to answer question")
		return
	}

	writeJSONResponse(w, http.StatusOK, ChatResponse{Answer: answer})
}
