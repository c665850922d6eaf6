package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"quickstudy/services/tasks"
)

type TaskBatchRequest struct {
	Tasks []tasks.Task `json:"tasks"`
}

type TaskBatchResponse struct {
	Results []tasks.Result `json:"results"`
}

type AgentHandler struct {
	coordinator *tasks.Coordinator
}

func NewAgentHandler(coordinator *tasks.Coordinator) *AgentHandler {
	return &AgentHandler{coordinator: coordinator}
}

func (h *AgentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/agent/tasks", h.RunTasks).Methods("POST")
}

// RunTasks executes a batch of study tasks concurrently. Per-task failures
// are reported inline, the batch itself always succeeds.
func (h *AgentHandler) RunTasks(w http.ResponseWriter, r *http.Request) {
	var req TaskBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if len(req.Tasks) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "At least one task is required")
		return
	}

	results := h.coordinator.RunAll(r.Context(), req.Tasks)
	writeJSONResponse(w, http.StatusOK, TaskBatchResponse{Results: results})
}
