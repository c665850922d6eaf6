package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"quickstudy/models"
	"quickstudy/services/generator"
	"quickstudy/services/pdfproc"
	"quickstudy/storage"
)

type CourseResponse struct {
	Course *models.Course `json:"course"`
	Cached bool           `json:"cached"`
	Saved  bool           `json:"saved"`
}

type CourseHandler struct {
	store          storage.CourseStore
	generator      *generator.Service
	maxUploadBytes int64
}

func NewCourseHandler(store storage.CourseStore, gen *generator.Service, maxUploadBytes int64) *CourseHandler {
	return &CourseHandler{
		store:          store,
		generator:      gen,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *CourseHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/courses", h.CreateCourse).Methods("POST")
	router.HandleFunc("/courses", h.ListCourses).Methods("GET")
	router.HandleFunc("/courses/{courseID}", h.GetCourse).Methods("GET")
}

// CreateCourse ingests a PDF plus a free-text study preference and generates
// the full course. Re-uploading unchanged bytes short-circuits to the stored
// course via the content hash.
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received course creation request")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		log.Printf("[ERROR] Failed to parse upload: %v", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("pdf")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "A pdf file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("[ERROR] Failed to read uploaded file: %v", err)
		writeErrorResponse(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	userPrompt := r.FormValue("prompt")
	courseID := pdfproc.HashDocument(data)

	if h.store.CourseExists(courseID) {
		course, err := h.store.LoadCourse(courseID)
		if err == nil {
			log.Printf("[INFO] Course %s already exists, returning cached copy", courseID)
			writeJSONResponse(w, http.StatusOK, CourseResponse{Course: course, Cached: true, Saved: true})
			return
		}
		log.Printf("[ERROR] Failed to load cached course %s, regenerating: %v", courseID, err)
	}

	docText, meta, err := pdfproc.ExtractText(data)
	if err != nil {
		log.Printf("[ERROR] Failed to extract text: %v", err)
		writeErrorResponse(w, http.StatusBadRequest, "Could not extract text from the PDF")
		return
	}
	log.Printf("[INFO] Extracted %d pages from %s", meta.PageCount, header.Filename)

	course, err := h.generator.GenerateCourse(r.Context(), docText, userPrompt, courseID, header.Filename)
	if err != nil {
		log.Printf("[ERROR] Course generation failed: %v", err)
		writeErrorResponse(w, http.StatusBadGateway, "Course generation failed: "+err.Error())
		return
	}

	saved := true
	if err := h.store.SaveCourse(course); err != nil {
		// A storage failure should not discard a successfully generated
		// course; the caller still gets the document.
		log.Printf("[ERROR] Failed to save course %s: %v", courseID, err)
		saved = false
	}

	log.Printf("[INFO] Course %s created with %d slides", courseID, len(course.Slides))
	writeJSONResponse(w, http.StatusCreated, CourseResponse{Course: course, Saved: saved})
}

func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["courseID"]

	course, err := h.store.LoadCourse(courseID)
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, "Course not found")
		return
	}

	writeJSONResponse(w, http.StatusOK, course)
}

func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.store.ListCourses()
	if err != nil {
		log.Printf("[ERROR] Failed to list courses: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to list courses")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"courses": summaries})
}
