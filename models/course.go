package models

import "time"

// TOCEntry is one top-level section descriptor of a generated course.
// StartSlide is always computed from the estimated slide counts of the
// preceding entries, never taken from model output.
type TOCEntry struct {
	Title               string   `json:"title"`
	Pages               string   `json:"pages"`
	Subtopics           []string `json:"subtopics"`
	KeyConcepts         []string `json:"key_concepts"`
	EstimatedSlideCount int      `json:"estimated_slide_count"`
	StartSlide          int      `json:"start_slide"`
}

// Slide is one unit of study content. IDs are globally unique and strictly
// increasing across the whole course; SectionID indexes into the course TOC.
type Slide struct {
	ID           int      `json:"id"`
	SectionID    int      `json:"section_id"`
	SectionTitle string   `json:"section_title"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	KeyPoints    []string `json:"key_points"`
	ImagePrompt  string   `json:"image_prompt"`
	ImagePath    *string  `json:"image_path"`
	Quiz         *Quiz    `json:"quiz"`
}

// Course is the complete generated artifact, keyed by a content hash of the
// source document so re-uploading an unchanged file is idempotent.
type Course struct {
	CourseID         string     `json:"course_id"`
	OriginalFileName string     `json:"original_file_name"`
	UserPrompt       string     `json:"user_prompt"`
	CreatedAt        time.Time  `json:"created_at"`
	TOC              []TOCEntry `json:"toc"`
	Slides           []Slide    `json:"slides"`
}
