package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"quickstudy/models"
	"quickstudy/services/textgen"
)

type fakeRequester struct {
	toc      []models.TOCEntry
	sections map[string]*textgen.SectionPayload
	failOn   string
}

func (f *fakeRequester) GenerateTOC(ctx context.Context, docText, userPrompt string) ([]models.TOCEntry, error) {
	return f.toc, nil
}

func (f *fakeRequester) GenerateSectionContent(ctx context.Context, section models.TOCEntry, sectionText, userPrompt string) (*textgen.SectionPayload, error) {
	if section.Title == f.failOn {
		return nil, errors.New("transport failure")
	}
	payload, ok := f.sections[section.Title]
	if !ok {
		return textgen.FallbackSectionPayload(section.Title), nil
	}
	return payload, nil
}

type recordingImageLookup struct {
	queries []string
	err     error
}

func (r *recordingImageLookup) Lookup(ctx context.Context, query, courseID, slideName string) (string, error) {
	r.queries = append(r.queries, query)
	if r.err != nil {
		return "", r.err
	}
	return "/images/" + slideName + ".jpg", nil
}

func slides(n int) []textgen.SlidePayload {
	out := make([]textgen.SlidePayload, n)
	for i := range out {
		out[i] = textgen.SlidePayload{
			Title:   fmt.Sprintf("Topic %d", i+1),
			Content: "Body text.",
		}
	}
	return out
}

func mcQuiz(question string) models.Quiz {
	return models.Quiz{
		Type:        models.QuizTypeMultipleChoice,
		Question:    question,
		Options:     []string{"a", "b"},
		IdealAnswer: "a",
	}
}

func TestAssembleSlideIDs(t *testing.T) {
	requester := &fakeRequester{
		toc: []models.TOCEntry{
			{Title: "Alpha", EstimatedSlideCount: 2},
			{Title: "Beta", EstimatedSlideCount: 3},
		},
		sections: map[string]*textgen.SectionPayload{
			"Alpha": {Slides: slides(2)},
			"Beta":  {Slides: slides(3)},
		},
	}

	svc := NewService(requester, nil, NopPacer{}, Config{WindowSize: 500})

	got, err := svc.Assemble(context.Background(), requester.toc, "document text", "", "course-1")
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}

	if len(got) != 5 {
		t.Fatalf("Expected 5 slides, got %d", len(got))
	}
	for i, slide := range got {
		if slide.ID != i {
			t.Errorf("Expected slide %d to have id %d, got %d", i, i, slide.ID)
		}
	}
	for i, slide := range got[:2] {
		if slide.SectionID != 0 || slide.SectionTitle != "Alpha" {
			t.Errorf("Slide %d: expected section 0 (Alpha), got %d (%s)", i, slide.SectionID, slide.SectionTitle)
		}
	}
	for i, slide := range got[2:] {
		if slide.SectionID != 1 || slide.SectionTitle != "Beta" {
			t.Errorf("Slide %d: expected section 1 (Beta), got %d (%s)", i+2, slide.SectionID, slide.SectionTitle)
		}
	}
}

func TestAssembleDefaultSlideTitle(t *testing.T) {
	requester := &fakeRequester{
		toc: []models.TOCEntry{{Title: "Alpha"}},
		sections: map[string]*textgen.SectionPayload{
			"Alpha": {Slides: []textgen.SlidePayload{{Content: "untitled body"}}},
		},
	}

	svc := NewService(requester, nil, NopPacer{}, Config{WindowSize: 500})

	got, err := svc.Assemble(context.Background(), requester.toc, "doc", "", "course-1")
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if got[0].Title != "Slide 1" {
		t.Errorf("Expected default title 'Slide 1', got %q", got[0].Title)
	}
	if got[0].KeyPoints == nil {
		t.Error("Expected key points to be non-nil")
	}
}

func TestDistributeQuizzes(t *testing.T) {
	tests := []struct {
		name       string
		slideCount int
		quizzes    []models.Quiz
		wantQuizAt []int
	}{
		{
			name:       "single quiz lands on last slide",
			slideCount: 3,
			quizzes:    []models.Quiz{mcQuiz("q1")},
			wantQuizAt: []int{2},
		},
		{
			name:       "second quiz lands on midpoint",
			slideCount: 4,
			quizzes:    []models.Quiz{mcQuiz("q1"), mcQuiz("q2")},
			wantQuizAt: []int{3, 2},
		},
		{
			name:       "second quiz dropped in a two-slide section",
			slideCount: 2,
			quizzes:    []models.Quiz{mcQuiz("q1"), mcQuiz("q2")},
			wantQuizAt: []int{1},
		},
		{
			name:       "third quiz is always dropped",
			slideCount: 5,
			quizzes:    []models.Quiz{mcQuiz("q1"), mcQuiz("q2"), mcQuiz("q3")},
			wantQuizAt: []int{4, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requester := &fakeRequester{
				toc: []models.TOCEntry{{Title: "Alpha"}},
				sections: map[string]*textgen.SectionPayload{
					"Alpha": {Slides: slides(tt.slideCount), Quizzes: tt.quizzes},
				},
			}
			svc := NewService(requester, nil, NopPacer{}, Config{WindowSize: 500})

			got, err := svc.Assemble(context.Background(), requester.toc, "doc", "", "course-1")
			if err != nil {
				t.Fatalf("Assemble returned error: %v", err)
			}

			placed := 0
			for i, slide := range got {
				if slide.Quiz != nil {
					placed++
					foundExpected := false
					for qi, at := range tt.wantQuizAt {
						if at == i && slide.Quiz.Question == tt.quizzes[qi].Question {
							foundExpected = true
						}
					}
					if !foundExpected {
						t.Errorf("Unexpected quiz %q on slide %d", slide.Quiz.Question, i)
					}
				}
			}
			if placed != len(tt.wantQuizAt) {
				t.Errorf("Expected %d quizzes placed, got %d", len(tt.wantQuizAt), placed)
			}
		})
	}
}

func TestAssembleSectionFailureReturnsPartial(t *testing.T) {
	requester := &fakeRequester{
		toc: []models.TOCEntry{
			{Title: "Alpha"},
			{Title: "Beta"},
		},
		sections: map[string]*textgen.SectionPayload{
			"Alpha": {Slides: slides(2)},
		},
		failOn: "Beta",
	}

	svc := NewService(requester, nil, NopPacer{}, Config{WindowSize: 500})

	got, err := svc.Assemble(context.Background(), requester.toc, "doc", "", "course-1")
	if err == nil {
		t.Fatal("Expected error from failing section")
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 slides from the completed section, got %d", len(got))
	}
}

func TestAssembleImageLookupFailureNotFatal(t *testing.T) {
	requester := &fakeRequester{
		toc: []models.TOCEntry{{Title: "Alpha"}},
		sections: map[string]*textgen.SectionPayload{
			"Alpha": {Slides: []textgen.SlidePayload{
				{Title: "With image", Content: "x", ImagePrompt: "diagram of a neuron"},
				{Title: "No prompt", Content: "y"},
			}},
		},
	}
	lookup := &recordingImageLookup{err: errors.New("search quota exceeded")}

	svc := NewService(requester, lookup, NopPacer{}, Config{WindowSize: 500})

	got, err := svc.Assemble(context.Background(), requester.toc, "doc", "", "course-1")
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}

	if len(lookup.queries) != 1 || lookup.queries[0] != "diagram of a neuron" {
		t.Errorf("Expected one lookup for the prompted slide, got %v", lookup.queries)
	}
	if got[0].ImagePath != nil {
		t.Error("Expected no image path after failed lookup")
	}
}

func TestGenerateCourse(t *testing.T) {
	requester := &fakeRequester{
		toc: []models.TOCEntry{{Title: "Alpha"}},
		sections: map[string]*textgen.SectionPayload{
			"Alpha": {Slides: slides(2)},
		},
	}
	lookup := &recordingImageLookup{}

	svc := NewService(requester, lookup, NopPacer{}, Config{WindowSize: 500})

	course, err := svc.GenerateCourse(context.Background(), "doc text", "focus on basics", "course-42", "lecture.pdf")
	if err != nil {
		t.Fatalf("GenerateCourse returned error: %v", err)
	}

	if course.CourseID != "course-42" {
		t.Errorf("Expected course id 'course-42', got %q", course.CourseID)
	}
	if course.OriginalFileName != "lecture.pdf" {
		t.Errorf("Expected file name 'lecture.pdf', got %q", course.OriginalFileName)
	}
	if course.UserPrompt != "focus on basics" {
		t.Errorf("Expected user prompt to be preserved, got %q", course.UserPrompt)
	}
	if len(course.TOC) != 1 || len(course.Slides) != 2 {
		t.Errorf("Expected 1 TOC entry and 2 slides, got %d and %d", len(course.TOC), len(course.Slides))
	}
	if course.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}
}
