// Package chat answers free-form student questions about a generated course,
// grounding the model in the most relevant slides.
package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"quickstudy/models"
	"quickstudy/services/llm"
)

const (
	CHAT_SYSTEM_PROMPT = `You are an educational tutor. Answer the student's question based on the provided course material. Be clear and concise, and say so when the material does not cover the question.`

	CHAT_PROMPT = `Course material:
%s

Student question: %s

Provide a clear, educational response grounded in the material above.`

	chatTemperature = 0.7
	maxContextChars = 3000
)

type Service struct {
	completer llm.Completer
}

func NewService(completer llm.Completer) *Service {
	return &Service{completer: completer}
}

// Answer responds to one student question using slides matched against the
// question as context. When nothing matches, the head of the course is used
// so the tutor still has material to work from.
func (s *Service) Answer(ctx context.Context, course *models.Course, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question is required")
	}

	relevant := relevantSlides(course.Slides, question)
	if len(relevant) == 0 {
		relevant = course.Slides
	}

	contextText := buildContext(relevant)

	log.Printf("[INFO] Answering course question with %d context slides", len(relevant))
	answer, err := s.completer.Complete(ctx, fmt.Sprintf(CHAT_PROMPT, contextText, question), CHAT_SYSTEM_PROMPT, chatTemperature)
	if err != nil {
		return "", fmt.Errorf("failed to generate chat response: %w", err)
	}

	return answer, nil
}

func relevantSlides(slides []models.Slide, question string) []models.Slide {
	terms := searchTerms(question)
	if len(terms) == 0 {
		return nil
	}

	var matching []models.Slide
	for _, slide := range slides {
		if slideMatchesQuery(slide, terms) {
			matching = append(matching, slide)
		}
	}
	return matching
}

// searchTerms keeps the question words worth matching on, dropping short
// glue words.
func searchTerms(question string) []string {
	var terms []string
	for _, word := range strings.Fields(strings.ToLower(question)) {
		word = strings.Trim(word, ".,!?;:()[]{}\"'")
		if len(word) > 3 {
			terms = append(terms, word)
		}
	}
	return terms
}

func slideMatchesQuery(slide models.Slide, terms []string) bool {
	haystack := slide.Title + " " + slide.Content + " " + strings.Join(slide.KeyPoints, " ")
	words := strings.Fields(strings.ToLower(haystack))

	cleanWords := make([]string, 0, len(words))
	for _, word := range words {
		cleanWord := strings.Trim(word, ".,!?;:()[]{}\"'")
		if len(cleanWord) > 0 {
			cleanWords = append(cleanWords, cleanWord)
		}
	}

	for _, term := range terms {
		if fuzzy.MatchFold(term, haystack) {
			return true
		}
		if len(fuzzy.Find(term, cleanWords)) > 0 {
			return true
		}
	}
	return false
}

func buildContext(slides []models.Slide) string {
	var context strings.Builder
	for _, slide := range slides {
		section := fmt.Sprintf("## %s\n%s\n", slide.Title, slide.Content)
		if context.Len()+len(section) > maxContextChars {
			break
		}
		context.WriteString(section)
	}

	if context.Len() == 0 && len(slides) > 0 {
		content := slides[0].Content
		if len(content) > maxContextChars {
			content = content[:maxContextChars]
		}
		return content
	}

	return context.String()
}
