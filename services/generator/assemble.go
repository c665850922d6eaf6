package generator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/samber/lo"

	"quickstudy/models"
)

// slideCounter hands out globally unique, strictly increasing slide ids for
// one assembly pass. It is an explicit accumulator rather than shared state
// so the uniqueness invariant is verifiable in isolation.
type slideCounter struct {
	next int
}

func (c *slideCounter) take() int {
	id := c.next
	c.next++
	return id
}

// GenerateCourse runs the full pipeline: table of contents, then section by
// section assembly. If the TOC step fails irrecoverably the whole operation
// fails outright; a course is never silently created empty.
func (s *Service) GenerateCourse(ctx context.Context, docText, userPrompt, courseID, fileName string) (*models.Course, error) {
	toc, err := s.requester.GenerateTOC(ctx, docText, userPrompt)
	if err != nil {
		return nil, err
	}

	slides, err := s.Assemble(ctx, toc, docText, userPrompt, courseID)
	if err != nil {
		return nil, err
	}

	return &models.Course{
		CourseID:         courseID,
		OriginalFileName: fileName,
		UserPrompt:       userPrompt,
		CreatedAt:        time.Now().UTC(),
		TOC:              toc,
		Slides:           slides,
	}, nil
}

// Assemble expands every TOC entry into slides, in document order. Slide ids
// increase strictly across the whole course and slides stay contiguous per
// section. On a section-level transport failure the slides built so far are
// returned alongside the error; keeping or discarding the partial result is
// the caller's choice.
func (s *Service) Assemble(ctx context.Context, toc []models.TOCEntry, fullText, userPrompt, courseID string) ([]models.Slide, error) {
	allSlides := make([]models.Slide, 0)
	counter := &slideCounter{}

	for sectionIdx, section := range toc {
		if err := s.pacer.Wait(ctx); err != nil {
			return allSlides, err
		}

		log.Printf("[INFO] Processing section %d/%d: %s", sectionIdx+1, len(toc), section.Title)

		sectionText := ExtractSectionText(section, fullText, s.cfg.WindowSize)

		payload, err := s.requester.GenerateSectionContent(ctx, section, sectionText, userPrompt)
		if err != nil {
			return allSlides, fmt.Errorf("section %d (%s): %w", sectionIdx, section.Title, err)
		}

		for slideIdx, slideData := range payload.Slides {
			slide := models.Slide{
				ID:           counter.take(),
				SectionID:    sectionIdx,
				SectionTitle: section.Title,
				Title:        slideData.Title,
				Content:      slideData.Content,
				KeyPoints:    slideData.KeyPoints,
				ImagePrompt:  slideData.ImagePrompt,
			}
			if slide.Title == "" {
				slide.Title = fmt.Sprintf("Slide %d", slideIdx+1)
			}
			if slide.KeyPoints == nil {
				slide.KeyPoints = []string{}
			}

			s.attachImage(ctx, &slide, courseID)

			allSlides = append(allSlides, slide)
		}

		distributeQuizzes(allSlides, sectionIdx, payload.Quizzes)
	}

	log.Printf("[INFO] Assembled %d total slides across %d sections", len(allSlides), len(toc))
	return allSlides, nil
}

func (s *Service) attachImage(ctx context.Context, slide *models.Slide, courseID string) {
	if s.images == nil || slide.ImagePrompt == "" {
		return
	}

	path, err := s.images.Lookup(ctx, slide.ImagePrompt, courseID, fmt.Sprintf("slide_%d", slide.ID))
	if err != nil {
		log.Printf("[ERROR] Image lookup failed for slide %d: %v", slide.ID, err)
		return
	}
	if path != "" {
		slide.ImagePath = &path
	}
}

// distributeQuizzes places a section's quizzes on slides of that section
// only. The first quiz always lands on the section's last slide as a closing
// check; a second quiz lands on the midpoint slide when the section has more
// than two slides. Quizzes beyond the second are dropped.
func distributeQuizzes(allSlides []models.Slide, sectionIdx int, quizzes []models.Quiz) {
	if len(quizzes) == 0 {
		return
	}

	sectionSlides := lo.Filter(lo.Range(len(allSlides)), func(i int, _ int) bool {
		return allSlides[i].SectionID == sectionIdx
	})
	if len(sectionSlides) == 0 {
		return
	}

	last := sectionSlides[len(sectionSlides)-1]
	quiz := quizzes[0]
	allSlides[last].Quiz = &quiz

	if len(quizzes) > 1 && len(sectionSlides) > 2 {
		mid := sectionSlides[len(sectionSlides)/2]
		second := quizzes[1]
		allSlides[mid].Quiz = &second
	}
}
