package generator

import (
	"strings"

	"quickstudy/models"
)

// minLinesBeforeBoundary guards against cutting a section off on an early
// line that merely mentions "section" or "chapter" in its body text.
const minLinesBeforeBoundary = 6

var boundaryMarkers = []string{"--- page", "chapter", "section"}

// ExtractSectionText scans the document line by line for a window of text
// plausibly belonging to the given section. A line starts the section when it
// contains the section title, or any of the title's first three words,
// case-insensitively. Collection stops at the window size or at a plausible
// new-section boundary once enough lines are in hand. If the title never
// matches, the head of the document is returned instead. This is a heuristic:
// matching the wrong section or falling back to the head are accepted
// outcomes, not errors.
func ExtractSectionText(section models.TOCEntry, fullText string, windowSize int) string {
	titleLower := strings.ToLower(section.Title)
	titleWords := strings.Fields(titleLower)
	if len(titleWords) > 3 {
		titleWords = titleWords[:3]
	}

	lines := strings.Split(fullText, "\n")

	var collected []string
	found := false
	size := 0

	for _, line := range lines {
		lineLower := strings.ToLower(strings.TrimSpace(line))

		if !found {
			if matchesTitle(lineLower, titleLower, titleWords) {
				found = true
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		if looksLikeBoundary(line, lineLower) && len(collected) > minLinesBeforeBoundary-1 {
			break
		}

		collected = append(collected, line)
		size += len(line) + 1
		if size > windowSize {
			break
		}
	}

	if len(collected) == 0 {
		if len(fullText) > windowSize {
			return fullText[:windowSize]
		}
		return fullText
	}

	return strings.Join(collected, "\n")
}

func matchesTitle(lineLower, titleLower string, titleWords []string) bool {
	if titleLower != "" && strings.Contains(lineLower, titleLower) {
		return true
	}
	for _, word := range titleWords {
		if strings.Contains(lineLower, word) {
			return true
		}
	}
	return false
}

func looksLikeBoundary(line, lineLower string) bool {
	if len(strings.TrimSpace(line)) <= 10 {
		return false
	}
	for _, marker := range boundaryMarkers {
		if strings.Contains(lineLower, marker) {
			return true
		}
	}
	return false
}
