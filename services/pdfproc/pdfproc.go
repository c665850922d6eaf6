// Package pdfproc extracts plain text and a stable content identity from
// uploaded PDF documents.
package pdfproc

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Metadata carries per-document extraction stats.
type Metadata struct {
	PageCount int   `json:"page_count"`
	PageChars []int `json:"page_chars"`
}

// ExtractText pulls the plain text out of a PDF, page by page. Each page is
// prefixed with a "--- Page N ---" marker; the section segmenter relies on
// these as boundary hints. Pages that fail to decode contribute an empty
// body rather than failing the document.
func ExtractText(data []byte) (string, Metadata, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", Metadata{}, fmt.Errorf("failed to open PDF: %w", err)
	}

	meta := Metadata{
		PageCount: reader.NumPage(),
		PageChars: make([]int, 0, reader.NumPage()),
	}

	var text strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		fmt.Fprintf(&text, "--- Page %d ---\n", pageNum)

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			meta.PageChars = append(meta.PageChars, 0)
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("[ERROR] Failed to extract text from page %d: %v", pageNum, err)
			meta.PageChars = append(meta.PageChars, 0)
			continue
		}

		text.WriteString(content)
		text.WriteString("\n")
		meta.PageChars = append(meta.PageChars, len(content))
	}

	return text.String(), meta, nil
}

// HashDocument derives the deterministic content identifier used as the
// course id. Identical bytes always hash identically, which is what makes
// re-uploads idempotent.
func HashDocument(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
