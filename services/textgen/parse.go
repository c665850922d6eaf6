package textgen

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// extractJSONSpan locates the outermost open...close span in raw model
// output, tolerating a model that wraps its JSON in prose. When no span is
// found the raw text is returned verbatim for a last-chance parse.
func extractJSONSpan(raw string, open, close byte) string {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, close)
	if start < 0 || end < start {
		return raw
	}
	return raw[start : end+1]
}

// validateJSON checks a raw document against a JSON schema. Invalid JSON and
// shape mismatches are reported the same way; callers treat both as a parse
// failure and degrade to their fallback value.
func validateJSON(schema, doc string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("failed to parse model output: %w", err)
	}

	if !result.Valid() {
		return fmt.Errorf("model output violates schema: %v", result.Errors())
	}

	return nil
}
