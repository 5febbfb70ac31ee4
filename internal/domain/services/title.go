package services

import (
	"strings"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

// DefaultTitle is used when no line of the document looks like a title
const DefaultTitle = "Document Presentation"

const maxTitleLineLength = 100

// DetectTitle returns the first line of text that looks like a heading:
// shorter than 100 characters, not a page marker, and not ending in
// sentence punctuation.
func DetectTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if entities.Length(trimmed) >= maxTitleLineLength {
			continue
		}
		if strings.Contains(trimmed, entities.PageDelimiterToken) {
			continue
		}
		if strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, ":") {
			continue
		}
		return trimmed
	}
	return DefaultTitle
}
