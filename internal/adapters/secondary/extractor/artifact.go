package extractor

import (
	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

// ExtractedSuffix is appended to the source stem of the text download
const ExtractedSuffix = "_extracted.txt"

// ExtractedText renders the downloadable plain text of an extraction:
// one "--- Page N ---" block per page separated by blank lines.
func ExtractedText(sourceName string, result entities.ExtractionResult) (fileName string, content []byte) {
	stem := entities.FileStem(sourceName)
	if stem == "" {
		stem = "document"
	}

	return stem + ExtractedSuffix, []byte(result.PageText())
}
