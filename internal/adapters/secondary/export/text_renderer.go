package export

import (
	"context"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

// TextRenderer emits the extracted source text the deck was built from
type TextRenderer struct{}

// NewTextRenderer creates a new text renderer
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render returns the page-delimited extraction text
func (r *TextRenderer) Render(ctx context.Context, deck *entities.Deck, opts ports.ExportOptions) ([]byte, error) {
	if opts.Extraction == nil {
		return nil, &ExportError{
			Type:      ErrorTypeValidation,
			Message:   "extracted text is not available for this deck",
			Code:      "MISSING_EXTRACTION",
			Retryable: false,
		}
	}
	return []byte(opts.Extraction.PageText()), nil
}

// Supports returns true if this renderer supports the given format
func (r *TextRenderer) Supports(format ExportFormat) bool {
	return format == FormatText
}

// GetMimeType returns the MIME type for text exports
func (r *TextRenderer) GetMimeType() string {
	return "text/plain; charset=utf-8"
}

// Extension returns the file extension for text exports
func (r *TextRenderer) Extension() string {
	return "txt"
}
