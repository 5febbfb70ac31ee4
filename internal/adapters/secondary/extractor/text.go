package extractor

import (
	"context"
	"fmt"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

// TextExtractor decodes plain text uploads
type TextExtractor struct{}

// NewTextExtractor creates a plain text extractor
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Format returns entities.FormatText
func (e *TextExtractor) Format() entities.Format {
	return entities.FormatText
}

// Extract decodes the bytes as UTF-8, honouring a UTF-16 byte order mark.
// Invalid sequences become U+FFFD. Text is not truncated.
func (e *TextExtractor) Extract(ctx context.Context, doc entities.Document) (entities.ExtractionResult, error) {
	decoded, _, err := transform.Bytes(xunicode.BOMOverride(xunicode.UTF8.NewDecoder()), doc.Data)
	if err != nil {
		return entities.ExtractionResult{}, fmt.Errorf("decoding text: %w", err)
	}
	return singlePage(string(decoded), entities.FormatText), nil
}
