package ports

import (
	"context"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

// Extractor turns an uploaded document into plain text.
// Extract never fails: unreadable input yields a placeholder text that
// names the file, so downstream steps always have something to work with.
type Extractor interface {
	Extract(ctx context.Context, doc entities.Document) entities.ExtractionResult
}

// FormatExtractor handles a single document format
type FormatExtractor interface {
	// Format returns the format this extractor handles
	Format() entities.Format

	// Extract reads the document. A returned error is converted into a
	// placeholder by the dispatching Extractor.
	Extract(ctx context.Context, doc entities.Document) (entities.ExtractionResult, error)
}
