package ports

import (
	"context"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

// DeckRequest is one conversion job
type DeckRequest struct {
	Session  string
	Document entities.Document
	Audience entities.Audience
	Theme    entities.Theme
	Title    string
}

// DeckResult is the outcome of a conversion job
type DeckResult struct {
	Deck       *entities.Deck
	Extraction entities.ExtractionResult
}

// DeckService runs the document to deck pipeline
type DeckService interface {
	// Convert validates, extracts and assembles a deck for the request
	Convert(ctx context.Context, req DeckRequest) (*DeckResult, error)
}

// ExportOptions selects how a deck is serialized
type ExportOptions struct {
	Format     string
	Theme      entities.Theme
	SourceName string

	// Extraction is required by formats that emit the source text
	Extraction *entities.ExtractionResult
}

// Artifact is a downloadable export
type Artifact struct {
	Data     []byte
	FileName string
	MimeType string
}

// ExportService defines the interface for deck export functionality
type ExportService interface {
	// Export serializes a deck. The deck is never modified.
	Export(ctx context.Context, deck *entities.Deck, opts ExportOptions) (*Artifact, error)

	// GetSupportedFormats returns a list of supported export formats
	GetSupportedFormats() []string
}
