package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

// Generator is stamped into exported metadata
const Generator = "docuslide"

// exportDocument is the JSON and YAML payload
type exportDocument struct {
	entities.DeckDocument `yaml:",inline"`
	Generator             string `json:"generator" yaml:"generator"`
}

func newExportDocument(deck *entities.Deck, opts ports.ExportOptions) exportDocument {
	doc := deck.Document()
	doc.Theme = opts.Theme
	doc.SourceName = opts.SourceName
	return exportDocument{DeckDocument: doc, Generator: Generator}
}

// JSONRenderer emits the deck as indented JSON slide records
type JSONRenderer struct{}

// NewJSONRenderer creates a new JSON renderer
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render exports the deck to JSON
func (r *JSONRenderer) Render(ctx context.Context, deck *entities.Deck, opts ports.ExportOptions) ([]byte, error) {
	data, err := json.MarshalIndent(newExportDocument(deck, opts), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return append(data, '\n'), nil
}

// Supports returns true if this renderer supports the given format
func (r *JSONRenderer) Supports(format ExportFormat) bool {
	return format == FormatJSON
}

// GetMimeType returns the MIME type for JSON exports
func (r *JSONRenderer) GetMimeType() string {
	return "application/json"
}

// Extension returns the file extension for JSON exports
func (r *JSONRenderer) Extension() string {
	return "json"
}
