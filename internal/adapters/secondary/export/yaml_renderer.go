package export

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

// YAMLRenderer emits the deck as YAML slide records
type YAMLRenderer struct{}

// NewYAMLRenderer creates a new YAML renderer
func NewYAMLRenderer() *YAMLRenderer {
	return &YAMLRenderer{}
}

// Render exports the deck to YAML
func (r *YAMLRenderer) Render(ctx context.Context, deck *entities.Deck, opts ports.ExportOptions) ([]byte, error) {
	data, err := yaml.Marshal(newExportDocument(deck, opts))
	if err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	return data, nil
}

// Supports returns true if this renderer supports the given format
func (r *YAMLRenderer) Supports(format ExportFormat) bool {
	return format == FormatYAML
}

// GetMimeType returns the MIME type for YAML exports
func (r *YAMLRenderer) GetMimeType() string {
	return "application/yaml"
}

// Extension returns the file extension for YAML exports
func (r *YAMLRenderer) Extension() string {
	return "yaml"
}
