package extractor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

// Config holds the extraction settings. It is passed to New so that
// independent extractors never share state.
type Config struct {
	// PDFCharLimit caps the text kept for each PDF page
	PDFCharLimit int

	// StrictValidation makes pdfcpu reject files that violate the PDF standard
	StrictValidation bool
}

// ConfigFrom converts the application extraction settings
func ConfigFrom(c entities.ExtractionConfig) Config {
	return Config{
		PDFCharLimit:     c.GetPDFCharLimit(),
		StrictValidation: c.StrictValidation,
	}
}

// Service dispatches documents to the extractor for their declared type
type Service struct {
	extractors map[entities.Format]ports.FormatExtractor
	logger     *slog.Logger
}

// New creates an extractor service with the PDF, DOCX and text extractors
func New(cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PDFCharLimit <= 0 {
		cfg.PDFCharLimit = entities.DefaultPDFCharLimit
	}

	s := &Service{
		extractors: make(map[entities.Format]ports.FormatExtractor),
		logger:     logger,
	}
	s.Register(NewPDFExtractor(cfg, logger))
	s.Register(NewDOCXExtractor())
	s.Register(NewTextExtractor())
	return s
}

// Register adds or replaces the extractor for a format
func (s *Service) Register(e ports.FormatExtractor) {
	s.extractors[e.Format()] = e
}

// Extract never fails. Unsupported types, extractor errors and panics all
// produce a placeholder text naming the file.
func (s *Service) Extract(ctx context.Context, doc entities.Document) (result entities.ExtractionResult) {
	format := doc.Format()

	e, ok := s.extractors[format]
	if !ok {
		return singlePage(unsupportedPlaceholder(doc), entities.FormatUnsupported)
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Extractor panicked",
				slog.String("file", doc.Name),
				slog.String("format", string(format)),
				slog.String("panic", fmt.Sprint(r)),
			)
			result = singlePage(errorPlaceholder(doc), format)
		}
	}()

	result, err := e.Extract(ctx, doc)
	if err != nil {
		s.logger.Warn("Extraction failed",
			slog.String("file", doc.Name),
			slog.String("format", string(format)),
			slog.String("error", err.Error()),
		)
		return singlePage(errorPlaceholder(doc), format)
	}

	result.Format = format
	return result
}

// singlePage wraps unpaginated text in a result with one synthetic page
func singlePage(text string, format entities.Format) entities.ExtractionResult {
	return entities.ExtractionResult{
		Text:   text,
		Pages:  []entities.ExtractedPage{{PageNumber: 1, Text: text}},
		Format: format,
	}
}

var _ ports.Extractor = (*Service)(nil)
