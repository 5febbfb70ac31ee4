package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

// ExportFormat represents different export formats
type ExportFormat string

const (
	FormatJSON     ExportFormat = "json"
	FormatYAML     ExportFormat = "yaml"
	FormatMarkdown ExportFormat = "markdown"
	FormatHTML     ExportFormat = "html"
	FormatText     ExportFormat = "txt"
)

// ExportErrorType categorizes different types of export errors
type ExportErrorType string

const (
	ErrorTypeValidation    ExportErrorType = "validation"
	ErrorTypeRenderer      ExportErrorType = "renderer"
	ErrorTypeTimeout       ExportErrorType = "timeout"
	ErrorTypeConfiguration ExportErrorType = "configuration"
)

// UserMessage is what clients are shown for any serialization failure
const UserMessage = "download failed, please retry"

// ExportError provides detailed error information with categorization
type ExportError struct {
	Type      ExportErrorType `json:"type"`
	Message   string          `json:"message"`
	Details   string          `json:"details,omitempty"`
	Code      string          `json:"code,omitempty"`
	Retryable bool            `json:"retryable"`
	Cause     error           `json:"-"`
}

func (e *ExportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s error: %s - %s", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// Category is the user-facing error class of every export failure
func (e *ExportError) Category() entities.ErrorCategory {
	return entities.CategorySerializationFailure
}

// RetryConfig defines retry behavior for export operations
type RetryConfig struct {
	MaxRetries      int               `json:"max_retries"`
	InitialDelay    time.Duration     `json:"initial_delay"`
	MaxDelay        time.Duration     `json:"max_delay"`
	BackoffFactor   float64           `json:"backoff_factor"`
	RetryableErrors []ExportErrorType `json:"retryable_errors"`
}

// Renderer serializes a validated deck into one format
type Renderer interface {
	Render(ctx context.Context, deck *entities.Deck, opts ports.ExportOptions) ([]byte, error)
	Supports(format ExportFormat) bool
	GetMimeType() string
	Extension() string
}

// Service implements ports.ExportService over a renderer registry
type Service struct {
	mu          sync.RWMutex
	renderers   map[ExportFormat]Renderer
	retryConfig RetryConfig
	logger      *slog.Logger
}

// NewService creates an export service with every built-in renderer registered
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	service := &Service{
		renderers: make(map[ExportFormat]Renderer),
		retryConfig: RetryConfig{
			MaxRetries:      2,
			InitialDelay:    50 * time.Millisecond,
			MaxDelay:        time.Second,
			BackoffFactor:   2.0,
			RetryableErrors: []ExportErrorType{ErrorTypeTimeout},
		},
		logger: logger,
	}

	service.RegisterRenderer(FormatJSON, NewJSONRenderer())
	service.RegisterRenderer(FormatYAML, NewYAMLRenderer())
	service.RegisterRenderer(FormatMarkdown, NewMarkdownRenderer())
	service.RegisterRenderer(FormatHTML, NewHTMLRenderer())
	service.RegisterRenderer(FormatText, NewTextRenderer())

	return service
}

// RegisterRenderer registers a renderer for a specific format
func (s *Service) RegisterRenderer(format ExportFormat, renderer Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderers[format] = renderer
}

// Export serializes a deck. The caller's deck is never modified, even when
// a renderer fails part way through.
func (s *Service) Export(ctx context.Context, deck *entities.Deck, opts ports.ExportOptions) (*ports.Artifact, error) {
	start := time.Now()
	format := ExportFormat(strings.ToLower(strings.TrimSpace(opts.Format)))

	renderer, err := s.rendererFor(format)
	if err != nil {
		return nil, err
	}

	if err := deck.Validate(); err != nil {
		return nil, &ExportError{
			Type:      ErrorTypeValidation,
			Message:   "deck failed validation",
			Details:   err.Error(),
			Code:      "INVALID_DECK",
			Retryable: false,
			Cause:     err,
		}
	}

	if opts.Theme == "" {
		opts.Theme = deck.Theme
	}
	if opts.SourceName == "" {
		opts.SourceName = deck.SourceName
	}

	data, err := s.executeWithRetry(ctx, renderer, deck.Clone(), opts)
	if err != nil {
		s.logger.Error("Export failed",
			slog.String("format", string(format)),
			slog.String("deck_id", deck.ID),
			slog.String("error", err.Error()))
		return nil, err
	}

	artifact := &ports.Artifact{
		Data:     data,
		FileName: FileName(deck.Title, opts.SourceName, renderer.Extension()),
		MimeType: renderer.GetMimeType(),
	}

	s.logger.Debug("Deck exported",
		slog.String("format", string(format)),
		slog.String("file", artifact.FileName),
		slog.String("size", entities.FormatFileSize(int64(len(data)))),
		slog.Duration("duration", time.Since(start)))

	return artifact, nil
}

// GetSupportedFormats returns the registered formats in sorted order
func (s *Service) GetSupportedFormats() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	formats := make([]string, 0, len(s.renderers))
	for format := range s.renderers {
		formats = append(formats, string(format))
	}
	sort.Strings(formats)
	return formats
}

// SetRetryConfig updates the retry configuration
func (s *Service) SetRetryConfig(config RetryConfig) {
	s.retryConfig = config
}

// GetRetryConfig returns the current retry configuration
func (s *Service) GetRetryConfig() RetryConfig {
	return s.retryConfig
}

func (s *Service) rendererFor(format ExportFormat) (Renderer, error) {
	if format == "" {
		return nil, &ExportError{
			Type:      ErrorTypeValidation,
			Message:   "export format is required",
			Code:      "MISSING_FORMAT",
			Retryable: false,
		}
	}

	s.mu.RLock()
	renderer, exists := s.renderers[format]
	s.mu.RUnlock()
	if !exists {
		return nil, &ExportError{
			Type:      ErrorTypeConfiguration,
			Message:   "unsupported export format",
			Details:   string(format),
			Code:      "UNSUPPORTED_FORMAT",
			Retryable: false,
		}
	}
	return renderer, nil
}

// executeWithRetry executes the render with retry logic
func (s *Service) executeWithRetry(ctx context.Context, renderer Renderer, deck *entities.Deck, opts ports.ExportOptions) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= s.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoffDelay(attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, &ExportError{
					Type:      ErrorTypeTimeout,
					Message:   "export cancelled during retry",
					Code:      "CANCELLED",
					Retryable: false,
					Cause:     ctx.Err(),
				}
			}
		}

		data, err := renderer.Render(ctx, deck, opts)
		if err == nil {
			return data, nil
		}

		lastErr = err
		exportErr := s.categorizeError(err)
		if !s.isRetryableError(exportErr) {
			break
		}

		s.logger.Warn("Export attempt failed, retrying",
			slog.Int("attempt", attempt+1),
			slog.String("error", exportErr.Message))
	}

	return nil, s.categorizeError(lastErr)
}

// calculateBackoffDelay calculates the delay for exponential backoff
func (s *Service) calculateBackoffDelay(attempt int) time.Duration {
	delay := float64(s.retryConfig.InitialDelay) * math.Pow(s.retryConfig.BackoffFactor, float64(attempt-1))
	if delay > float64(s.retryConfig.MaxDelay) {
		delay = float64(s.retryConfig.MaxDelay)
	}
	return time.Duration(delay)
}

// isRetryableError checks if an error is retryable
func (s *Service) isRetryableError(err error) bool {
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		for _, retryableType := range s.retryConfig.RetryableErrors {
			if exportErr.Type == retryableType {
				return exportErr.Retryable
			}
		}
	}
	return false
}

// categorizeError categorizes an error into an ExportError
func (s *Service) categorizeError(err error) *ExportError {
	if err == nil {
		return nil
	}

	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return &ExportError{
			Type:      ErrorTypeTimeout,
			Message:   "operation timed out",
			Details:   err.Error(),
			Code:      "TIMEOUT",
			Retryable: false,
			Cause:     err,
		}
	default:
		return &ExportError{
			Type:      ErrorTypeRenderer,
			Message:   "renderer error",
			Details:   err.Error(),
			Code:      "RENDERER_ERROR",
			Retryable: false,
			Cause:     err,
		}
	}
}

var _ ports.ExportService = (*Service)(nil)
