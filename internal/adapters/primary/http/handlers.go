package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"

	"github.com/fredcamaral/docuslide/internal/adapters/secondary/export"
	"github.com/fredcamaral/docuslide/internal/adapters/secondary/extractor"
	"github.com/fredcamaral/docuslide/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
	"github.com/fredcamaral/docuslide/internal/domain/services"
)

// SessionHeader carries the client session key. Uploads within one session
// supersede each other.
const SessionHeader = "X-Session-ID"

// multipartOverhead is allowed on top of the upload ceiling for form
// boundaries and the text fields
const multipartOverhead = 64 << 10

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error    string                 `json:"error"`
	Category entities.ErrorCategory `json:"category,omitempty"`
	Message  string                 `json:"message"`
	Time     time.Time              `json:"time"`
}

// ExtractionSummary describes the text a deck was built from
type ExtractionSummary struct {
	Format     entities.Format `json:"format"`
	Pages      int             `json:"pages"`
	Characters int             `json:"characters"`
	Title      string          `json:"title,omitempty"`
}

// DeckResponse is returned for a single deck
type DeckResponse struct {
	Deck       entities.DeckDocument `json:"deck"`
	Extraction ExtractionSummary     `json:"extraction"`
}

// DeckSummary is one entry of the deck listing
type DeckSummary struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Audience   entities.Audience `json:"audience"`
	Theme      entities.Theme    `json:"theme"`
	SourceName string            `json:"sourceName"`
	SlideCount int               `json:"slideCount"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// OptionsResponse lists what clients may choose when uploading
type OptionsResponse struct {
	Audiences       []entities.Audience `json:"audiences"`
	Themes          []entities.Theme    `json:"themes"`
	Formats         []string            `json:"formats"`
	MimeTypes       []string            `json:"mimeTypes"`
	DefaultAudience entities.Audience   `json:"defaultAudience"`
	DefaultTheme    entities.Theme      `json:"defaultTheme"`
	DefaultFormat   string              `json:"defaultFormat"`
	MaxUploadBytes  int64               `json:"maxUploadBytes"`
	MaxUploadSize   string              `json:"maxUploadSize"`
}

// HealthResponse reports server liveness
type HealthResponse struct {
	Status  string             `json:"status"`
	Decks   int                `json:"decks"`
	Clients int                `json:"clients"`
	Time    time.Time          `json:"time"`
	Metrics monitoring.Metrics `json:"metrics"`
}

// titleSanitizer strips all markup from user supplied titles
var titleSanitizer = bluemonday.StrictPolicy()

func sanitizeTitle(title string) string {
	return strings.TrimSpace(html.UnescapeString(titleSanitizer.Sanitize(title)))
}

// handleCreateDeck converts an uploaded document into a stored deck
func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.config.Upload.GetMaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, entities.CategoryFileTooLarge,
				fmt.Sprintf("upload exceeds maximum of %s", entities.FormatFileSize(maxBytes)), err)
			return
		}
		s.handleError(w, fmt.Errorf("parsing multipart form: %w", err), http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "", "a file field is required", err)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.handleError(w, fmt.Errorf("reading upload: %w", err), http.StatusBadRequest)
		return
	}

	audience, theme, err := services.ResolveDeckOptions(s.config, r.FormValue("audience"), r.FormValue("theme"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "", err.Error(), err)
		return
	}

	name := filepath.Base(header.Filename)
	req := ports.DeckRequest{
		Session: r.Header.Get(SessionHeader),
		Document: entities.Document{
			Name:         name,
			DeclaredType: declaredType(header.Header.Get("Content-Type"), name),
			Size:         header.Size,
			Data:         data,
		},
		Audience: audience,
		Theme:    theme,
		Title:    sanitizeTitle(r.FormValue("title")),
	}

	started := time.Now()
	result, err := s.decks.Convert(r.Context(), req)
	s.monitor.RecordConversion(time.Since(started), conversionOutcome(err))
	if err != nil {
		s.handleConvertError(w, err)
		return
	}

	s.writeJSONStatus(w, http.StatusCreated, deckResponse(result.Deck, result.Extraction))
}

func conversionOutcome(err error) monitoring.Outcome {
	switch {
	case err == nil:
		return monitoring.OutcomeSuccess
	case errors.Is(err, entities.ErrStaleResult):
		return monitoring.OutcomeStale
	default:
		return monitoring.OutcomeFailure
	}
}

// declaredType is the part's Content-Type. Clients that send none, or the
// generic binary type, get the type implied by the file extension.
func declaredType(contentType, name string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" || mediaType == "application/octet-stream" {
		return entities.MimeForExtension(name)
	}
	return mediaType
}

func (s *Server) handleConvertError(w http.ResponseWriter, err error) {
	var uploadErr *entities.UploadError
	switch {
	case errors.As(err, &uploadErr):
		status := http.StatusBadRequest
		if uploadErr.Category == entities.CategoryFileTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		s.writeError(w, status, uploadErr.Category, uploadErr.Message, err)
	case errors.Is(err, entities.ErrStaleResult):
		s.writeError(w, http.StatusConflict, "", "superseded by a newer upload", err)
	default:
		s.handleError(w, err, http.StatusInternalServerError)
	}
}

// handleListDecks returns stored decks, newest first
func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	stored, err := s.store.List(r.Context())
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}

	summaries := make([]DeckSummary, 0, len(stored))
	for _, entry := range stored {
		d := entry.Deck
		summaries = append(summaries, DeckSummary{
			ID:         d.ID,
			Title:      d.Title,
			Audience:   d.Audience,
			Theme:      d.Theme,
			SourceName: d.SourceName,
			SlideCount: d.SlideCount(),
			CreatedAt:  d.CreatedAt,
		})
	}

	s.writeJSON(w, summaries)
}

// handleGetDeck returns one deck with its slides
func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.lookupDeck(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, deckResponse(stored.Deck, stored.Extraction))
}

// handleDeleteDeck removes a deck and tells subscribers
func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, entities.ErrDeckNotFound) {
			s.handleError(w, err, http.StatusNotFound)
			return
		}
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}

	_ = s.NotifyClients(ports.UpdateEvent{
		Type:      ports.EventTypeDeckDeleted,
		Timestamp: time.Now(),
		Data:      map[string]string{"id": id},
	})

	w.WriteHeader(http.StatusNoContent)
}

// handleExportDeck serves a deck in the requested format as a download
func (s *Server) handleExportDeck(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.lookupDeck(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	format := query.Get("format")
	if format == "" {
		format = s.config.Export.GetDefaultFormat()
	}

	var theme entities.Theme
	if raw := query.Get("theme"); raw != "" {
		parsed, err := entities.ParseTheme(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "", err.Error(), err)
			return
		}
		theme = parsed
	}

	started := time.Now()
	artifact, err := s.exporter.Export(r.Context(), stored.Deck, ports.ExportOptions{
		Format:     format,
		Theme:      theme,
		SourceName: stored.Deck.SourceName,
		Extraction: &stored.Extraction,
	})
	s.monitor.RecordExport(time.Since(started), err != nil)
	if err != nil {
		var exportErr *export.ExportError
		if errors.As(err, &exportErr) && exportErr.Code == "UNSUPPORTED_FORMAT" {
			s.writeError(w, http.StatusBadRequest, exportErr.Category(),
				fmt.Sprintf("unsupported export format %q (supported: %s)",
					format, strings.Join(s.exporter.GetSupportedFormats(), ", ")), err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, entities.CategorySerializationFailure, export.UserMessage, err)
		return
	}

	s.writeAttachment(w, artifact.FileName, artifact.MimeType, artifact.Data)
}

// handleExtracted serves the text a deck was built from
func (s *Server) handleExtracted(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.lookupDeck(w, r)
	if !ok {
		return
	}

	name, content := extractor.ExtractedText(stored.Deck.SourceName, stored.Extraction)
	s.writeAttachment(w, name, "text/plain; charset=utf-8", content)
}

// handleOptions lists the upload choices and limits
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.config.Upload.GetMaxBytes()
	s.writeJSON(w, OptionsResponse{
		Audiences:       entities.Audiences(),
		Themes:          entities.Themes(),
		Formats:         s.exporter.GetSupportedFormats(),
		MimeTypes:       entities.SupportedMimeTypes(),
		DefaultAudience: s.config.Presentation.GetAudience(),
		DefaultTheme:    s.config.Presentation.GetTheme(),
		DefaultFormat:   s.config.Export.GetDefaultFormat(),
		MaxUploadBytes:  maxBytes,
		MaxUploadSize:   entities.FormatFileSize(maxBytes),
	})
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	decks := 0
	if stored, err := s.store.List(r.Context()); err == nil {
		decks = len(stored)
	}

	status := "ok"
	if !s.monitor.IsHealthy() {
		status = "degraded"
	}

	s.writeJSON(w, HealthResponse{
		Status:  status,
		Decks:   decks,
		Clients: s.connMgr.ClientCount(),
		Time:    time.Now(),
		Metrics: s.monitor.Snapshot(),
	})
}

func (s *Server) lookupDeck(w http.ResponseWriter, r *http.Request) (*ports.StoredDeck, bool) {
	stored, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, entities.ErrDeckNotFound) {
			s.handleError(w, err, http.StatusNotFound)
		} else {
			s.handleError(w, err, http.StatusInternalServerError)
		}
		return nil, false
	}
	return stored, true
}

func deckResponse(deck *entities.Deck, extraction entities.ExtractionResult) DeckResponse {
	return DeckResponse{
		Deck: deck.Document(),
		Extraction: ExtractionSummary{
			Format:     extraction.Format,
			Pages:      len(extraction.Pages),
			Characters: entities.Length(extraction.Text),
			Title:      extraction.Title,
		},
	}
}

// handleError handles error responses with sanitized messages
func (s *Server) handleError(w http.ResponseWriter, err error, status int) {
	var message string
	switch status {
	case http.StatusBadRequest:
		message = "Invalid request"
	case http.StatusNotFound:
		message = "Resource not found"
	case http.StatusMethodNotAllowed:
		message = "Method not allowed"
	case http.StatusTooManyRequests:
		message = "Too many requests"
	case http.StatusInternalServerError:
		message = "Internal server error"
	default:
		message = "An error occurred"
	}

	s.writeError(w, status, "", message, err)
}

// writeError logs the underlying error and sends message to the client
func (s *Server) writeError(w http.ResponseWriter, status int, category entities.ErrorCategory, message string, err error) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(context.Background(), level, "HTTP error",
		slog.Int("status", status),
		slog.String("category", string(category)),
		slog.Any("error", err))

	response := ErrorResponse{
		Error:    http.StatusText(status),
		Category: category,
		Message:  message,
		Time:     time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		s.logger.Error("Failed to encode error response", slog.String("error", encodeErr.Error()))
	}
}

// writeJSON writes a 200 JSON response
func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	s.writeJSONStatus(w, http.StatusOK, data)
}

func (s *Server) writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		s.handleError(w, fmt.Errorf("encoding response: %w", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.Warn("Failed to write JSON response", slog.String("error", err.Error()))
	}
}

func (s *Server) writeAttachment(w http.ResponseWriter, name, mimeType string, data []byte) {
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("Failed to write download", slog.String("file", name), slog.String("error", err.Error()))
	}
}
