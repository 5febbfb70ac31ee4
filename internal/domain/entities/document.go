package entities

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Supported upload MIME types
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// PageDelimiterToken appears in every page marker line
const PageDelimiterToken = "---"

// Format identifies how a document is extracted
type Format string

const (
	FormatPDF         Format = "pdf"
	FormatDOCX        Format = "docx"
	FormatText        Format = "txt"
	FormatUnsupported Format = "unsupported"
)

// FormatForMime maps a declared MIME type to an extraction format
func FormatForMime(mime string) Format {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case MimePDF:
		return FormatPDF
	case MimeDOCX:
		return FormatDOCX
	case MimeText:
		return FormatText
	default:
		return FormatUnsupported
	}
}

// MimeForExtension guesses the declared type of a local file
func MimeForExtension(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt", ".text":
		return MimeText
	default:
		return "application/octet-stream"
	}
}

// SupportedMimeTypes lists the accepted upload types
func SupportedMimeTypes() []string {
	return []string{MimePDF, MimeDOCX, MimeText}
}

// Document is an uploaded file
type Document struct {
	Name         string
	DeclaredType string
	Size         int64
	Data         []byte
}

// Format returns the extraction format for the declared type
func (d Document) Format() Format {
	return FormatForMime(d.DeclaredType)
}

// Stem returns the file name up to its first dot
func (d Document) Stem() string {
	return FileStem(d.Name)
}

// FileStem returns the base name up to the first dot
func FileStem(name string) string {
	base := filepath.Base(name)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	if base == "" || base == "/" {
		return ""
	}
	return base
}

// ExtractedPage holds the text of one source page
type ExtractedPage struct {
	PageNumber int    `json:"pageNumber"`
	Text       string `json:"text"`
}

// ExtractionResult is the format-independent output of extraction
type ExtractionResult struct {
	Text   string          `json:"text"`
	Pages  []ExtractedPage `json:"pages,omitempty"`
	Title  string          `json:"title,omitempty"`
	Format Format          `json:"format"`
}

// PageText returns the pages as marker-headed blocks. Results without
// pages are treated as a single first page.
func (r ExtractionResult) PageText() string {
	pages := r.Pages
	if len(pages) == 0 {
		pages = []ExtractedPage{{PageNumber: 1, Text: r.Text}}
	}
	return JoinPages(pages)
}

// PageMarker returns the delimiter line for a page
func PageMarker(pageNumber int) string {
	return fmt.Sprintf("--- Page %d ---", pageNumber)
}

// JoinPages concatenates pages as marker-headed blocks separated by blank lines
func JoinPages(pages []ExtractedPage) string {
	blocks := make([]string, len(pages))
	for i, p := range pages {
		blocks[i] = PageMarker(p.PageNumber) + "\n" + p.Text
	}
	return strings.Join(blocks, "\n\n")
}

// FormatFileSize renders a byte count as "N bytes", "N.N KB" or "N.N MB"
func FormatFileSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d bytes", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}
