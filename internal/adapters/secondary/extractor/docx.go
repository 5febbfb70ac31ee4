package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

const (
	documentPart   = "word/document.xml"
	corePropsPart  = "docProps/core.xml"
	maxPartSize    = 64 << 20
	zipLocalHeader = "PK\x03\x04"
)

var (
	textRunPattern = regexp.MustCompile(`<w:t(?:\s[^>]*)?>(.*?)</w:t>`)
	titlePattern   = regexp.MustCompile(`<dc:title>(.*?)</dc:title>`)
)

// DOCXExtractor scrapes text runs out of WordprocessingML markup.
// No structural parsing is attempted.
type DOCXExtractor struct{}

// NewDOCXExtractor creates a DOCX extractor
func NewDOCXExtractor() *DOCXExtractor {
	return &DOCXExtractor{}
}

// Format returns entities.FormatDOCX
func (e *DOCXExtractor) Format() entities.Format {
	return entities.FormatDOCX
}

// Extract joins every <w:t> run with a single space. Zipped packages are
// opened and their main document part is scanned; anything else is scanned
// as raw bytes.
func (e *DOCXExtractor) Extract(ctx context.Context, doc entities.Document) (entities.ExtractionResult, error) {
	markup := doc.Data
	var title string

	if bytes.HasPrefix(doc.Data, []byte(zipLocalHeader)) {
		parts, err := readParts(doc.Data, documentPart, corePropsPart)
		if err != nil {
			return entities.ExtractionResult{}, err
		}
		markup = parts[documentPart]
		title = coreTitle(parts[corePropsPart])
	}

	text := scanTextRuns(markup)
	if text == "" {
		text = emptyDOCXPlaceholder(doc)
	}

	result := singlePage(text, entities.FormatDOCX)
	result.Title = title
	return result, nil
}

// scanTextRuns returns the contents of all text runs joined by spaces
func scanTextRuns(markup []byte) string {
	matches := textRunPattern.FindAllSubmatch(markup, -1)
	runs := make([]string, 0, len(matches))
	for _, m := range matches {
		runs = append(runs, html.UnescapeString(string(m[1])))
	}
	return strings.Join(runs, " ")
}

func coreTitle(props []byte) string {
	if m := titlePattern.FindSubmatch(props); m != nil {
		return strings.TrimSpace(html.UnescapeString(string(m[1])))
	}
	return ""
}

// readParts reads the named entries of a zip package. The main document
// part is required.
func readParts(data []byte, names ...string) (map[string][]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening docx package: %w", err)
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	parts := make(map[string][]byte)
	for _, f := range zr.File {
		if !wanted[f.Name] {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(io.LimitReader(rc, maxPartSize))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		parts[f.Name] = content
	}

	if _, ok := parts[documentPart]; !ok {
		return nil, errors.New("docx package has no " + documentPart)
	}
	return parts, nil
}
