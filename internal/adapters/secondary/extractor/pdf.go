package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

// PDFExtractor reads page text from PDF content streams with pdfcpu
type PDFExtractor struct {
	charLimit int
	strict    bool
	logger    *slog.Logger

	// content returns the decoded content streams of one page
	content func(ctx *model.Context, pageNr int) (io.Reader, error)
}

// NewPDFExtractor creates a PDF extractor
func NewPDFExtractor(cfg Config, logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	limit := cfg.PDFCharLimit
	if limit <= 0 {
		limit = entities.DefaultPDFCharLimit
	}
	return &PDFExtractor{
		charLimit: limit,
		strict:    cfg.StrictValidation,
		logger:    logger,
		content:   pdfcpu.ExtractPageContent,
	}
}

// Format returns entities.FormatPDF
func (e *PDFExtractor) Format() entities.Format {
	return entities.FormatPDF
}

// Extract reads pages 1..N in order. Each page keeps at most charLimit
// characters. A page that cannot be decoded is replaced by a placeholder
// and the remaining pages are still extracted. An error is returned only
// when the document cannot be opened.
func (e *PDFExtractor) Extract(ctx context.Context, doc entities.Document) (entities.ExtractionResult, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if e.strict {
		conf.ValidationMode = model.ValidationStrict
	}

	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(doc.Data), conf)
	if err != nil {
		return entities.ExtractionResult{}, fmt.Errorf("pdfcpu read: %w", err)
	}

	pages := make([]entities.ExtractedPage, 0, pdfCtx.PageCount)
	hasText, failed := false, false
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return entities.ExtractionResult{}, err
		}

		text, err := e.extractPage(pdfCtx, pageNr)
		if err != nil {
			e.logger.Warn("PDF page extraction failed",
				slog.String("file", doc.Name),
				slog.Int("page", pageNr),
				slog.String("error", err.Error()),
			)
			text = pageErrorPlaceholder(doc, pageNr)
			failed = true
		} else if text != "" {
			hasText = true
		}

		pages = append(pages, entities.ExtractedPage{PageNumber: pageNr, Text: text})
	}

	// failed pages keep their placeholders
	if !hasText && !failed {
		return singlePage(emptyPDFPlaceholder(doc), entities.FormatPDF), nil
	}

	return entities.ExtractionResult{
		Text:   entities.JoinPages(pages),
		Pages:  pages,
		Format: entities.FormatPDF,
	}, nil
}

// extractPage isolates one page so that a panic in the content decoder
// only loses that page
func (e *PDFExtractor) extractPage(pdfCtx *model.Context, pageNr int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decoding page %d: %v", pageNr, r)
		}
	}()

	r, err := e.content(pdfCtx, pageNr)
	if err != nil {
		return "", fmt.Errorf("reading page %d content: %w", pageNr, err)
	}
	if r == nil {
		return "", nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading page %d content: %w", pageNr, err)
	}

	return pageText(textItems(data), e.charLimit), nil
}

// pageText joins the text items of a page with single spaces and caps the
// result at limit characters
func pageText(items []string, limit int) string {
	return entities.Truncate(strings.Join(items, " "), limit)
}

var (
	// (text) Tj, (text) ' and (text) "
	showTextPattern = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)\s*(?:Tj|'|")`)

	// [(text) -120 (more)] TJ
	showArrayPattern = regexp.MustCompile(`\[((?:[^\]\\]|\\.)*)\]\s*TJ`)

	stringLiteralPattern = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)`)
)

// textItems returns the strings shown by the text operators of a content
// stream, one item per operator, in stream order
func textItems(stream []byte) []string {
	type match struct {
		start int
		text  string
	}
	var found []match

	for _, loc := range showTextPattern.FindAllSubmatchIndex(stream, -1) {
		found = append(found, match{start: loc[0], text: decodePDFString(stream[loc[2]:loc[3]])})
	}

	for _, loc := range showArrayPattern.FindAllSubmatchIndex(stream, -1) {
		var sb strings.Builder
		for _, lit := range stringLiteralPattern.FindAllSubmatch(stream[loc[2]:loc[3]], -1) {
			sb.WriteString(decodePDFString(lit[1]))
		}
		found = append(found, match{start: loc[0], text: sb.String()})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].start < found[j].start })

	items := make([]string, 0, len(found))
	for _, m := range found {
		if t := cleanText(m.text); t != "" {
			items = append(items, t)
		}
	}
	return items
}

// decodePDFString handles the escape sequences of PDF string literals
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}

		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b', 'f':
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] < '0' || raw[i] > '7' {
				sb.WriteByte(raw[i])
				continue
			}
			val := int(raw[i] - '0')
			for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteByte(byte(val))
		}
	}
	return sb.String()
}

// cleanText collapses whitespace and drops non-printable characters
func cleanText(text string) string {
	var sb strings.Builder
	space := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if sb.Len() > 0 {
				space = true
			}
		case unicode.IsPrint(r):
			if space {
				sb.WriteByte(' ')
				space = false
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
