package export

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

// SlideSeparator divides slides in markdown output
const SlideSeparator = "\n---\n\n"

// frontmatter is written as YAML at the top of a markdown export
type frontmatter struct {
	Title     string            `yaml:"title"`
	Audience  entities.Audience `yaml:"audience"`
	Theme     entities.Theme    `yaml:"theme"`
	Source    string            `yaml:"source,omitempty"`
	Slides    int               `yaml:"slides"`
	Generator string            `yaml:"generator"`
}

// MarkdownRenderer implements export to markdown format
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a new markdown renderer
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render exports the deck to markdown with YAML frontmatter
func (r *MarkdownRenderer) Render(ctx context.Context, deck *entities.Deck, opts ports.ExportOptions) ([]byte, error) {
	meta, err := yaml.Marshal(frontmatter{
		Title:     deck.Title,
		Audience:  deck.Audience,
		Theme:     opts.Theme,
		Source:    opts.SourceName,
		Slides:    len(deck.Slides),
		Generator: Generator,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}

	var content strings.Builder
	content.WriteString("---\n")
	content.Write(meta)
	content.WriteString("---\n\n")

	for i, slide := range deck.Slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 {
			content.WriteString(SlideSeparator)
		}
		content.WriteString(slideMarkdown(slide))
	}

	return []byte(content.String()), nil
}

// slideMarkdown renders a single slide. Title and thanks slides use a level
// one heading, every other slide a level two heading.
func slideMarkdown(slide entities.Slide) string {
	var b strings.Builder

	switch s := slide.(type) {
	case entities.TitleSlide:
		fmt.Fprintf(&b, "# %s\n", s.Title)
		if s.Subtitle != "" {
			fmt.Fprintf(&b, "\n%s\n", s.Subtitle)
		}
	case entities.AgendaSlide:
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		for i, item := range s.Items {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item)
		}
	case entities.ContentSlide:
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		for _, point := range s.Content {
			fmt.Fprintf(&b, "- %s\n", point)
		}
	case entities.ChartSlide:
		fmt.Fprintf(&b, "## %s\n\n*Chart: %s*\n", s.Title, s.ChartType)
	case entities.ThanksSlide:
		fmt.Fprintf(&b, "# %s\n", s.Title)
		if s.Subtitle != "" {
			fmt.Fprintf(&b, "\n%s\n", s.Subtitle)
		}
	}

	return b.String()
}

// Supports returns true if this renderer supports the given format
func (r *MarkdownRenderer) Supports(format ExportFormat) bool {
	return format == FormatMarkdown
}

// GetMimeType returns the MIME type for markdown exports
func (r *MarkdownRenderer) GetMimeType() string {
	return "text/markdown"
}

// Extension returns the file extension for markdown exports
func (r *MarkdownRenderer) Extension() string {
	return "md"
}
