package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

// HTMLRenderer implements export to a standalone HTML preview
type HTMLRenderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
	template  *template.Template
}

// htmlSlide is one rendered slide section
type htmlSlide struct {
	Index int
	Type  entities.SlideType
	Body  template.HTML
}

// NewHTMLRenderer creates a new HTML renderer
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Strikethrough,
				extension.Typographer,
			),
		),
		sanitizer: createHTMLSanitizer(),
		template:  template.Must(template.New("export").Parse(staticHTMLTemplate)),
	}
}

// createHTMLSanitizer allows the elements slide markdown renders to
func createHTMLSanitizer() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h1", "h2", "h3", "p", "br", "hr")
	p.AllowElements("strong", "b", "em", "i", "del", "s")
	p.AllowElements("ul", "ol", "li", "blockquote", "code")
	return p
}

// Render exports the deck as one HTML page with a section per slide
func (r *HTMLRenderer) Render(ctx context.Context, deck *entities.Deck, opts ports.ExportOptions) ([]byte, error) {
	slides := make([]htmlSlide, 0, len(deck.Slides))
	for i, slide := range deck.Slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := r.md.Convert([]byte(slideMarkdown(slide)), &buf); err != nil {
			return nil, fmt.Errorf("rendering slide %d: %w", i+1, err)
		}

		slides = append(slides, htmlSlide{
			Index: i + 1,
			Type:  slide.Type(),
			// #nosec G203 - sanitized by bluemonday above
			Body: template.HTML(r.sanitizer.SanitizeBytes(buf.Bytes())),
		})
	}

	palette := opts.Theme.Palette()
	data := struct {
		Title      string
		Audience   entities.Audience
		Theme      entities.Theme
		Primary    template.CSS
		Secondary  template.CSS
		Accent     template.CSS
		Generator  string
		SlideCount int
		Slides     []htmlSlide
	}{
		Title:      deck.Title,
		Audience:   deck.Audience,
		Theme:      opts.Theme,
		Primary:    template.CSS(palette[0]), // #nosec G203 - fixed palette values
		Secondary:  template.CSS(palette[1]), // #nosec G203 - fixed palette values
		Accent:     template.CSS(palette[2]), // #nosec G203 - fixed palette values
		Generator:  Generator,
		SlideCount: len(slides),
		Slides:     slides,
	}

	var out bytes.Buffer
	if err := r.template.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return out.Bytes(), nil
}

// Supports returns true if this renderer supports the given format
func (r *HTMLRenderer) Supports(format ExportFormat) bool {
	return format == FormatHTML
}

// GetMimeType returns the MIME type for HTML exports
func (r *HTMLRenderer) GetMimeType() string {
	return "text/html; charset=utf-8"
}

// Extension returns the file extension for HTML exports
func (r *HTMLRenderer) Extension() string {
	return "html"
}

const staticHTMLTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="generator" content="{{.Generator}}">
    <meta name="audience" content="{{.Audience}}">
    <title>{{.Title}}</title>
    <style>
        :root {
            --primary: {{.Primary}};
            --secondary: {{.Secondary}};
            --accent: {{.Accent}};
        }

        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            background: #f5f5f5;
        }

        .presentation {
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
        }

        .slide {
            background: white;
            padding: 60px;
            margin-bottom: 20px;
            border-radius: 8px;
            border-top: 6px solid var(--primary);
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
            min-height: 480px;
            position: relative;
        }

        .slide.title, .slide.thanks {
            display: flex;
            flex-direction: column;
            justify-content: center;
            text-align: center;
            background: var(--primary);
            color: white;
        }

        .slide h1 { font-size: 3em; margin-bottom: 0.5em; }
        .slide h2 { font-size: 2.2em; margin-bottom: 0.6em; color: var(--primary); }
        .slide p, .slide li { font-size: 1.3em; }
        .slide ul, .slide ol { margin-left: 2em; }
        .slide li { margin-bottom: 0.5em; }
        .slide li::marker { color: var(--secondary); }

        .slide.chart em {
            display: block;
            padding: 80px 0;
            text-align: center;
            border: 2px dashed var(--accent);
            color: var(--secondary);
        }

        .slide-number {
            position: absolute;
            bottom: 16px;
            right: 24px;
            font-size: 14px;
            color: var(--secondary);
        }

        @media print {
            .slide {
                page-break-after: always;
                box-shadow: none;
                margin: 0;
            }
        }
    </style>
</head>
<body class="theme-{{.Theme}}">
    <div class="presentation">
        {{range .Slides}}
        <section class="slide {{.Type}}" id="slide-{{.Index}}">
            {{.Body}}
            <div class="slide-number">{{.Index}} / {{$.SlideCount}}</div>
        </section>
        {{end}}
    </div>
</body>
</html>
`
