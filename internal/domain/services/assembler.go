package services

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

// Fixed slide texts
const (
	AgendaTitle       = "Agenda"
	ChartTitle        = "Data Visualization"
	DefaultChartType  = "bar"
	ThanksTitle       = "Thank You"
	ThanksSubtitle    = "Questions & Discussion"
	FillerTitle       = "Additional Information"
	GeneralAudience   = "General"
	sectionSize       = 4
	minSections       = 3
	sectionTitleWords = 4
)

var fillerPoints = []string{
	"This slide contains supplementary content",
	"Related to the main topic of the presentation",
	"Providing further context and details",
	"For a comprehensive understanding",
}

var pageMarkerPattern = regexp.MustCompile(`--- Page \d+ ---`)

// Assembler builds slide sequences from extracted text
type Assembler struct {
	maxPoints int
	charLimit int
}

// NewAssembler creates an assembler using the given summary settings
func NewAssembler(cfg entities.SummaryConfig) *Assembler {
	return &Assembler{
		maxPoints: cfg.GetMaxPoints(),
		charLimit: cfg.GetCharLimit(),
	}
}

// Assemble builds the slides of a deck using the default summary settings
func Assemble(text, audience, title string) []entities.Slide {
	return NewAssembler(entities.SummaryConfig{}).Assemble(text, audience, title)
}

// Assemble turns text into an ordered slide sequence. The result always has
// at least entities.MinSlides slides, starts with a TitleSlide, ends with a
// ThanksSlide and every text field fits entities.MaxFieldLength.
func (a *Assembler) Assemble(text, audience, title string) []entities.Slide {
	pages := SplitPages(text)

	deckTitle := strings.TrimSpace(title)
	if deckTitle == "" {
		first := text
		if len(pages) > 0 {
			first = pages[0]
		}
		deckTitle = DetectTitle(first)
	}

	points := Summarize(strings.Join(pages, "\n"), a.maxPoints, a.charLimit)
	sections := partition(points)

	titles := make([]string, len(sections))
	for i, section := range sections {
		titles[i] = sectionTitle(section, i)
	}

	slides := []entities.Slide{
		entities.TitleSlide{
			Title:    entities.TruncateField(deckTitle),
			Subtitle: entities.TruncateField(Subtitle(audience)),
		},
		entities.AgendaSlide{
			Title: AgendaTitle,
			Items: truncateAll(capList(titles, entities.MaxAgendaItems)),
		},
	}

	for i, section := range sections {
		slides = append(slides, entities.ContentSlide{
			Title:   titles[i],
			Content: truncateAll(capList(section[1:], entities.MaxContentItems)),
		})
	}

	if len(slides) < entities.MinSlides {
		slides = append(slides, chartSlide())
	}

	slides = append(slides, entities.ThanksSlide{Title: ThanksTitle, Subtitle: ThanksSubtitle})

	return padSlides(slides)
}

// Subtitle returns the audience line shown on the title slide
func Subtitle(audience string) string {
	audience = strings.TrimSpace(audience)
	if audience == "" {
		return "Prepared for " + GeneralAudience + " Audience"
	}
	return "Prepared for " + cases.Title(language.Und).String(audience) + " Audience"
}

// SplitPages splits joined text on its page marker lines and returns the
// non-blank page bodies in order. Text without markers is a single page.
func SplitPages(text string) []string {
	var pages []string
	for _, part := range pageMarkerPattern.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			pages = append(pages, part)
		}
	}
	return pages
}

// partition groups points into fixed-size sections, padding with filler
// sections until there are at least minSections.
func partition(points []string) [][]string {
	var sections [][]string
	for start := 0; start < len(points); start += sectionSize {
		end := min(start+sectionSize, len(points))
		sections = append(sections, points[start:end])
	}

	for len(sections) < minSections {
		sections = append(sections, fillerSection())
	}
	return sections
}

func fillerSection() []string {
	return append([]string{FillerTitle}, fillerPoints...)
}

// sectionTitle uses the first few words of the section's first point
func sectionTitle(section []string, index int) string {
	if len(section) == 0 {
		return entities.SectionLabel(index)
	}

	words := strings.Fields(section[0])
	if len(words) > sectionTitleWords {
		words = words[:sectionTitleWords]
	}

	title := strings.TrimRight(strings.Join(words, " "), ".,;:")
	title = strings.TrimSpace(title)
	if title == "" {
		return entities.SectionLabel(index)
	}
	return entities.TruncateField(title)
}

// padSlides inserts filler slides before the closing slide until the deck
// reaches the minimum length, alternating content and chart fillers.
func padSlides(slides []entities.Slide) []entities.Slide {
	for len(slides) < entities.MinSlides {
		var filler entities.Slide
		if len(slides)%2 == 0 {
			filler = entities.ContentSlide{Title: FillerTitle, Content: append([]string(nil), fillerPoints...)}
		} else {
			filler = chartSlide()
		}

		last := len(slides) - 1
		slides = append(slides[:last], filler, slides[last])
	}
	return slides
}

func chartSlide() entities.ChartSlide {
	return entities.ChartSlide{Title: ChartTitle, ChartType: DefaultChartType}
}

func capList(values []string, limit int) []string {
	if len(values) > limit {
		return values[:limit]
	}
	return values
}

func truncateAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = entities.TruncateField(v)
	}
	return out
}
