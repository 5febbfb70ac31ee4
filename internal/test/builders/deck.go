package builders

import (
	"strconv"
	"time"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

// DeckBuilder helps build Deck entities for testing
type DeckBuilder struct {
	deck     *entities.Deck
	agenda   []string
	sections [][]string
	charts   int
}

// NewDeckBuilder creates a new deck builder with sensible defaults: a title,
// an agenda with three sections, three content slides and a thanks slide.
func NewDeckBuilder() *DeckBuilder {
	return &DeckBuilder{
		deck: &entities.Deck{
			Title:      "Test Deck",
			Audience:   entities.AudienceExecutive,
			Theme:      entities.ThemeDefault,
			SourceName: "test.txt",
			CreatedAt:  time.Date(2024, 6, 30, 10, 0, 0, 0, time.UTC),
		},
		sections: [][]string{
			{"First point of section one", "Second point of section one"},
			{"First point of section two"},
			{"First point of section three"},
		},
	}
}

// WithID sets the deck ID
func (b *DeckBuilder) WithID(id string) *DeckBuilder {
	b.deck.ID = id
	return b
}

// WithTitle sets the deck title
func (b *DeckBuilder) WithTitle(title string) *DeckBuilder {
	b.deck.Title = title
	return b
}

// WithAudience sets the deck audience
func (b *DeckBuilder) WithAudience(audience entities.Audience) *DeckBuilder {
	b.deck.Audience = audience
	return b
}

// WithTheme sets the deck theme
func (b *DeckBuilder) WithTheme(theme entities.Theme) *DeckBuilder {
	b.deck.Theme = theme
	return b
}

// WithSourceName sets the uploaded file name
func (b *DeckBuilder) WithSourceName(name string) *DeckBuilder {
	b.deck.SourceName = name
	return b
}

// WithGeneration sets the pipeline generation
func (b *DeckBuilder) WithGeneration(generation uint64) *DeckBuilder {
	b.deck.Generation = generation
	return b
}

// WithSections replaces the content sections. Agenda items default to the
// section titles "Section N".
func (b *DeckBuilder) WithSections(sections ...[]string) *DeckBuilder {
	b.sections = sections
	return b
}

// WithAgenda sets explicit agenda items
func (b *DeckBuilder) WithAgenda(items ...string) *DeckBuilder {
	b.agenda = items
	return b
}

// WithChart appends a chart slide before the thanks slide
func (b *DeckBuilder) WithChart() *DeckBuilder {
	b.charts++
	return b
}

// Build creates the final Deck entity
func (b *DeckBuilder) Build() *entities.Deck {
	deck := *b.deck

	titles := make([]string, len(b.sections))
	for i := range b.sections {
		titles[i] = entities.SectionLabel(i)
	}

	agenda := b.agenda
	if agenda == nil {
		agenda = titles
		if len(agenda) > entities.MaxAgendaItems {
			agenda = agenda[:entities.MaxAgendaItems]
		}
	}

	slides := []entities.Slide{
		entities.TitleSlide{Title: deck.Title, Subtitle: "Prepared for Executive audience"},
		entities.AgendaSlide{Title: "Agenda", Items: append([]string(nil), agenda...)},
	}
	for i, content := range b.sections {
		slides = append(slides, entities.ContentSlide{Title: titles[i], Content: append([]string(nil), content...)})
	}
	for i := 0; i < b.charts; i++ {
		slides = append(slides, entities.ChartSlide{Title: "Data Visualization", ChartType: "bar"})
	}
	slides = append(slides, entities.ThanksSlide{Title: "Thank You", Subtitle: "Questions & Discussion"})

	deck.Slides = slides
	return &deck
}

// MinimalDeck creates the smallest valid deck: title, agenda, two content
// slides and thanks
func MinimalDeck() *entities.Deck {
	return NewDeckBuilder().
		WithTitle("Minimal").
		WithSections([]string{"Only point"}).
		WithChart().
		Build()
}

// LargeDeck creates a deck with many content slides
func LargeDeck() *entities.Deck {
	sections := make([][]string, 20)
	for i := range sections {
		sections[i] = []string{"Point " + strconv.Itoa(i+1)}
	}
	return NewDeckBuilder().
		WithTitle("Large Deck").
		WithSections(sections...).
		Build()
}

// DocumentBuilder helps build uploaded Documents for testing
type DocumentBuilder struct {
	doc entities.Document
}

// NewDocumentBuilder creates a plain text document builder
func NewDocumentBuilder() *DocumentBuilder {
	return &DocumentBuilder{
		doc: entities.Document{
			Name:         "notes.txt",
			DeclaredType: entities.MimeText,
		},
	}
}

// WithName sets the file name
func (b *DocumentBuilder) WithName(name string) *DocumentBuilder {
	b.doc.Name = name
	return b
}

// WithType sets the declared MIME type
func (b *DocumentBuilder) WithType(mime string) *DocumentBuilder {
	b.doc.DeclaredType = mime
	return b
}

// WithText sets the document body
func (b *DocumentBuilder) WithText(text string) *DocumentBuilder {
	return b.WithData([]byte(text))
}

// WithData sets the raw document bytes
func (b *DocumentBuilder) WithData(data []byte) *DocumentBuilder {
	b.doc.Data = append([]byte(nil), data...)
	b.doc.Size = int64(len(data))
	return b
}

// WithSize overrides the declared size
func (b *DocumentBuilder) WithSize(size int64) *DocumentBuilder {
	b.doc.Size = size
	return b
}

// Build creates the final Document
func (b *DocumentBuilder) Build() entities.Document {
	doc := b.doc
	doc.Data = append([]byte(nil), b.doc.Data...)
	return doc
}
