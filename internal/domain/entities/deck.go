package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MinSlides is the smallest deck the assembler ever produces
const MinSlides = 5

// Deck is an ordered slide sequence built from one document
type Deck struct {
	// ID is a unique identifier assigned when the deck is stored
	ID string

	// Title is the deck title, also shown on the title slide
	Title string

	// Audience the deck was prepared for
	Audience Audience

	// Theme requested for rendering
	Theme Theme

	// SourceName is the uploaded file name
	SourceName string

	// Generation is the pipeline run that produced the deck
	Generation uint64

	// CreatedAt is when the deck was assembled
	CreatedAt time.Time

	// Slides in presentation order
	Slides []Slide
}

// Validate checks the structural deck invariants: at least MinSlides slides,
// Title first, Thanks last, and at most one Agenda which must be second.
func (d *Deck) Validate() error {
	if d == nil {
		return errors.New("deck cannot be nil")
	}

	if len(d.Slides) < MinSlides {
		return fmt.Errorf("deck has %d slides, minimum is %d", len(d.Slides), MinSlides)
	}

	if d.Slides[0].Type() != SlideTypeTitle {
		return fmt.Errorf("first slide must be %s, got %s", SlideTypeTitle, d.Slides[0].Type())
	}

	last := d.Slides[len(d.Slides)-1]
	if last.Type() != SlideTypeThanks {
		return fmt.Errorf("last slide must be %s, got %s", SlideTypeThanks, last.Type())
	}

	for i, slide := range d.Slides {
		if slide.Type() == SlideTypeAgenda && i != 1 {
			return fmt.Errorf("agenda slide at position %d, must be second", i+1)
		}
		if err := slide.Validate(); err != nil {
			return fmt.Errorf("slide %d validation failed: %w", i+1, err)
		}
	}

	return nil
}

// GetSlideByIndex returns a slide by its index (0-based)
func (d *Deck) GetSlideByIndex(index int) (Slide, error) {
	if index < 0 || index >= len(d.Slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", index, len(d.Slides)-1)
	}
	return d.Slides[index], nil
}

// SlideCount returns the total number of slides
func (d *Deck) SlideCount() int {
	return len(d.Slides)
}

// Records returns the wire form of every slide
func (d *Deck) Records() []SlideRecord {
	records := make([]SlideRecord, len(d.Slides))
	for i, s := range d.Slides {
		records[i] = ToRecord(s)
	}
	return records
}

// DeckDocument is the serialized form of a deck
type DeckDocument struct {
	ID         string        `json:"id,omitempty" yaml:"id,omitempty"`
	Title      string        `json:"title" yaml:"title"`
	Audience   Audience      `json:"audience" yaml:"audience"`
	Theme      Theme         `json:"theme" yaml:"theme"`
	SourceName string        `json:"sourceName,omitempty" yaml:"source_name,omitempty"`
	CreatedAt  time.Time     `json:"createdAt" yaml:"created_at"`
	SlideCount int           `json:"slideCount" yaml:"slide_count"`
	Slides     []SlideRecord `json:"slides" yaml:"slides"`
}

// Document returns the serializable view of the deck
func (d *Deck) Document() DeckDocument {
	return DeckDocument{
		ID:         d.ID,
		Title:      d.Title,
		Audience:   d.Audience,
		Theme:      d.Theme,
		SourceName: d.SourceName,
		CreatedAt:  d.CreatedAt,
		SlideCount: len(d.Slides),
		Slides:     d.Records(),
	}
}

// MarshalJSON encodes the deck with tagged slide records
func (d Deck) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Document())
}

// Clone returns a copy whose slide slice can be changed independently
func (d *Deck) Clone() *Deck {
	c := *d
	c.Slides = make([]Slide, len(d.Slides))
	for i, s := range d.Slides {
		c.Slides[i] = cloneSlide(s)
	}
	return &c
}
