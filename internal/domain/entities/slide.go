package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SlideType discriminates the slide variants
type SlideType string

const (
	SlideTypeTitle   SlideType = "title"
	SlideTypeAgenda  SlideType = "agenda"
	SlideTypeContent SlideType = "content"
	SlideTypeChart   SlideType = "chart"
	SlideTypeThanks  SlideType = "thanks"
)

const (
	// MaxAgendaItems is the number of section titles listed on the agenda
	MaxAgendaItems = 5

	// MaxContentItems is the number of bullet points on a content slide
	MaxContentItems = 4
)

// Slide is one of TitleSlide, AgendaSlide, ContentSlide, ChartSlide or ThanksSlide.
// The set is closed; switch on the concrete type to render.
type Slide interface {
	// Type returns the variant tag
	Type() SlideType

	// Heading returns the slide title
	Heading() string

	// Validate checks the per-variant field limits
	Validate() error

	isSlide()
}

// TitleSlide opens a deck
type TitleSlide struct {
	Title    string
	Subtitle string
}

// AgendaSlide lists the section titles
type AgendaSlide struct {
	Title string
	Items []string
}

// ContentSlide holds the bullet points of one section
type ContentSlide struct {
	Title   string
	Content []string
}

// ChartSlide is a placeholder for a visualization
type ChartSlide struct {
	Title     string
	ChartType string
}

// ThanksSlide closes a deck
type ThanksSlide struct {
	Title    string
	Subtitle string
}

func (TitleSlide) Type() SlideType   { return SlideTypeTitle }
func (AgendaSlide) Type() SlideType  { return SlideTypeAgenda }
func (ContentSlide) Type() SlideType { return SlideTypeContent }
func (ChartSlide) Type() SlideType   { return SlideTypeChart }
func (ThanksSlide) Type() SlideType  { return SlideTypeThanks }

func (s TitleSlide) Heading() string   { return s.Title }
func (s AgendaSlide) Heading() string  { return s.Title }
func (s ContentSlide) Heading() string { return s.Title }
func (s ChartSlide) Heading() string   { return s.Title }
func (s ThanksSlide) Heading() string  { return s.Title }

func (TitleSlide) isSlide()   {}
func (AgendaSlide) isSlide()  {}
func (ContentSlide) isSlide() {}
func (ChartSlide) isSlide()   {}
func (ThanksSlide) isSlide()  {}

// Validate ensures the title slide fields are within limits
func (s TitleSlide) Validate() error {
	if err := validateTitle(s.Title); err != nil {
		return err
	}
	return validateField("subtitle", s.Subtitle)
}

// Validate ensures the agenda has at most MaxAgendaItems bounded items
func (s AgendaSlide) Validate() error {
	if err := validateTitle(s.Title); err != nil {
		return err
	}
	if len(s.Items) > MaxAgendaItems {
		return fmt.Errorf("agenda has %d items, maximum is %d", len(s.Items), MaxAgendaItems)
	}
	return validateList("item", s.Items)
}

// Validate ensures the content slide has at most MaxContentItems bounded points
func (s ContentSlide) Validate() error {
	if err := validateTitle(s.Title); err != nil {
		return err
	}
	if len(s.Content) > MaxContentItems {
		return fmt.Errorf("content has %d points, maximum is %d", len(s.Content), MaxContentItems)
	}
	return validateList("point", s.Content)
}

// Validate ensures the chart slide fields are within limits
func (s ChartSlide) Validate() error {
	if err := validateTitle(s.Title); err != nil {
		return err
	}
	return validateField("chart type", s.ChartType)
}

// Validate ensures the thanks slide fields are within limits
func (s ThanksSlide) Validate() error {
	if err := validateTitle(s.Title); err != nil {
		return err
	}
	return validateField("subtitle", s.Subtitle)
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("slide title cannot be empty")
	}
	return validateField("title", title)
}

func validateField(name, value string) error {
	if n := Length(value); n > MaxFieldLength {
		return fmt.Errorf("%s is %d characters, maximum is %d", name, n, MaxFieldLength)
	}
	return nil
}

func validateList(name string, values []string) error {
	for i, v := range values {
		if err := validateField(name+" "+strconv.Itoa(i+1), v); err != nil {
			return err
		}
	}
	return nil
}

// SectionLabel is the synthetic title used when a section has no usable text
func SectionLabel(index int) string {
	return "Section " + strconv.Itoa(index+1)
}

// SlideRecord is the flat, tag-discriminated form of a slide used on the wire
type SlideRecord struct {
	Type      SlideType `json:"type" yaml:"type"`
	Title     string    `json:"title" yaml:"title"`
	Subtitle  string    `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Items     []string  `json:"items,omitempty" yaml:"items,omitempty"`
	Content   []string  `json:"content,omitempty" yaml:"content,omitempty"`
	ChartType string    `json:"chartType,omitempty" yaml:"chartType,omitempty"`
}

// ToRecord flattens a slide into its wire form
func ToRecord(s Slide) SlideRecord {
	switch v := s.(type) {
	case TitleSlide:
		return SlideRecord{Type: SlideTypeTitle, Title: v.Title, Subtitle: v.Subtitle}
	case AgendaSlide:
		return SlideRecord{Type: SlideTypeAgenda, Title: v.Title, Items: append([]string(nil), v.Items...)}
	case ContentSlide:
		return SlideRecord{Type: SlideTypeContent, Title: v.Title, Content: append([]string(nil), v.Content...)}
	case ChartSlide:
		return SlideRecord{Type: SlideTypeChart, Title: v.Title, ChartType: v.ChartType}
	case ThanksSlide:
		return SlideRecord{Type: SlideTypeThanks, Title: v.Title, Subtitle: v.Subtitle}
	default:
		return SlideRecord{}
	}
}

// cloneSlide copies the list fields of s; the other variants are plain values
func cloneSlide(s Slide) Slide {
	switch v := s.(type) {
	case AgendaSlide:
		v.Items = append([]string(nil), v.Items...)
		return v
	case ContentSlide:
		v.Content = append([]string(nil), v.Content...)
		return v
	default:
		return s
	}
}

// ToSlide rebuilds the typed slide from its wire form
func (r SlideRecord) ToSlide() (Slide, error) {
	switch r.Type {
	case SlideTypeTitle:
		return TitleSlide{Title: r.Title, Subtitle: r.Subtitle}, nil
	case SlideTypeAgenda:
		return AgendaSlide{Title: r.Title, Items: append([]string(nil), r.Items...)}, nil
	case SlideTypeContent:
		return ContentSlide{Title: r.Title, Content: append([]string(nil), r.Content...)}, nil
	case SlideTypeChart:
		return ChartSlide{Title: r.Title, ChartType: r.ChartType}, nil
	case SlideTypeThanks:
		return ThanksSlide{Title: r.Title, Subtitle: r.Subtitle}, nil
	default:
		return nil, fmt.Errorf("unknown slide type %q", r.Type)
	}
}
