package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSlides() []Slide {
	return []Slide{
		TitleSlide{Title: "Report", Subtitle: "Prepared for Executive Audience"},
		AgendaSlide{Title: "Agenda", Items: []string{"Revenue", "Costs", "Outlook"}},
		ContentSlide{Title: "Revenue", Content: []string{"Up ten percent"}},
		ContentSlide{Title: "Costs", Content: []string{"Down"}},
		ThanksSlide{Title: "Thank You", Subtitle: "Questions & Discussion"},
	}
}

func TestDeck_Validate(t *testing.T) {
	t.Run("valid deck", func(t *testing.T) {
		d := &Deck{Title: "Report", Slides: validSlides()}
		assert.NoError(t, d.Validate())
	})

	t.Run("nil deck", func(t *testing.T) {
		var d *Deck
		assert.Error(t, d.Validate())
	})

	t.Run("too few slides", func(t *testing.T) {
		d := &Deck{Slides: validSlides()[:4]}
		err := d.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "minimum is 5")
	})

	t.Run("title must be first", func(t *testing.T) {
		slides := validSlides()
		slides[0], slides[2] = slides[2], slides[0]
		err := (&Deck{Slides: slides}).Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "first slide must be title")
	})

	t.Run("thanks must be last", func(t *testing.T) {
		slides := validSlides()
		slides = append(slides, ChartSlide{Title: "Data Visualization", ChartType: "bar"})
		err := (&Deck{Slides: slides}).Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "last slide must be thanks")
	})

	t.Run("agenda must be second", func(t *testing.T) {
		slides := validSlides()
		slides[1], slides[2] = slides[2], slides[1]
		err := (&Deck{Slides: slides}).Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be second")
	})

	t.Run("second agenda rejected", func(t *testing.T) {
		slides := validSlides()
		slides[3] = AgendaSlide{Title: "Agenda"}
		assert.Error(t, (&Deck{Slides: slides}).Validate())
	})

	t.Run("deck without agenda", func(t *testing.T) {
		slides := validSlides()
		slides[1] = ChartSlide{Title: "Data Visualization", ChartType: "bar"}
		assert.NoError(t, (&Deck{Slides: slides}).Validate())
	})

	t.Run("slide errors are numbered", func(t *testing.T) {
		slides := validSlides()
		slides[2] = ContentSlide{Title: ""}
		err := (&Deck{Slides: slides}).Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "slide 3 validation failed")
	})
}

func TestDeck_GetSlideByIndex(t *testing.T) {
	d := &Deck{Slides: validSlides()}

	s, err := d.GetSlideByIndex(0)
	require.NoError(t, err)
	assert.Equal(t, SlideTypeTitle, s.Type())

	_, err = d.GetSlideByIndex(5)
	assert.Error(t, err)

	_, err = d.GetSlideByIndex(-1)
	assert.Error(t, err)

	assert.Equal(t, 5, d.SlideCount())
}

func TestDeck_MarshalJSON(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d := Deck{ID: "abc", Title: "Report", Audience: AudienceTechnical, Theme: ThemeModern, CreatedAt: created, Slides: validSlides()}

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var doc DeckDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "abc", doc.ID)
	assert.Equal(t, 5, doc.SlideCount)
	require.Len(t, doc.Slides, 5)
	assert.Equal(t, SlideTypeAgenda, doc.Slides[1].Type)
	assert.Equal(t, []string{"Revenue", "Costs", "Outlook"}, doc.Slides[1].Items)
	assert.True(t, created.Equal(doc.CreatedAt))
}

func TestDeck_Clone(t *testing.T) {
	d := &Deck{Title: "Report", Slides: validSlides()}
	c := d.Clone()

	c.Slides[0] = TitleSlide{Title: "Other"}
	c.Title = "Other"

	assert.Equal(t, "Report", d.Title)
	assert.Equal(t, "Report", d.Slides[0].Heading())
	assert.Equal(t, d.Slides[1], c.Slides[1])

	c.Slides[1].(AgendaSlide).Items[0] = "Changed"
	assert.Equal(t, "Revenue", d.Slides[1].(AgendaSlide).Items[0], "agenda items are copied")
}

func TestDeck_CloneKeepsEverySlide(t *testing.T) {
	d := &Deck{Title: "Report", Slides: append(validSlides(), nil)}
	c := d.Clone()

	require.Len(t, c.Slides, len(d.Slides))
	assert.Nil(t, c.Slides[len(c.Slides)-1], "unset slides survive the copy")
	for i := range d.Slides[:len(d.Slides)-1] {
		assert.Equal(t, d.Slides[i], c.Slides[i])
	}
}
