package ports

import (
	"context"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

// StoredDeck is a finished deck together with the text it was built from
type StoredDeck struct {
	Deck       *entities.Deck
	Extraction entities.ExtractionResult
}

// DeckStore keeps finished decks available for download
type DeckStore interface {
	// Save stores a deck, assigning an ID when it has none, and returns the ID
	Save(ctx context.Context, entry StoredDeck) (string, error)

	// Get returns a stored deck or entities.ErrDeckNotFound
	Get(ctx context.Context, id string) (*StoredDeck, error)

	// Delete removes a stored deck or returns entities.ErrDeckNotFound
	Delete(ctx context.Context, id string) error

	// List returns the stored decks, newest first
	List(ctx context.Context) ([]*StoredDeck, error)
}
