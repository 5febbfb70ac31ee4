package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

// MemoryStore is a bounded in-memory deck store. When full, the deck saved
// longest ago is evicted.
type MemoryStore struct {
	mu      sync.RWMutex
	decks   map[string]*storedEntry
	maxSize int
	seq     uint64
}

// storedEntry wraps a deck with store metadata
type storedEntry struct {
	entry ports.StoredDeck
	seq   uint64
}

// NewMemoryStore creates a store holding at most maxSize decks.
// A maxSize of zero or less means unbounded.
func NewMemoryStore(maxSize int) *MemoryStore {
	return &MemoryStore{
		decks:   make(map[string]*storedEntry),
		maxSize: maxSize,
	}
}

// Save stores a copy of the deck and returns its ID
func (s *MemoryStore) Save(ctx context.Context, entry ports.StoredDeck) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := entry.Deck.Validate(); err != nil {
		return "", err
	}

	deck := entry.Deck.Clone()
	if deck.ID == "" {
		deck.ID = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.decks[deck.ID]; !exists && s.maxSize > 0 && len(s.decks) >= s.maxSize {
		s.evictOldest()
	}

	s.seq++
	s.decks[deck.ID] = &storedEntry{
		entry: ports.StoredDeck{Deck: deck, Extraction: copyExtraction(entry.Extraction)},
		seq:   s.seq,
	}

	return deck.ID, nil
}

// Get retrieves a copy of a stored deck
func (s *MemoryStore) Get(ctx context.Context, id string) (*ports.StoredDeck, error) {
	s.mu.RLock()
	stored, exists := s.decks[id]
	s.mu.RUnlock()

	if !exists {
		return nil, entities.ErrDeckNotFound
	}
	return stored.snapshot(), nil
}

// Delete removes a stored deck
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.decks[id]; !exists {
		return entities.ErrDeckNotFound
	}
	delete(s.decks, id)
	return nil
}

// List returns copies of every stored deck, most recently saved first
func (s *MemoryStore) List(ctx context.Context) ([]*ports.StoredDeck, error) {
	s.mu.RLock()
	entries := make([]*storedEntry, 0, len(s.decks))
	for _, stored := range s.decks {
		entries = append(entries, stored)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq > entries[j].seq
	})

	result := make([]*ports.StoredDeck, len(entries))
	for i, stored := range entries {
		result[i] = stored.snapshot()
	}
	return result, nil
}

// Len returns the number of stored decks
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.decks)
}

// evictOldest evicts the deck saved longest ago. Callers hold the lock.
func (s *MemoryStore) evictOldest() {
	var (
		evictID string
		oldest  uint64
	)

	for id, stored := range s.decks {
		if evictID == "" || stored.seq < oldest {
			oldest = stored.seq
			evictID = id
		}
	}

	if evictID != "" {
		delete(s.decks, evictID)
	}
}

func (e *storedEntry) snapshot() *ports.StoredDeck {
	return &ports.StoredDeck{
		Deck:       e.entry.Deck.Clone(),
		Extraction: copyExtraction(e.entry.Extraction),
	}
}

func copyExtraction(r entities.ExtractionResult) entities.ExtractionResult {
	r.Pages = append([]entities.ExtractedPage(nil), r.Pages...)
	return r
}

var _ ports.DeckStore = (*MemoryStore)(nil)
