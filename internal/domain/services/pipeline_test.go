package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

type stubExtractor struct {
	result entities.ExtractionResult
	calls  int
	during func()
}

func (s *stubExtractor) Extract(ctx context.Context, doc entities.Document) entities.ExtractionResult {
	s.calls++
	if s.during != nil {
		s.during()
	}
	return s.result
}

type MockDeckStore struct {
	mock.Mock
}

func (m *MockDeckStore) Save(ctx context.Context, entry ports.StoredDeck) (string, error) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Error(1)
}

func (m *MockDeckStore) Get(ctx context.Context, id string) (*ports.StoredDeck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.StoredDeck), args.Error(1)
}

func (m *MockDeckStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDeckStore) List(ctx context.Context) ([]*ports.StoredDeck, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*ports.StoredDeck), args.Error(1)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []ports.UpdateEvent
	err    error
}

func (n *recordingNotifier) NotifyClients(event ports.UpdateEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time                       { return c.now }
func (c fixedClock) Since(t time.Time) time.Duration      { return c.now.Sub(t) }
func (c fixedClock) NewTimer(d time.Duration) ports.Timer { return ports.NewRealTimeProvider().NewTimer(d) }

func textRequest(session string) ports.DeckRequest {
	return ports.DeckRequest{
		Session:  session,
		Document: entities.Document{Name: "notes.txt", DeclaredType: entities.MimeText, Size: 20, Data: []byte("Quarterly Notes\nRevenue grew a lot.")},
		Audience: entities.AudienceExecutive,
		Theme:    entities.ThemeModern,
	}
}

func plainResult(text string) entities.ExtractionResult {
	return entities.ExtractionResult{
		Text:   text,
		Pages:  []entities.ExtractedPage{{PageNumber: 1, Text: text}},
		Format: entities.FormatText,
	}
}

func TestNewPipeline(t *testing.T) {
	_, err := NewPipeline(PipelineOptions{})
	assert.Error(t, err)

	p, err := NewPipeline(PipelineOptions{Extractor: &stubExtractor{}})
	require.NoError(t, err)
	assert.Equal(t, int64(10*1024*1024), p.maxBytes)
}

func TestPipeline_Convert(t *testing.T) {
	t.Run("builds, stores and announces a deck", func(t *testing.T) {
		created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		extractor := &stubExtractor{result: plainResult("Quarterly Notes\nRevenue grew by a large margin this year.")}
		store := &MockDeckStore{}
		store.On("Save", mock.Anything, mock.MatchedBy(func(e ports.StoredDeck) bool {
			return e.Deck.Title == "Quarterly Notes"
		})).Return("deck-1", nil)
		notifier := &recordingNotifier{}

		p, err := NewPipeline(PipelineOptions{
			Extractor: extractor,
			Store:     store,
			Notifier:  notifier,
			Clock:     fixedClock{now: created},
		})
		require.NoError(t, err)

		result, err := p.Convert(context.Background(), textRequest("s1"))
		require.NoError(t, err)

		deck := result.Deck
		assert.Equal(t, "deck-1", deck.ID)
		assert.Equal(t, "Quarterly Notes", deck.Title)
		assert.Equal(t, entities.ThemeModern, deck.Theme)
		assert.Equal(t, "notes.txt", deck.SourceName)
		assert.Equal(t, uint64(1), deck.Generation)
		assert.Equal(t, created, deck.CreatedAt)
		assert.NoError(t, deck.Validate())
		assert.Equal(t, entities.FormatText, result.Extraction.Format)

		store.AssertExpectations(t)
		require.Len(t, notifier.events, 1)
		assert.Equal(t, ports.EventTypeDeckCreated, notifier.events[0].Type)
	})

	t.Run("request title overrides detection", func(t *testing.T) {
		p, err := NewPipeline(PipelineOptions{Extractor: &stubExtractor{result: plainResult("Detected\nBody text goes here.")}})
		require.NoError(t, err)

		req := textRequest("")
		req.Title = "From Request"
		result, err := p.Convert(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "From Request", result.Deck.Title)
	})

	t.Run("extraction title hint is used", func(t *testing.T) {
		res := plainResult("Body text goes here.")
		res.Title = "Hinted"
		p, err := NewPipeline(PipelineOptions{Extractor: &stubExtractor{result: res}})
		require.NoError(t, err)

		result, err := p.Convert(context.Background(), textRequest(""))
		require.NoError(t, err)
		assert.Equal(t, "Hinted", result.Deck.Title)
	})

	t.Run("rejected uploads never reach extraction", func(t *testing.T) {
		extractor := &stubExtractor{}
		p, err := NewPipeline(PipelineOptions{Extractor: extractor, Upload: entities.UploadConfig{MaxSizeMB: 1}})
		require.NoError(t, err)

		req := textRequest("s1")
		req.Document.DeclaredType = "image/png"
		_, err = p.Convert(context.Background(), req)
		assert.ErrorIs(t, err, entities.ErrInvalidFileType)

		req = textRequest("s1")
		req.Document.Size = 2 * 1024 * 1024
		_, err = p.Convert(context.Background(), req)
		assert.ErrorIs(t, err, entities.ErrFileTooLarge)

		assert.Zero(t, extractor.calls)
	})

	t.Run("cancelled context", func(t *testing.T) {
		p, err := NewPipeline(PipelineOptions{Extractor: &stubExtractor{}})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = p.Convert(ctx, textRequest("s1"))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("store failure", func(t *testing.T) {
		store := &MockDeckStore{}
		store.On("Save", mock.Anything, mock.Anything).Return("", errors.New("full"))
		p, err := NewPipeline(PipelineOptions{Extractor: &stubExtractor{result: plainResult("x")}, Store: store})
		require.NoError(t, err)

		_, err = p.Convert(context.Background(), textRequest("s1"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storing deck")
	})

	t.Run("notifier failure does not fail the run", func(t *testing.T) {
		notifier := &recordingNotifier{err: errors.New("no clients")}
		p, err := NewPipeline(PipelineOptions{Extractor: &stubExtractor{result: plainResult("x")}, Notifier: notifier})
		require.NoError(t, err)

		_, err = p.Convert(context.Background(), textRequest("s1"))
		assert.NoError(t, err)
		assert.Len(t, notifier.events, 1)
	})

	t.Run("notifier attached after construction", func(t *testing.T) {
		p, err := NewPipeline(PipelineOptions{Extractor: &stubExtractor{result: plainResult("x")}})
		require.NoError(t, err)

		notifier := &recordingNotifier{}
		p.SetNotifier(notifier)

		_, err = p.Convert(context.Background(), textRequest("s1"))
		require.NoError(t, err)
		assert.Len(t, notifier.events, 1)
	})
}

func TestPipeline_Generations(t *testing.T) {
	t.Run("generations increase across sessions", func(t *testing.T) {
		p, err := NewPipeline(PipelineOptions{Extractor: &stubExtractor{}})
		require.NoError(t, err)

		assert.Equal(t, uint64(1), p.Begin("a"))
		assert.Equal(t, uint64(2), p.Begin("a"))
		assert.Equal(t, uint64(3), p.Begin("b"))
		assert.Equal(t, uint64(4), p.Begin(""))
		assert.Equal(t, uint64(4), p.Current(DefaultSession))
		assert.Equal(t, uint64(3), p.Current("b"))

		assert.NoError(t, p.Complete("a", 2))
		assert.ErrorIs(t, p.Complete("a", 1), entities.ErrStaleResult)
	})

	t.Run("finished sessions are forgotten", func(t *testing.T) {
		p, err := NewPipeline(PipelineOptions{Extractor: &stubExtractor{result: plainResult("Text is here.")}})
		require.NoError(t, err)

		for _, session := range []string{"a", "b", "c"} {
			_, err := p.Convert(context.Background(), textRequest(session))
			require.NoError(t, err)
		}

		// rejected uploads are forgotten too
		req := textRequest("d")
		req.Document.DeclaredType = "image/png"
		_, err = p.Convert(context.Background(), req)
		require.ErrorIs(t, err, entities.ErrInvalidFileType)

		p.mu.Lock()
		assert.Empty(t, p.generations)
		p.mu.Unlock()
		assert.Equal(t, uint64(0), p.Current("a"))
	})

	t.Run("stale run stays stale after the newer run finishes", func(t *testing.T) {
		p, err := NewPipeline(PipelineOptions{Extractor: &stubExtractor{result: plainResult("Text is here.")}})
		require.NoError(t, err)

		old := p.Begin("s1")
		_, err = p.Convert(context.Background(), textRequest("s1"))
		require.NoError(t, err)

		// a third upload restarts the session after it was forgotten
		p.Begin("s1")

		_, err = p.Run(context.Background(), textRequest("s1"), old)
		assert.ErrorIs(t, err, entities.ErrStaleResult)
	})

	t.Run("begin waits for an in-progress save", func(t *testing.T) {
		store := &MockDeckStore{}

		var p *Pipeline
		begun := make(chan uint64, 1)
		store.On("Save", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			go func() { begun <- p.Begin("s1") }()
			assert.Never(t, func() bool { return len(begun) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
		}).Return("deck-1", nil)

		var err error
		p, err = NewPipeline(PipelineOptions{Extractor: &stubExtractor{result: plainResult("Text is here.")}, Store: store})
		require.NoError(t, err)

		result, err := p.Convert(context.Background(), textRequest("s1"))
		require.NoError(t, err)
		assert.Equal(t, "deck-1", result.Deck.ID)

		select {
		case generation := <-begun:
			assert.Equal(t, generation, p.Current("s1"))
		case <-time.After(time.Second):
			t.Fatal("begin never returned")
		}
		store.AssertExpectations(t)
	})

	t.Run("superseded run is discarded", func(t *testing.T) {
		store := &MockDeckStore{}
		notifier := &recordingNotifier{}

		var p *Pipeline
		extractor := &stubExtractor{result: plainResult("Old upload text is here.")}
		extractor.during = func() {
			// a newer upload arrives while this one is being extracted
			p.Begin("s1")
		}

		var err error
		p, err = NewPipeline(PipelineOptions{Extractor: extractor, Store: store, Notifier: notifier})
		require.NoError(t, err)

		_, err = p.Convert(context.Background(), textRequest("s1"))
		assert.ErrorIs(t, err, entities.ErrStaleResult)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, notifier.events)
	})

	t.Run("other sessions are unaffected", func(t *testing.T) {
		var p *Pipeline
		extractor := &stubExtractor{result: plainResult("Text is here.")}
		extractor.during = func() { p.Begin("other") }

		var err error
		p, err = NewPipeline(PipelineOptions{Extractor: extractor})
		require.NoError(t, err)

		_, err = p.Convert(context.Background(), textRequest("s1"))
		assert.NoError(t, err)
	})

	t.Run("concurrent begins are serialized", func(t *testing.T) {
		p, err := NewPipeline(PipelineOptions{Extractor: &stubExtractor{}})
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.Begin("shared")
			}()
		}
		wg.Wait()
		assert.Equal(t, uint64(50), p.Current("shared"))
	})
}
