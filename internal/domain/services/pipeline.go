package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

// DefaultSession is used for requests that carry no session key
const DefaultSession = "default"

// PipelineOptions configures a Pipeline
type PipelineOptions struct {
	Extractor ports.Extractor
	Store     ports.DeckStore
	Notifier  ports.EventNotifier
	Clock     ports.TimeProvider
	Logger    *slog.Logger
	Upload    entities.UploadConfig
	Summary   entities.SummaryConfig
}

// Pipeline converts uploaded documents into decks: validate, extract,
// assemble. Every run gets a generation from one increasing counter; a run
// whose generation was superseded by a newer upload of the same session is
// discarded. Sessions with no run in flight hold no state.
type Pipeline struct {
	extractor ports.Extractor
	assembler *Assembler
	store     ports.DeckStore
	notifier  ports.EventNotifier
	clock     ports.TimeProvider
	logger    *slog.Logger
	maxBytes  int64

	mu          sync.Mutex
	next        uint64
	generations map[string]uint64
}

// NewPipeline creates a pipeline. Store and Notifier are optional.
func NewPipeline(opts PipelineOptions) (*Pipeline, error) {
	if opts.Extractor == nil {
		return nil, errors.New("extractor is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	clock := opts.Clock
	if clock == nil {
		clock = ports.NewRealTimeProvider()
	}

	return &Pipeline{
		extractor:   opts.Extractor,
		assembler:   NewAssembler(opts.Summary),
		store:       opts.Store,
		notifier:    opts.Notifier,
		clock:       clock,
		logger:      logger,
		maxBytes:    opts.Upload.GetMaxBytes(),
		generations: make(map[string]uint64),
	}, nil
}

// Begin starts a new run for session and returns its generation.
// Earlier runs of the same session become stale.
func (p *Pipeline) Begin(session string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.next++
	p.generations[sessionKey(session)] = p.next
	return p.next
}

// Current returns the latest generation started for session, or zero when
// the session has no run in flight
func (p *Pipeline) Current(session string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.generations[sessionKey(session)]
}

// Complete reports whether a run may publish its result. It returns
// entities.ErrStaleResult when a newer run has started for the session.
func (p *Pipeline) Complete(session string, generation uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.completeLocked(session, generation)
}

func (p *Pipeline) completeLocked(session string, generation uint64) error {
	if current := p.generations[sessionKey(session)]; current != generation {
		return fmt.Errorf("generation %d of session %s, current is %d: %w",
			generation, sessionKey(session), current, entities.ErrStaleResult)
	}
	return nil
}

// finish forgets session once its latest run is over. Generations only
// grow, so a stale run still sees a mismatch after the entry is gone.
func (p *Pipeline) finish(session string, generation uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.generations[sessionKey(session)] == generation {
		delete(p.generations, sessionKey(session))
	}
}

// publish stores deck if generation is still current. The check and the
// save happen under one lock so a newer Begin cannot slip in between.
func (p *Pipeline) publish(ctx context.Context, session string, generation uint64, entry ports.StoredDeck) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.completeLocked(session, generation); err != nil {
		return err
	}
	if p.store == nil {
		return nil
	}

	id, err := p.store.Save(ctx, entry)
	if err != nil {
		return fmt.Errorf("storing deck: %w", err)
	}
	entry.Deck.ID = id
	return nil
}

// Convert runs the whole pipeline for one request
func (p *Pipeline) Convert(ctx context.Context, req ports.DeckRequest) (*ports.DeckResult, error) {
	generation := p.Begin(req.Session)
	return p.Run(ctx, req, generation)
}

// Run executes a request that was started with Begin
func (p *Pipeline) Run(ctx context.Context, req ports.DeckRequest, generation uint64) (*ports.DeckResult, error) {
	defer p.finish(req.Session, generation)

	doc := req.Document
	logger := p.logger.With(
		slog.String("session", sessionKey(req.Session)),
		slog.Uint64("generation", generation),
		slog.String("file", doc.Name),
	)

	if err := ValidateUpload(doc, p.maxBytes); err != nil {
		logger.Warn("Upload rejected", slog.String("error", err.Error()))
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("conversion cancelled: %w", err)
	}

	start := p.clock.Now()
	extraction := p.extractor.Extract(ctx, doc)
	logger.Debug("Document extracted",
		slog.String("format", string(extraction.Format)),
		slog.Int("pages", len(extraction.Pages)),
		slog.Int("chars", entities.Length(extraction.Text)),
	)

	title := req.Title
	if title == "" {
		title = extraction.Title
	}

	theme := req.Theme
	if theme == "" {
		theme = entities.ThemeDefault
	}

	deck := &entities.Deck{
		Audience:   req.Audience,
		Theme:      theme,
		SourceName: doc.Name,
		Generation: generation,
		CreatedAt:  p.clock.Now(),
		Slides:     p.assembler.Assemble(extraction.Text, string(req.Audience), title),
	}
	deck.Title = deck.Slides[0].Heading()

	if err := deck.Validate(); err != nil {
		return nil, fmt.Errorf("assembled deck is invalid: %w", err)
	}

	if err := p.publish(ctx, req.Session, generation, ports.StoredDeck{Deck: deck, Extraction: extraction}); err != nil {
		if errors.Is(err, entities.ErrStaleResult) {
			logger.Info("Discarding superseded result")
		}
		return nil, err
	}

	result := &ports.DeckResult{Deck: deck, Extraction: extraction}

	logger.Info("Deck assembled",
		slog.String("id", deck.ID),
		slog.String("title", deck.Title),
		slog.Int("slides", deck.SlideCount()),
		slog.Duration("duration", p.clock.Since(start)),
	)

	p.notify(ports.UpdateEvent{
		Type:      ports.EventTypeDeckCreated,
		Timestamp: p.clock.Now(),
		Data: map[string]interface{}{
			"id":     deck.ID,
			"title":  deck.Title,
			"slides": deck.SlideCount(),
		},
	})

	return result, nil
}

// SetNotifier replaces the event notifier. The HTTP server is created after
// the pipeline it serves, so it is attached here.
func (p *Pipeline) SetNotifier(n ports.EventNotifier) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifier = n
}

func (p *Pipeline) notify(event ports.UpdateEvent) {
	p.mu.Lock()
	notifier := p.notifier
	p.mu.Unlock()

	if notifier == nil {
		return
	}
	if err := notifier.NotifyClients(event); err != nil {
		p.logger.Warn("Failed to notify clients",
			slog.String("event", event.Type),
			slog.String("error", err.Error()),
		)
	}
}

func sessionKey(session string) string {
	if session == "" {
		return DefaultSession
	}
	return session
}

var _ ports.DeckService = (*Pipeline)(nil)
