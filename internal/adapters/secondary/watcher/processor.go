package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fredcamaral/docuslide/internal/adapters/secondary/extractor"
	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

// ProcessorOptions configures how inbox files are converted
type ProcessorOptions struct {
	Outbox   string
	Format   string
	Audience entities.Audience
	Theme    entities.Theme
	Logger   *slog.Logger
}

// Processor converts a document from the inbox and writes the export and
// extracted text into the outbox
type Processor struct {
	decks    ports.DeckService
	exporter ports.ExportService
	opts     ProcessorOptions
	logger   *slog.Logger
}

// NewProcessor creates a new inbox processor
func NewProcessor(decks ports.DeckService, exporter ports.ExportService, opts ProcessorOptions) *Processor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Format == "" {
		opts.Format = "json"
	}
	return &Processor{decks: decks, exporter: exporter, opts: opts, logger: logger}
}

// Result lists the files written for one document
type Result struct {
	Deck          *entities.Deck
	ExportPath    string
	ExtractedPath string
}

// Process converts the file at path
func (p *Processor) Process(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the watched inbox
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	name := filepath.Base(path)
	doc := entities.Document{
		Name:         name,
		DeclaredType: entities.MimeForExtension(name),
		Size:         int64(len(data)),
		Data:         data,
	}

	// one session per file so a rewrite supersedes a run still in flight
	result, err := p.decks.Convert(ctx, ports.DeckRequest{
		Session:  "inbox:" + name,
		Document: doc,
		Audience: p.opts.Audience,
		Theme:    p.opts.Theme,
	})
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", name, err)
	}

	artifact, err := p.exporter.Export(ctx, result.Deck, ports.ExportOptions{
		Format:     p.opts.Format,
		Theme:      p.opts.Theme,
		SourceName: name,
		Extraction: &result.Extraction,
	})
	if err != nil {
		return nil, fmt.Errorf("exporting %s: %w", name, err)
	}

	if err := os.MkdirAll(p.opts.Outbox, 0750); err != nil {
		return nil, fmt.Errorf("creating outbox: %w", err)
	}

	out := &Result{
		Deck:       result.Deck,
		ExportPath: filepath.Join(p.opts.Outbox, artifact.FileName),
	}
	if err := os.WriteFile(out.ExportPath, artifact.Data, 0600); err != nil {
		return nil, fmt.Errorf("writing export: %w", err)
	}

	extractedName, content := extractor.ExtractedText(name, result.Extraction)
	out.ExtractedPath = filepath.Join(p.opts.Outbox, extractedName)
	if err := os.WriteFile(out.ExtractedPath, content, 0600); err != nil {
		return nil, fmt.Errorf("writing extracted text: %w", err)
	}

	p.logger.Info("Inbox document converted",
		slog.String("file", name),
		slog.String("export", out.ExportPath),
		slog.Int("slides", result.Deck.SlideCount()))

	return out, nil
}

// Run processes watcher events until ctx is done or the event channel
// closes, with at most maxConcurrent conversions in flight
func (p *Processor) Run(ctx context.Context, events <-chan ports.FileChangeEvent, maxConcurrent int) error {
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	semaphore := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-events:
			if !ok {
				return nil
			}

			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}

			wg.Add(1)
			go func(path string) {
				defer wg.Done()
				defer func() { <-semaphore }()

				if _, err := p.Process(ctx, path); err != nil {
					if errors.Is(err, entities.ErrStaleResult) {
						p.logger.Debug("Skipped superseded conversion", slog.String("path", path))
						return
					}
					p.logger.Error("Failed to process inbox file",
						slog.String("path", path),
						slog.String("error", err.Error()))
				}
			}(event.Path)
		}
	}
}
