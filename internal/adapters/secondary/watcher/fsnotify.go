package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

// DirWatcher reports documents written into a directory using fsnotify.
// Bursts of writes to one file produce a single event once the file has
// been quiet for the debounce interval.
type DirWatcher struct {
	debounce time.Duration
	clock    ports.TimeProvider
	logger   *slog.Logger
	events   chan ports.FileChangeEvent
	mu       sync.Mutex
	wg       sync.WaitGroup
	stopped  bool
	stopCh   chan struct{}
	watcher  *fsnotify.Watcher
	pending  *debouncer
}

// NewDirWatcher creates a new fsnotify-based directory watcher
func NewDirWatcher(debounce time.Duration, clock ports.TimeProvider, logger *slog.Logger) *DirWatcher {
	if clock == nil {
		clock = ports.NewRealTimeProvider()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DirWatcher{
		debounce: debounce,
		clock:    clock,
		logger:   logger,
		events:   make(chan ports.FileChangeEvent, 10),
		stopCh:   make(chan struct{}),
	}
}

// Watch starts watching a directory for new or rewritten documents
func (w *DirWatcher) Watch(ctx context.Context, dir string) (<-chan ports.FileChangeEvent, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(absDir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	w.mu.Lock()
	w.watcher = watcher
	w.pending = newDebouncer(w.clock, w.debounce, func(path string) {
		w.emit(ctx, path)
	})
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop(ctx, watcher)
	}()

	w.logger.Info("Watching inbox", slog.String("dir", absDir))
	return w.events, nil
}

// Stop stops the watcher and closes the event channel
func (w *DirWatcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	watcher, pending := w.watcher, w.pending
	w.mu.Unlock()

	var err error
	if watcher != nil {
		err = watcher.Close()
	}
	w.wg.Wait()
	if pending != nil {
		pending.stop()
	}

	close(w.events)
	return err
}

func (w *DirWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !IsDocument(event.Name) {
				w.logger.Debug("Ignoring file", slog.String("path", event.Name))
				continue
			}
			w.pending.trigger(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", slog.String("error", err.Error()))
		}
	}
}

func (w *DirWatcher) emit(ctx context.Context, path string) {
	event := ports.FileChangeEvent{
		Path:      path,
		Type:      ports.Created,
		Timestamp: w.clock.Now(),
	}

	select {
	case w.events <- event:
	case <-ctx.Done():
	case <-w.stopCh:
	}
}

// IsDocument reports whether a file name has a supported document extension.
// Hidden and temporary files are skipped.
func IsDocument(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") {
		return false
	}
	return entities.FormatForMime(entities.MimeForExtension(base)) != entities.FormatUnsupported
}

var _ ports.FileWatcher = (*DirWatcher)(nil)
