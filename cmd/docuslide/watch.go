package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/docuslide/internal/adapters/secondary/export"
	"github.com/fredcamaral/docuslide/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
	"github.com/fredcamaral/docuslide/internal/domain/services"
)

var (
	// Watch command flags
	watchAudience string
	watchTheme    string
	watchExisting bool
	watchWorkers  int
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Convert documents dropped into an inbox directory",
	Long: `Watch the inbox directory and convert every PDF, DOCX or TXT file that
is created or rewritten there. The exported deck and the extracted text are
written to the outbox directory.

Example:
  docuslide watch --inbox ~/drop --outbox ~/decks --format markdown`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("inbox", "", "Directory to watch (overrides config)")
	watchCmd.Flags().String("outbox", "", "Directory for exported decks (overrides config)")
	watchCmd.Flags().StringP("format", "f", "", "Export format (overrides config)")
	watchCmd.Flags().StringVarP(&watchAudience, "audience", "a", "", "Target audience (overrides config)")
	watchCmd.Flags().StringVarP(&watchTheme, "theme", "t", "", "Visual theme (overrides config)")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "Also convert documents already in the inbox")
	watchCmd.Flags().IntVar(&watchWorkers, "workers", 2, "Maximum concurrent conversions")
	watchCmd.Flags().Int("max-upload-mb", 0, "Maximum document size in megabytes (overrides config)")
	watchCmd.Flags().Int("pdf-char-limit", 0, "Maximum characters read from a PDF (overrides config)")
}

// validateWatchDirs rejects an outbox that is the inbox itself, where the
// extracted text files would be picked up again
func validateWatchDirs(inbox, outbox string) error {
	if inbox == "" || outbox == "" {
		return errors.New("inbox and outbox directories are required")
	}

	in, err := filepath.Abs(inbox)
	if err != nil {
		return fmt.Errorf("resolving inbox: %w", err)
	}
	out, err := filepath.Abs(outbox)
	if err != nil {
		return fmt.Errorf("resolving outbox: %w", err)
	}
	if in == out {
		return fmt.Errorf("outbox must differ from inbox: %s", in)
	}
	return nil
}

// existingDocuments lists the convertible files already in dir
func existingDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.Type().IsRegular() && watcher.IsDocument(path) {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	a, err := loadApp(cmd, cwd)
	if err != nil {
		return err
	}
	defer a.Close()

	inbox, outbox := a.config.Watcher.Inbox, a.config.Watcher.Outbox
	if err := validateWatchDirs(inbox, outbox); err != nil {
		return err
	}
	if err := os.MkdirAll(inbox, 0750); err != nil {
		return fmt.Errorf("creating inbox: %w", err)
	}

	audience, theme, err := services.ResolveDeckOptions(a.config, watchAudience, watchTheme)
	if err != nil {
		return err
	}

	pipeline, err := a.newPipeline(nil)
	if err != nil {
		return err
	}

	processor := watcher.NewProcessor(pipeline, export.NewService(a.logger.Logger), watcher.ProcessorOptions{
		Outbox:   outbox,
		Format:   a.config.Export.GetDefaultFormat(),
		Audience: audience,
		Theme:    theme,
		Logger:   a.logger.Logger,
	})

	ctx := cmd.Context()
	if watchExisting {
		if err := convertExisting(ctx, processor, inbox, a.logger.Logger); err != nil {
			return err
		}
	}

	dirWatcher := watcher.NewDirWatcher(a.config.Watcher.GetDebounce(), ports.NewRealTimeProvider(), a.logger.Logger)
	events, err := dirWatcher.Watch(ctx, inbox)
	if err != nil {
		return err
	}
	defer func() { _ = dirWatcher.Stop() }()

	a.logger.Info("Watching inbox",
		slog.String("inbox", inbox),
		slog.String("outbox", outbox),
		slog.String("format", a.config.Export.GetDefaultFormat()))
	fmt.Fprintf(cmd.OutOrStdout(), "watching %s, writing decks to %s\n", inbox, outbox)

	if err := processor.Run(ctx, events, watchWorkers); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// convertExisting processes the documents present before watching began.
// Failures are logged and do not stop the others.
func convertExisting(ctx context.Context, processor *watcher.Processor, inbox string, logger *slog.Logger) error {
	paths, err := existingDocuments(inbox)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if _, err := processor.Process(ctx, path); err != nil {
			if errors.Is(err, entities.ErrStaleResult) {
				continue
			}
			logger.Error("Failed to convert existing document",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}
	return nil
}
