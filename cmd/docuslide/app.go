package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/docuslide/internal/adapters/secondary/config"
	"github.com/fredcamaral/docuslide/internal/adapters/secondary/extractor"
	"github.com/fredcamaral/docuslide/internal/adapters/secondary/logging"
	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
	"github.com/fredcamaral/docuslide/internal/domain/services"
)

// Flags forwarded to the config merger when set on the command line
var (
	intFlags    = []string{"port", "max-upload-mb", "pdf-char-limit"}
	stringFlags = []string{"host", "audience", "theme", "format", "output", "inbox", "outbox", "log-level"}
)

// app is the resolved configuration and logger shared by every command
type app struct {
	config *entities.Config
	logger *logging.Logger
}

// Close flushes the log file, if any
func (a *app) Close() {
	_ = a.logger.Close()
}

// collectFlags returns the explicitly set flags of cmd keyed by name
func collectFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	fs := cmd.Flags()

	for _, name := range intFlags {
		if fs.Lookup(name) == nil || !fs.Changed(name) {
			continue
		}
		if v, err := fs.GetInt(name); err == nil {
			flags[name] = v
		}
	}

	for _, name := range stringFlags {
		if fs.Lookup(name) == nil || !fs.Changed(name) {
			continue
		}
		if v, err := fs.GetString(name); err == nil {
			flags[name] = v
		}
	}

	if v, err := fs.GetBool("verbose"); err == nil && v {
		flags["verbose"] = true
	}

	return flags
}

// newLoader picks the global config file from --config
func newLoader(cmd *cobra.Command) *config.TOMLLoader {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.NewTOMLLoaderWithPath(path)
	}
	return config.NewTOMLLoader()
}

func newConfigService(cmd *cobra.Command) *services.ConfigService {
	return services.NewConfigService(newLoader(cmd), config.NewConfigMerger())
}

// loadApp resolves configuration for workingDir and builds the logger
func loadApp(cmd *cobra.Command, workingDir string) (*app, error) {
	cfg, err := newConfigService(cmd).LoadConfig(cmd.Context(), workingDir, collectFlags(cmd))
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger := logging.New(cfg.Logging)
	slog.SetDefault(logger.Logger)

	return &app{config: cfg, logger: logger}, nil
}

// newPipeline wires the extractor and assembler for cfg. store may be nil.
func (a *app) newPipeline(store ports.DeckStore) (*services.Pipeline, error) {
	return services.NewPipeline(services.PipelineOptions{
		Extractor: extractor.New(extractor.ConfigFrom(a.config.Extraction), a.logger.Logger),
		Store:     store,
		Logger:    a.logger.Logger,
		Upload:    a.config.Upload,
		Summary:   a.config.Summary,
	})
}
