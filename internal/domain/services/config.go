package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

// ConfigService resolves the effective configuration from defaults, the
// global and local TOML files, DOCUSLIDE_* variables and CLI flags.
type ConfigService struct {
	loader ports.ConfigLoader
	merger ports.ConfigMerger
}

// NewConfigService creates a new configuration service
func NewConfigService(loader ports.ConfigLoader, merger ports.ConfigMerger) *ConfigService {
	return &ConfigService{
		loader: loader,
		merger: merger,
	}
}

// LoadConfig loads the complete configuration with hierarchy and overrides
func (s *ConfigService) LoadConfig(ctx context.Context, workingDir string, flags map[string]interface{}) (*entities.Config, error) {
	configs := []*entities.Config{s.GetDefaultConfig()}

	globalConfig, err := s.loader.LoadGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}
	if globalConfig != nil {
		configs = append(configs, globalConfig)
	}

	localConfig, err := s.loader.LoadLocal(ctx, workingDir)
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}
	if localConfig != nil {
		configs = append(configs, localConfig)
	}

	merged := s.merger.Merge(configs...)
	merged = s.merger.ApplyEnvVars(merged)

	// Flags win over everything else
	final := s.merger.ApplyFlags(merged, flags)

	if err := s.ValidateConfig(final); err != nil {
		return nil, fmt.Errorf("final config validation: %w", err)
	}

	return final, nil
}

// GetDefaultConfig returns the default configuration.
// The merger owns the defaults; merging nothing yields them.
func (s *ConfigService) GetDefaultConfig() *entities.Config {
	return s.merger.Merge()
}

// ValidateConfig validates a configuration
func (s *ConfigService) ValidateConfig(config *entities.Config) error {
	if config == nil {
		return errors.New("config cannot be nil")
	}

	return config.Validate()
}

// CreateGlobalConfig creates the global configuration file with defaults
func (s *ConfigService) CreateGlobalConfig(ctx context.Context) error {
	return s.loader.CreateDefaults(ctx, s.loader.GetGlobalPath())
}

// ResolveDeckOptions validates user supplied audience and theme names,
// falling back to the configured presentation defaults when they are empty.
func ResolveDeckOptions(config *entities.Config, audience, theme string) (entities.Audience, entities.Theme, error) {
	var defaults entities.PresentationConfig
	if config != nil {
		defaults = config.Presentation
	}

	a := defaults.GetAudience()
	if audience != "" {
		parsed, err := entities.ParseAudience(audience)
		if err != nil {
			return "", "", err
		}
		a = parsed
	}

	t := defaults.GetTheme()
	if theme != "" {
		parsed, err := entities.ParseTheme(theme)
		if err != nil {
			return "", "", err
		}
		t = parsed
	}

	return a, t, nil
}

var _ ports.ConfigService = (*ConfigService)(nil)
