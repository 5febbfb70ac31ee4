package config

import (
	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges multiple configurations with later configs taking precedence.
// Zero values never override. Boolean switches can only be turned on.
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	result := deepCopy(configs[0])
	if result == nil {
		result = GetDefaultConfig()
	}

	for i := 1; i < len(configs); i++ {
		if configs[i] != nil {
			m.mergeInto(result, configs[i])
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides to a configuration
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if port, ok := flags["port"].(int); ok && port > 0 {
		result.Server.Port = port
	}
	if host, ok := flags["host"].(string); ok && host != "" {
		result.Server.Host = host
	}
	if maxMB, ok := flags["max-upload-mb"].(int); ok && maxMB > 0 {
		result.Upload.MaxSizeMB = maxMB
	}
	if limit, ok := flags["pdf-char-limit"].(int); ok && limit > 0 {
		result.Extraction.PDFCharLimit = limit
	}
	if audience, ok := flags["audience"].(string); ok && audience != "" {
		result.Presentation.DefaultAudience = audience
	}
	if theme, ok := flags["theme"].(string); ok && theme != "" {
		result.Presentation.DefaultTheme = theme
	}
	if format, ok := flags["format"].(string); ok && format != "" {
		result.Export.DefaultFormat = format
	}
	if output, ok := flags["output"].(string); ok && output != "" {
		result.Export.OutputDir = output
	}
	if inbox, ok := flags["inbox"].(string); ok && inbox != "" {
		result.Watcher.Inbox = inbox
	}
	if outbox, ok := flags["outbox"].(string); ok && outbox != "" {
		result.Watcher.Outbox = outbox
	}
	if level, ok := flags["log-level"].(string); ok && level != "" {
		result.Logging.Level = level
	}
	if verbose, ok := flags["verbose"].(bool); ok && verbose {
		result.Logging.Verbose = true
	}

	return result
}

// ApplyEnvVars applies DOCUSLIDE_* environment overrides to a configuration
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	envString("HOST", &result.Server.Host)
	envInt("PORT", &result.Server.Port, positive)
	envInt("READ_TIMEOUT", &result.Server.ReadTimeout, nonNegative)
	envInt("WRITE_TIMEOUT", &result.Server.WriteTimeout, nonNegative)
	envInt("SHUTDOWN_TIMEOUT", &result.Server.ShutdownTimeout, nonNegative)
	envString("ENVIRONMENT", &result.Server.Environment)
	envSlice("CORS_ORIGINS", &result.Server.CORSOrigins)

	envInt("MAX_UPLOAD_MB", &result.Upload.MaxSizeMB, positive)

	envInt("PDF_CHAR_LIMIT", &result.Extraction.PDFCharLimit, positive)
	envBool("PDF_STRICT", &result.Extraction.StrictValidation)

	envInt("SUMMARY_MAX_POINTS", &result.Summary.MaxPoints, positive)
	envInt("SUMMARY_CHAR_LIMIT", &result.Summary.CharLimit, positive)

	envString("AUDIENCE", &result.Presentation.DefaultAudience)
	envString("THEME", &result.Presentation.DefaultTheme)

	envString("EXPORT_FORMAT", &result.Export.DefaultFormat)
	envString("OUTPUT_DIR", &result.Export.OutputDir)

	envString("INBOX", &result.Watcher.Inbox)
	envString("OUTBOX", &result.Watcher.Outbox)
	envInt("WATCH_DEBOUNCE", &result.Watcher.DebounceMs, nonNegative)

	envInt("MAX_DECKS", &result.Store.MaxDecks, positive)

	envString("LOG_LEVEL", &result.Logging.Level)
	envBool("LOG_VERBOSE", &result.Logging.Verbose)
	envBool("LOG_JSON", &result.Logging.JSONFormat)
	envString("LOG_FILE", &result.Logging.File)
	envInt("LOG_MAX_SIZE", &result.Logging.MaxSize, positive)
	envInt("LOG_MAX_AGE", &result.Logging.MaxAge, positive)
	envInt("LOG_MAX_BACKUPS", &result.Logging.MaxBackups, positive)

	return result
}

// mergeInto merges source configuration into target configuration
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	// Server
	mergeString(&target.Server.Host, source.Server.Host)
	mergeInt(&target.Server.Port, source.Server.Port)
	mergeInt(&target.Server.ReadTimeout, source.Server.ReadTimeout)
	mergeInt(&target.Server.WriteTimeout, source.Server.WriteTimeout)
	mergeInt(&target.Server.ShutdownTimeout, source.Server.ShutdownTimeout)
	mergeString(&target.Server.Environment, source.Server.Environment)
	if len(source.Server.CORSOrigins) > 0 {
		target.Server.CORSOrigins = copyStrings(source.Server.CORSOrigins)
	}

	mergeInt(&target.Upload.MaxSizeMB, source.Upload.MaxSizeMB)

	mergeInt(&target.Extraction.PDFCharLimit, source.Extraction.PDFCharLimit)
	mergeBool(&target.Extraction.StrictValidation, source.Extraction.StrictValidation)

	mergeInt(&target.Summary.MaxPoints, source.Summary.MaxPoints)
	mergeInt(&target.Summary.CharLimit, source.Summary.CharLimit)

	mergeString(&target.Presentation.DefaultAudience, source.Presentation.DefaultAudience)
	mergeString(&target.Presentation.DefaultTheme, source.Presentation.DefaultTheme)

	mergeString(&target.Export.DefaultFormat, source.Export.DefaultFormat)
	mergeString(&target.Export.OutputDir, source.Export.OutputDir)

	mergeString(&target.Watcher.Inbox, source.Watcher.Inbox)
	mergeString(&target.Watcher.Outbox, source.Watcher.Outbox)
	mergeInt(&target.Watcher.DebounceMs, source.Watcher.DebounceMs)

	mergeInt(&target.Store.MaxDecks, source.Store.MaxDecks)

	// Logging
	mergeString(&target.Logging.Level, source.Logging.Level)
	mergeBool(&target.Logging.Verbose, source.Logging.Verbose)
	mergeBool(&target.Logging.JSONFormat, source.Logging.JSONFormat)
	mergeString(&target.Logging.File, source.Logging.File)
	mergeInt(&target.Logging.MaxSize, source.Logging.MaxSize)
	mergeInt(&target.Logging.MaxAge, source.Logging.MaxAge)
	mergeInt(&target.Logging.MaxBackups, source.Logging.MaxBackups)
	mergeBool(&target.Logging.Compress, source.Logging.Compress)
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergeInt(dst *int, src int) {
	if src != 0 {
		*dst = src
	}
}

// TOML cannot tell false from unset, so only true is carried over
func mergeBool(dst *bool, src bool) {
	if src {
		*dst = true
	}
}

func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

// deepCopy creates a deep copy of a configuration
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	dst := *src
	dst.Server.CORSOrigins = copyStrings(src.Server.CORSOrigins)
	return &dst
}

var _ ports.ConfigMerger = (*ConfigMerger)(nil)
