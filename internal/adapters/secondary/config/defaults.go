package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "DOCUSLIDE_"

// GetDefaultConfig returns the built-in configuration
func GetDefaultConfig() *entities.Config {
	return &entities.Config{
		Server: entities.ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     30,
			WriteTimeout:    30,
			ShutdownTimeout: 5,
			Environment:     "development",
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"http://localhost:8080",
				"http://127.0.0.1:8080",
			},
		},
		Upload: entities.UploadConfig{
			MaxSizeMB: entities.DefaultMaxUploadMB,
		},
		Extraction: entities.ExtractionConfig{
			PDFCharLimit: entities.DefaultPDFCharLimit,
		},
		Summary: entities.SummaryConfig{
			MaxPoints: entities.DeckSummaryPoints,
			CharLimit: entities.DefaultCharLimit,
		},
		Presentation: entities.PresentationConfig{
			DefaultAudience: string(entities.AudienceExecutive),
			DefaultTheme:    string(entities.ThemeDefault),
		},
		Export: entities.ExportConfig{
			DefaultFormat: "json",
			OutputDir:     ".",
		},
		Watcher: entities.WatcherConfig{
			Inbox:      "inbox",
			Outbox:     "outbox",
			DebounceMs: 500,
		},
		Store: entities.StoreConfig{
			MaxDecks: 100,
		},
		Logging: entities.LoggingConfig{
			Level:      "info",
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 5,
		},
	}
}

// getEnv returns the prefixed environment variable
func getEnv(key string) (string, bool) {
	value := os.Getenv(EnvPrefix + key)
	return value, value != ""
}

// envInt sets *dst from a prefixed integer variable when it parses and ok accepts it
func envInt(key string, dst *int, ok func(int) bool) {
	if value, set := getEnv(key); set {
		if n, err := strconv.Atoi(value); err == nil && ok(n) {
			*dst = n
		}
	}
}

// envBool sets *dst from a prefixed boolean variable
func envBool(key string, dst *bool) {
	if value, set := getEnv(key); set {
		if b, err := strconv.ParseBool(value); err == nil {
			*dst = b
		}
	}
}

// envString sets *dst from a prefixed variable
func envString(key string, dst *string) {
	if value, set := getEnv(key); set {
		*dst = value
	}
}

// envSlice sets *dst from a comma separated prefixed variable
func envSlice(key string, dst *[]string) {
	value, set := getEnv(key)
	if !set {
		return
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) > 0 {
		*dst = result
	}
}

func positive(n int) bool    { return n > 0 }
func nonNegative(n int) bool { return n >= 0 }
