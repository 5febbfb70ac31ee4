package entities

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Upload       UploadConfig       `toml:"upload"`
	Extraction   ExtractionConfig   `toml:"extraction"`
	Summary      SummaryConfig      `toml:"summary"`
	Presentation PresentationConfig `toml:"presentation"`
	Export       ExportConfig       `toml:"export"`
	Watcher      WatcherConfig      `toml:"watcher"`
	Store        StoreConfig        `toml:"store"`
	Logging      LoggingConfig      `toml:"logging"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Upload.Validate(); err != nil {
		return fmt.Errorf("upload config: %w", err)
	}

	if err := c.Extraction.Validate(); err != nil {
		return fmt.Errorf("extraction config: %w", err)
	}

	if err := c.Summary.Validate(); err != nil {
		return fmt.Errorf("summary config: %w", err)
	}

	if err := c.Presentation.Validate(); err != nil {
		return fmt.Errorf("presentation config: %w", err)
	}

	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export config: %w", err)
	}

	if err := c.Watcher.Validate(); err != nil {
		return fmt.Errorf("watcher config: %w", err)
	}

	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	Environment     string   `toml:"environment"`
	CORSOrigins     []string `toml:"cors_origins"`
}

// Validate validates server configuration
func (s ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}

	if s.Host != "" {
		if ip := net.ParseIP(s.Host); ip == nil {
			if strings.ContainsAny(s.Host, " !/") {
				return fmt.Errorf("invalid host: %s", s.Host)
			}
		}
	}

	if s.ReadTimeout < 0 {
		return errors.New("read timeout must be non-negative")
	}

	if s.WriteTimeout < 0 {
		return errors.New("write timeout must be non-negative")
	}

	if s.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout must be non-negative")
	}

	for _, origin := range s.CORSOrigins {
		if origin == "" {
			return errors.New("CORS origin cannot be empty")
		}
		if origin == "*" {
			continue
		}
		if len(origin) < 7 || (!strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://")) {
			return fmt.Errorf("invalid CORS origin format: %s (must start with http:// or https://)", origin)
		}
	}

	return nil
}

// GetReadTimeout returns the read timeout as a duration
func (s ServerConfig) GetReadTimeout() time.Duration {
	if s.ReadTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.ReadTimeout) * time.Second
}

// GetWriteTimeout returns the write timeout as a duration
func (s ServerConfig) GetWriteTimeout() time.Duration {
	if s.WriteTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.WriteTimeout) * time.Second
}

// GetShutdownTimeout returns the shutdown timeout as a duration
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// GetCORSOrigins returns CORS origins with defaults if empty
func (s ServerConfig) GetCORSOrigins() []string {
	if len(s.CORSOrigins) == 0 {
		return []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:8080",
			"http://127.0.0.1:8080",
		}
	}
	return s.CORSOrigins
}

// IsDevelopment returns true if the server is running in development mode
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development" || s.Environment == ""
}

// DefaultMaxUploadMB is the upload size ceiling when none is configured
const DefaultMaxUploadMB = 10

// UploadConfig bounds what the upload boundary accepts
type UploadConfig struct {
	MaxSizeMB int `toml:"max_size_mb"`
}

// Validate validates upload configuration
func (u UploadConfig) Validate() error {
	if u.MaxSizeMB < 0 {
		return errors.New("max upload size must be non-negative")
	}
	return nil
}

// GetMaxBytes returns the upload size ceiling in bytes
func (u UploadConfig) GetMaxBytes() int64 {
	mb := u.MaxSizeMB
	if mb <= 0 {
		mb = DefaultMaxUploadMB
	}
	return int64(mb) * 1024 * 1024
}

// DefaultPDFCharLimit is the per-page character cap for PDF extraction
const DefaultPDFCharLimit = 250

// ExtractionConfig configures the document extractors
type ExtractionConfig struct {
	PDFCharLimit     int  `toml:"pdf_char_limit"`
	StrictValidation bool `toml:"strict_validation"`
}

// Validate validates extraction configuration
func (e ExtractionConfig) Validate() error {
	if e.PDFCharLimit != 0 && e.PDFCharLimit <= len(Ellipsis) {
		return fmt.Errorf("pdf char limit must be greater than %d", len(Ellipsis))
	}
	return nil
}

// GetPDFCharLimit returns the per-page cap with default
func (e ExtractionConfig) GetPDFCharLimit() int {
	if e.PDFCharLimit <= 0 {
		return DefaultPDFCharLimit
	}
	return e.PDFCharLimit
}

// Summary point bounds
const (
	MinSummaryPoints  = 5
	MaxSummaryPoints  = 15
	DefaultCharLimit  = MaxFieldLength
	DeckSummaryPoints = MaxSummaryPoints
)

// SummaryConfig configures the sentence ranker used for decks
type SummaryConfig struct {
	MaxPoints int `toml:"max_points"`
	CharLimit int `toml:"char_limit"`
}

// Validate validates summary configuration
func (s SummaryConfig) Validate() error {
	if s.MaxPoints != 0 && (s.MaxPoints < MinSummaryPoints || s.MaxPoints > MaxSummaryPoints) {
		return fmt.Errorf("max points must be between %d and %d", MinSummaryPoints, MaxSummaryPoints)
	}
	if s.CharLimit < 0 || s.CharLimit > MaxFieldLength {
		return fmt.Errorf("char limit must be between 0 and %d", MaxFieldLength)
	}
	return nil
}

// GetMaxPoints returns the number of ranked points fed to the assembler
func (s SummaryConfig) GetMaxPoints() int {
	if s.MaxPoints <= 0 {
		return DeckSummaryPoints
	}
	return s.MaxPoints
}

// GetCharLimit returns the per-point cap
func (s SummaryConfig) GetCharLimit() int {
	if s.CharLimit <= 0 {
		return DefaultCharLimit
	}
	return s.CharLimit
}

// PresentationConfig holds deck defaults
type PresentationConfig struct {
	DefaultAudience string `toml:"default_audience"`
	DefaultTheme    string `toml:"default_theme"`
}

// Validate validates presentation defaults
func (p PresentationConfig) Validate() error {
	if p.DefaultAudience != "" {
		if _, err := ParseAudience(p.DefaultAudience); err != nil {
			return err
		}
	}
	if _, err := ParseTheme(p.DefaultTheme); err != nil {
		return err
	}
	return nil
}

// GetAudience returns the default audience
func (p PresentationConfig) GetAudience() Audience {
	if a, err := ParseAudience(p.DefaultAudience); err == nil {
		return a
	}
	return AudienceExecutive
}

// GetTheme returns the default theme
func (p PresentationConfig) GetTheme() Theme {
	if t, err := ParseTheme(p.DefaultTheme); err == nil {
		return t
	}
	return ThemeDefault
}

// ExportConfig configures the serializer
type ExportConfig struct {
	DefaultFormat string `toml:"default_format"`
	OutputDir     string `toml:"output_dir"`
}

// Validate validates export configuration
func (e ExportConfig) Validate() error {
	switch strings.ToLower(e.DefaultFormat) {
	case "", "json", "yaml", "markdown", "html", "txt":
	default:
		return fmt.Errorf("unsupported default export format: %s", e.DefaultFormat)
	}
	return nil
}

// GetDefaultFormat returns the default export format
func (e ExportConfig) GetDefaultFormat() string {
	if e.DefaultFormat == "" {
		return "json"
	}
	return strings.ToLower(e.DefaultFormat)
}

// GetOutputDir returns where CLI exports are written
func (e ExportConfig) GetOutputDir() string {
	if e.OutputDir == "" {
		return "."
	}
	return e.OutputDir
}

// WatcherConfig contains inbox watcher configuration
type WatcherConfig struct {
	Inbox      string `toml:"inbox"`
	Outbox     string `toml:"outbox"`
	DebounceMs int    `toml:"debounce_ms"`
}

// Validate validates watcher configuration
func (w WatcherConfig) Validate() error {
	if w.DebounceMs < 0 {
		return errors.New("debounce time must be non-negative")
	}
	return nil
}

// GetDebounce returns the debounce time as a duration
func (w WatcherConfig) GetDebounce() time.Duration {
	if w.DebounceMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// StoreConfig bounds the in-memory deck store
type StoreConfig struct {
	MaxDecks int `toml:"max_decks"`
}

// Validate validates store configuration
func (s StoreConfig) Validate() error {
	if s.MaxDecks < 0 {
		return errors.New("max decks must be non-negative")
	}
	return nil
}

// GetMaxDecks returns the store capacity with default
func (s StoreConfig) GetMaxDecks() int {
	if s.MaxDecks <= 0 {
		return 100
	}
	return s.MaxDecks
}

// LogLevel represents logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `toml:"level"`       // debug, info, warn, error
	Verbose    bool   `toml:"verbose"`     // Enable verbose logging
	JSONFormat bool   `toml:"json_format"` // Output logs in JSON format
	File       string `toml:"file"`        // Log to file (optional)
	MaxSize    int    `toml:"max_size"`    // Maximum log file size in MB
	MaxAge     int    `toml:"max_age"`     // Maximum age in days
	MaxBackups int    `toml:"max_backups"` // Maximum number of backup files
	Compress   bool   `toml:"compress"`    // Gzip rotated files
}

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	switch LogLevel(l.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	case "":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l.Level)
	}

	if l.File != "" {
		if !filepath.IsAbs(l.File) {
			return errors.New("log file path must be absolute")
		}

		dir := filepath.Dir(l.File)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("log file directory does not exist: %s", dir)
		}

		if l.MaxSize < 0 {
			return errors.New("max log file size must be non-negative")
		}

		if l.MaxAge < 0 {
			return errors.New("max log file age must be non-negative")
		}

		if l.MaxBackups < 0 {
			return errors.New("max log backups must be non-negative")
		}
	}

	return nil
}

// GetLevel returns the log level with default
func (l LoggingConfig) GetLevel() LogLevel {
	if l.Verbose {
		return LogLevelDebug
	}
	if l.Level == "" {
		return LogLevelInfo
	}
	return LogLevel(l.Level)
}

// GetMaxSize returns the max file size with default (100MB)
func (l LoggingConfig) GetMaxSize() int {
	if l.MaxSize <= 0 {
		return 100
	}
	return l.MaxSize
}

// GetMaxAge returns the max age with default (7 days)
func (l LoggingConfig) GetMaxAge() int {
	if l.MaxAge <= 0 {
		return 7
	}
	return l.MaxAge
}

// GetMaxBackups returns the max backups with default (5)
func (l LoggingConfig) GetMaxBackups() int {
	if l.MaxBackups <= 0 {
		return 5
	}
	return l.MaxBackups
}
