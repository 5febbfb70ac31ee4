package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

// Logger is a slog logger together with the file it may write to
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// New builds a logger from configuration. Logs go to stderr, or to a
// rotating file when cfg.File is set.
func New(cfg entities.LoggingConfig) *Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit console writer
func NewWithWriter(cfg entities.LoggingConfig, console io.Writer) *Logger {
	var (
		out    = console
		closer io.Closer
	)

	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.GetMaxSize(), // megabytes
			MaxAge:     cfg.GetMaxAge(),  // days
			MaxBackups: cfg.GetMaxBackups(),
			Compress:   cfg.Compress,
		}
		out, closer = file, file
	}

	opts := &slog.HandlerOptions{Level: Level(cfg.GetLevel())}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &Logger{Logger: slog.New(handler), closer: closer}
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Level maps a configured level onto slog
func Level(level entities.LogLevel) slog.Level {
	switch level {
	case entities.LogLevelDebug:
		return slog.LevelDebug
	case entities.LogLevelWarn:
		return slog.LevelWarn
	case entities.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
