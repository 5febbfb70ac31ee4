package entities

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		config := &Config{
			Server: ServerConfig{
				Host:            "localhost",
				Port:            3000,
				ReadTimeout:     30,
				WriteTimeout:    30,
				ShutdownTimeout: 5,
			},
			Upload:       UploadConfig{MaxSizeMB: 10},
			Extraction:   ExtractionConfig{PDFCharLimit: 250},
			Summary:      SummaryConfig{MaxPoints: 15, CharLimit: 150},
			Presentation: PresentationConfig{DefaultAudience: "executive", DefaultTheme: "modern"},
			Export:       ExportConfig{DefaultFormat: "html"},
			Watcher:      WatcherConfig{DebounceMs: 500},
		}

		assert.NoError(t, config.Validate())
	})

	t.Run("zero config is valid", func(t *testing.T) {
		config := &Config{}
		assert.NoError(t, config.Validate())
	})

	t.Run("errors are prefixed with the section", func(t *testing.T) {
		tests := []struct {
			name   string
			config Config
			prefix string
		}{
			{"server", Config{Server: ServerConfig{Port: -1}}, "server config"},
			{"upload", Config{Upload: UploadConfig{MaxSizeMB: -1}}, "upload config"},
			{"extraction", Config{Extraction: ExtractionConfig{PDFCharLimit: 2}}, "extraction config"},
			{"summary", Config{Summary: SummaryConfig{MaxPoints: 40}}, "summary config"},
			{"presentation", Config{Presentation: PresentationConfig{DefaultTheme: "neon"}}, "presentation config"},
			{"export", Config{Export: ExportConfig{DefaultFormat: "pptx"}}, "export config"},
			{"watcher", Config{Watcher: WatcherConfig{DebounceMs: -1}}, "watcher config"},
			{"store", Config{Store: StoreConfig{MaxDecks: -1}}, "store config"},
			{"logging", Config{Logging: LoggingConfig{Level: "verbose"}}, "logging config"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.config.Validate()
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.prefix)
			})
		}
	})
}

func TestServerConfig_Validate(t *testing.T) {
	t.Run("valid server config", func(t *testing.T) {
		config := ServerConfig{
			Host:            "localhost",
			Port:            3000,
			ReadTimeout:     30,
			WriteTimeout:    30,
			ShutdownTimeout: 5,
		}

		assert.NoError(t, config.Validate())
	})

	t.Run("invalid port - negative", func(t *testing.T) {
		err := ServerConfig{Port: -1}.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "port must be between 0 and 65535")
	})

	t.Run("invalid port - too high", func(t *testing.T) {
		err := ServerConfig{Port: 70000}.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "port must be between 0 and 65535")
	})

	t.Run("valid port range", func(t *testing.T) {
		for _, port := range []int{0, 1, 3000, 8080, 65535} {
			assert.NoError(t, ServerConfig{Port: port}.Validate(), "Port %d should be valid", port)
		}
	})

	t.Run("invalid host", func(t *testing.T) {
		err := ServerConfig{Host: "local host"}.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid host")
	})

	t.Run("negative timeouts", func(t *testing.T) {
		tests := []struct {
			name   string
			config ServerConfig
		}{
			{"negative read timeout", ServerConfig{Port: 3000, ReadTimeout: -1}},
			{"negative write timeout", ServerConfig{Port: 3000, WriteTimeout: -1}},
			{"negative shutdown timeout", ServerConfig{Port: 3000, ShutdownTimeout: -1}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Error(t, tt.config.Validate())
			})
		}
	})

	t.Run("cors origins", func(t *testing.T) {
		assert.NoError(t, ServerConfig{CORSOrigins: []string{"*", "https://example.com"}}.Validate())

		err := ServerConfig{CORSOrigins: []string{"example.com"}}.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid CORS origin format")

		err = ServerConfig{CORSOrigins: []string{""}}.Validate()
		assert.Error(t, err)
	})
}

func TestServerConfig_GetTimeouts(t *testing.T) {
	t.Run("custom timeouts", func(t *testing.T) {
		config := ServerConfig{
			ReadTimeout:     45,
			WriteTimeout:    60,
			ShutdownTimeout: 10,
		}

		assert.Equal(t, 45*time.Second, config.GetReadTimeout())
		assert.Equal(t, 60*time.Second, config.GetWriteTimeout())
		assert.Equal(t, 10*time.Second, config.GetShutdownTimeout())
	})

	t.Run("negative timeouts use defaults", func(t *testing.T) {
		config := ServerConfig{
			ReadTimeout:     -5,
			WriteTimeout:    -10,
			ShutdownTimeout: -2,
		}

		assert.Equal(t, 30*time.Second, config.GetReadTimeout())
		assert.Equal(t, 30*time.Second, config.GetWriteTimeout())
		assert.Equal(t, 5*time.Second, config.GetShutdownTimeout())
	})

	t.Run("default cors origins", func(t *testing.T) {
		assert.Len(t, ServerConfig{}.GetCORSOrigins(), 4)
		assert.Equal(t, []string{"https://a.dev"}, ServerConfig{CORSOrigins: []string{"https://a.dev"}}.GetCORSOrigins())
	})
}

func TestUploadConfig_GetMaxBytes(t *testing.T) {
	assert.Equal(t, int64(10*1024*1024), UploadConfig{}.GetMaxBytes())
	assert.Equal(t, int64(2*1024*1024), UploadConfig{MaxSizeMB: 2}.GetMaxBytes())
}

func TestExtractionConfig(t *testing.T) {
	assert.Equal(t, 250, ExtractionConfig{}.GetPDFCharLimit())
	assert.Equal(t, 400, ExtractionConfig{PDFCharLimit: 400}.GetPDFCharLimit())
	assert.Error(t, ExtractionConfig{PDFCharLimit: 3}.Validate())
	assert.NoError(t, ExtractionConfig{PDFCharLimit: 4}.Validate())
}

func TestSummaryConfig(t *testing.T) {
	assert.Equal(t, 15, SummaryConfig{}.GetMaxPoints())
	assert.Equal(t, 150, SummaryConfig{}.GetCharLimit())
	assert.NoError(t, SummaryConfig{MaxPoints: 5}.Validate())
	assert.Error(t, SummaryConfig{MaxPoints: 4}.Validate())
	assert.Error(t, SummaryConfig{CharLimit: 151}.Validate())
}

func TestPresentationConfig(t *testing.T) {
	assert.Equal(t, AudienceExecutive, PresentationConfig{}.GetAudience())
	assert.Equal(t, ThemeDefault, PresentationConfig{}.GetTheme())
	assert.Equal(t, AudienceTechnical, PresentationConfig{DefaultAudience: "Technical"}.GetAudience())
	assert.Equal(t, ThemeVibrant, PresentationConfig{DefaultTheme: "vibrant"}.GetTheme())
	assert.Error(t, PresentationConfig{DefaultAudience: "students"}.Validate())
}

func TestExportConfig(t *testing.T) {
	assert.Equal(t, "json", ExportConfig{}.GetDefaultFormat())
	assert.Equal(t, "html", ExportConfig{DefaultFormat: "HTML"}.GetDefaultFormat())
	assert.Equal(t, ".", ExportConfig{}.GetOutputDir())
}

func TestWatcherConfig_GetDebounce(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, WatcherConfig{}.GetDebounce())
	assert.Equal(t, 50*time.Millisecond, WatcherConfig{DebounceMs: 50}.GetDebounce())
}

func TestLoggingConfig(t *testing.T) {
	t.Run("levels", func(t *testing.T) {
		assert.Equal(t, LogLevelInfo, LoggingConfig{}.GetLevel())
		assert.Equal(t, LogLevelWarn, LoggingConfig{Level: "warn"}.GetLevel())
		assert.Equal(t, LogLevelDebug, LoggingConfig{Level: "warn", Verbose: true}.GetLevel())
	})

	t.Run("file must be absolute", func(t *testing.T) {
		err := LoggingConfig{File: "relative.log"}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be absolute")
	})

	t.Run("file directory must exist", func(t *testing.T) {
		err := LoggingConfig{File: filepath.Join(os.TempDir(), "does-not-exist-docuslide", "app.log")}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("defaults", func(t *testing.T) {
		l := LoggingConfig{}
		assert.Equal(t, 100, l.GetMaxSize())
		assert.Equal(t, 7, l.GetMaxAge())
		assert.Equal(t, 5, l.GetMaxBackups())
	})

	t.Run("valid file", func(t *testing.T) {
		dir := t.TempDir()
		assert.NoError(t, LoggingConfig{File: filepath.Join(dir, "app.log"), MaxSize: 1}.Validate())
	})
}
