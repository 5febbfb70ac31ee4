package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

const sampleNotes = "Quarterly Notes\nRevenue grew by twelve percent across all regions this quarter.\nHiring slowed while the team focused on retention and tooling."

// execute runs the root command with args and an isolated global config
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.toml")
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append(args, "--config", configPath))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestCollectFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Int("port", 0, "")
	cmd.Flags().String("host", "", "")
	cmd.Flags().String("theme", "", "")
	cmd.Flags().Bool("verbose", false, "")

	require.NoError(t, cmd.ParseFlags([]string{"--port", "9090", "--theme", "dark", "--verbose"}))

	flags := collectFlags(cmd)
	assert.Equal(t, map[string]interface{}{
		"port":    9090,
		"theme":   "dark",
		"verbose": true,
	}, flags, "unset flags are not forwarded")
}

func TestCollectFlags_NoneSet(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Int("port", 8080, "")

	require.NoError(t, cmd.ParseFlags(nil))
	assert.Empty(t, collectFlags(cmd))
}

func TestConvertCommand(t *testing.T) {
	t.Run("missing file argument", func(t *testing.T) {
		_, err := execute(t, "convert")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "accepts 1 arg(s)")
	})

	t.Run("writes the export", func(t *testing.T) {
		input := writeSample(t, "notes.txt", sampleNotes)
		outDir := t.TempDir()

		out, err := execute(t, "convert", input, "-o", outDir, "-f", "markdown", "--audience", "technical")
		require.NoError(t, err)

		expected := filepath.Join(outDir, "quarterly_notes_presentation.md")
		assert.Equal(t, expected, strings.TrimSpace(out))

		data, err := os.ReadFile(expected)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Quarterly Notes")
	})

	t.Run("unknown audience", func(t *testing.T) {
		input := writeSample(t, "notes.txt", sampleNotes)

		_, err := execute(t, "convert", input, "-o", t.TempDir(), "--audience", "aliens")
		require.Error(t, err)
		convertAudience = ""
	})

	t.Run("unsupported file type", func(t *testing.T) {
		input := writeSample(t, "image.png", "not really a png")

		_, err := execute(t, "convert", input, "-o", t.TempDir(), "--audience", "management")
		require.Error(t, err)

		var uploadErr *entities.UploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, entities.CategoryInvalidFileType, uploadErr.Category)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "convert", filepath.Join(t.TempDir(), "absent.txt"), "-o", t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading")
	})
}

func TestExtractCommand(t *testing.T) {
	input := writeSample(t, "notes.txt", sampleNotes)
	outDir := t.TempDir()

	out, err := execute(t, "extract", input, "-o", outDir)
	require.NoError(t, err)

	expected := filepath.Join(outDir, "notes_extracted.txt")
	assert.Equal(t, expected, strings.TrimSpace(out))

	data, err := os.ReadFile(expected)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), entities.PageMarker(1)))
	assert.Contains(t, string(data), "Revenue grew")
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, path, strings.TrimSpace(buf.String()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[server]")

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	err = rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
