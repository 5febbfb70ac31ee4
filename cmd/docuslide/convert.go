package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/docuslide/internal/adapters/secondary/export"
	"github.com/fredcamaral/docuslide/internal/domain/entities"
	"github.com/fredcamaral/docuslide/internal/domain/ports"
	"github.com/fredcamaral/docuslide/internal/domain/services"
)

var (
	// Convert command flags
	convertAudience string
	convertTheme    string
	convertTitle    string
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a document into a slide deck",
	Long: `Extract the text of a PDF, DOCX or TXT document, summarize it into
slides for the chosen audience and write the exported deck.

Example:
  docuslide convert report.pdf
  docuslide convert notes.txt --audience technical --format html -o out/`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertAudience, "audience", "a", "", "Target audience: executive, management, technical (overrides config)")
	convertCmd.Flags().StringVarP(&convertTheme, "theme", "t", "", "Visual theme (overrides config)")
	convertCmd.Flags().StringVar(&convertTitle, "title", "", "Deck title (default: detected from the document)")
	convertCmd.Flags().StringP("format", "f", "", "Export format: json, yaml, markdown, html, txt (overrides config)")
	convertCmd.Flags().StringP("output", "o", "", "Output directory (overrides config)")
	convertCmd.Flags().Int("max-upload-mb", 0, "Maximum document size in megabytes (overrides config)")
	convertCmd.Flags().Int("pdf-char-limit", 0, "Maximum characters read from a PDF (overrides config)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	path := args[0]

	a, err := loadApp(cmd, filepath.Dir(path))
	if err != nil {
		return err
	}
	defer a.Close()

	audience, theme, err := services.ResolveDeckOptions(a.config, convertAudience, convertTheme)
	if err != nil {
		return err
	}

	doc, err := readDocument(path)
	if err != nil {
		return err
	}

	pipeline, err := a.newPipeline(nil)
	if err != nil {
		return err
	}

	result, err := pipeline.Convert(cmd.Context(), ports.DeckRequest{
		Document: doc,
		Audience: audience,
		Theme:    theme,
		Title:    convertTitle,
	})
	if err != nil {
		return err
	}

	artifact, err := export.NewService(a.logger.Logger).Export(cmd.Context(), result.Deck, ports.ExportOptions{
		Format:     a.config.Export.GetDefaultFormat(),
		Theme:      theme,
		SourceName: doc.Name,
		Extraction: &result.Extraction,
	})
	if err != nil {
		return err
	}

	outPath, err := writeOutput(a.config.Export.GetOutputDir(), artifact.FileName, artifact.Data)
	if err != nil {
		return err
	}

	a.logger.Info("Deck exported",
		slog.String("source", doc.Name),
		slog.String("format", a.config.Export.GetDefaultFormat()),
		slog.Int("slides", result.Deck.SlideCount()),
		slog.String("path", outPath))

	fmt.Fprintln(cmd.OutOrStdout(), outPath)
	return nil
}

// readDocument loads the file at path as an upload
func readDocument(path string) (entities.Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 - user supplied document
	if err != nil {
		return entities.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	name := filepath.Base(path)
	return entities.Document{
		Name:         name,
		DeclaredType: entities.MimeForExtension(name),
		Size:         int64(len(data)),
		Data:         data,
	}, nil
}

// writeOutput writes data to dir/name, creating dir when missing
func writeOutput(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
