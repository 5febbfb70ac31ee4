package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/docuslide/internal/adapters/secondary/extractor"
	"github.com/fredcamaral/docuslide/internal/domain/services"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Write the extracted text of a document",
	Long: `Extract the text of a PDF, DOCX or TXT document and write it, page by
page, to <name>_extracted.txt in the output directory.

Example:
  docuslide extract report.pdf -o out/`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output directory (overrides config)")
	extractCmd.Flags().Int("max-upload-mb", 0, "Maximum document size in megabytes (overrides config)")
	extractCmd.Flags().Int("pdf-char-limit", 0, "Maximum characters read from a PDF (overrides config)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]

	a, err := loadApp(cmd, filepath.Dir(path))
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := readDocument(path)
	if err != nil {
		return err
	}
	if err := services.ValidateUpload(doc, a.config.Upload.GetMaxBytes()); err != nil {
		return err
	}

	result := extractor.New(extractor.ConfigFrom(a.config.Extraction), a.logger.Logger).Extract(cmd.Context(), doc)
	name, content := extractor.ExtractedText(doc.Name, result)

	outPath, err := writeOutput(a.config.Export.GetOutputDir(), name, content)
	if err != nil {
		return err
	}

	a.logger.Info("Text extracted",
		slog.String("source", doc.Name),
		slog.Int("pages", len(result.Pages)),
		slog.String("path", outPath))

	fmt.Fprintln(cmd.OutOrStdout(), outPath)
	return nil
}
