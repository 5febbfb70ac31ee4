package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/docuslide/internal/adapters/primary/http"
	"github.com/fredcamaral/docuslide/internal/adapters/secondary/export"
	"github.com/fredcamaral/docuslide/internal/adapters/secondary/store"
	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion API",
	Long: `Start the HTTP server used by the web front end. Documents are uploaded
to /api/decks, converted decks are kept in memory and can be exported from
/api/decks/{id}/export. Connected clients are notified over /ws.

Example:
  docuslide serve
  docuslide serve --port 8080 --host 0.0.0.0`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// defaults come from config loading
	serveCmd.Flags().IntP("port", "p", 0, "Port to serve on (overrides config)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides config)")
	serveCmd.Flags().Int("max-upload-mb", 0, "Maximum upload size in megabytes (overrides config)")
	serveCmd.Flags().Int("pdf-char-limit", 0, "Maximum characters read from a PDF (overrides config)")
	serveCmd.Flags().StringP("audience", "a", "", "Default audience (overrides config)")
	serveCmd.Flags().StringP("theme", "t", "", "Default theme (overrides config)")
	serveCmd.Flags().StringP("format", "f", "", "Default export format (overrides config)")
}

// validateServeConfig checks the listen address after config is resolved
func validateServeConfig(config *entities.Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", config.Server.Port)
	}

	if strings.ContainsAny(config.Server.Host, " !") {
		return fmt.Errorf("invalid host: %s", config.Server.Host)
	}

	return nil
}

// getServerURL returns the base URL clients use to reach the server
func getServerURL(config *entities.Config) string {
	host := config.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(config.Server.Port))
}

func runServe(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	a, err := loadApp(cmd, cwd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := validateServeConfig(a.config); err != nil {
		return err
	}

	decks := store.NewMemoryStore(a.config.Store.GetMaxDecks())
	pipeline, err := a.newPipeline(decks)
	if err != nil {
		return err
	}

	server, err := http.NewServer(http.ServerOptions{
		Decks:    pipeline,
		Store:    decks,
		Exporter: export.NewService(a.logger.Logger),
		Config:   a.config,
		Logger:   a.logger.Logger,
	})
	if err != nil {
		return err
	}
	pipeline.SetNotifier(server)

	ctx := cmd.Context()
	if err := server.Start(ctx, a.config.Server.Port, a.config.Server.Host); err != nil {
		return err
	}

	a.logger.Info("Server started",
		slog.String("url", getServerURL(a.config)),
		slog.String("environment", a.config.Server.Environment),
		slog.Int("max_decks", a.config.Store.GetMaxDecks()))
	fmt.Fprintf(cmd.OutOrStdout(), "docuslide listening on %s\n", getServerURL(a.config))

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.GetShutdownTimeout())
	defer cancel()

	if err := server.Stop(stopCtx); err != nil {
		return fmt.Errorf("stopping server: %w", err)
	}
	a.logger.Info("Server stopped")
	return nil
}
