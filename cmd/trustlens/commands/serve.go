package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/trustlens/trustlens/internal/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the computed tables over HTTP",
	Long: `Starts a read-only HTTP server over the tables a pipeline run wrote.

Endpoints:
  GET  /health              - Health check
  GET  /api/quality/daily   - Daily quality table
  GET  /api/kpis/daily      - Daily KPI table
  GET  /api/report/summary  - Trust summary + low-trust days

Example:
  go run ./cmd/trustlens serve
  go run ./cmd/trustlens serve --port 8080`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flags
	serveCmd.Flags().StringVar(&servePort, "port", "", "server port (default from PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, runner, err := setup()
	if err != nil {
		return err
	}

	if servePort != "" {
		cfg.Port = servePort
	}

	handler := api.NewHandler(runner.Store(), log)
	router := api.NewRouter(handler, log)
	server := api.New(cfg, log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
