package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tailpick/backend/internal/api"
	"github.com/wonny/tailpick/backend/internal/api/handlers"
)

// apiCmd starts the HTTP API server
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                - Health check
  GET  /api/candidates        - Ranked candidates for a trade day
  GET  /api/snapshot/status   - Snapshot state for a trade day
  POST /api/snapshot/build    - Trigger a snapshot build
  POST /api/screen            - Trigger a screening run
  GET  /metrics               - Prometheus metrics (when enabled)

Example:
  go run ./cmd/picker api
  go run ./cmd/picker api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if apiPort != "" {
		app.cfg.Port = apiPort
	}

	screener, err := app.screener()
	if err != nil {
		return err
	}

	candidateHandler := handlers.NewCandidateHandler(app.candidates, app.cache(), app.log)
	snapshotHandler := handlers.NewSnapshotHandler(app.snapshotManager(), app.log)
	screenHandler := handlers.NewScreenHandler(screener, app.calendar(), app.log)

	var metricsHandler http.Handler
	if app.cfg.MetricsEnabled {
		metricsHandler = app.metrics.Handler()
	}

	router := api.NewRouter(candidateHandler, snapshotHandler, screenHandler, metricsHandler, app.log)
	server := api.New(app.cfg, app.log, router)

	go func() {
		if err := server.Start(); err != nil {
			app.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", app.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
