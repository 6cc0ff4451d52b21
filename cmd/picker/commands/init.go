package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tailpick/backend/internal/store"
)

// initCmd creates the database schema
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema",
	Long: `Creates every table the pipeline writes to, idempotently.

Example:
  go run ./cmd/picker init`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	if err := store.InitSchema(ctx, app.db.Pool); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	app.log.Info("Schema initialized")
	fmt.Println("Schema initialized")
	return nil
}
