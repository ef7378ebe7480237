// Package main is the entry point for uqgrd, the UQAM grade watcher.
//
// Three commands:
//   - credentials: store the portal login (OS keychain by default)
//   - grades:      one-shot transcript and grade lookup
//   - watch:       long-running change detection daemon with email alerts
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/uqgrd/uqgrd/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg)

	rootCmd := &cobra.Command{
		Use:           "uqgrd",
		Short:         "Watches UQAM course results and emails when a grade changes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newCredentialsCmd())
	rootCmd.AddCommand(newGradesCmd(cfg))
	rootCmd.AddCommand(newWatchCmd(cfg, log))

	return rootCmd.ExecuteContext(ctx)
}

// setupLogger configures structured logging. JSON in production so log
// collectors can ingest it, plain text during development.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}
