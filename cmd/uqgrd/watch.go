package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/uqgrd/uqgrd/config"
	"github.com/uqgrd/uqgrd/internal/infrastructure/credentials"
	"github.com/uqgrd/uqgrd/internal/infrastructure/external/portal"
	"github.com/uqgrd/uqgrd/internal/infrastructure/notify"
	"github.com/uqgrd/uqgrd/internal/infrastructure/persistence/sqlite"
	"github.com/uqgrd/uqgrd/internal/infrastructure/scheduler"
	"github.com/uqgrd/uqgrd/internal/watcher"
)

func newWatchCmd(cfg *config.Config, log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the grade watch daemon",
		Long: "Checks the live term's grades on a fixed interval and emails when one\n" +
			"changes. Runs until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, cfg, log)
		},
	}
}

func runWatch(cmd *cobra.Command, cfg *config.Config, log *slog.Logger) error {
	ctx := cmd.Context()

	log.Info("starting grade watch daemon",
		"env", cfg.App.Environment,
		"interval", cfg.Watch.Interval,
		"portal", cfg.Portal.BaseURL,
	)

	store, err := credentials.NewStore()
	if err != nil {
		return err
	}

	statePath, err := resolveStatePath(cfg)
	if err != nil {
		return err
	}
	states, err := sqlite.Open(statePath)
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}
	defer func() {
		log.Info("closing state database")
		_ = states.Close()
	}()
	log.Info("state database ready", "path", statePath)

	client := portal.NewClient(portal.ClientConfig{
		BaseURL: cfg.Portal.BaseURL,
		Timeout: cfg.Portal.RequestTimeout,
		Logger:  log,
	})
	mailer := notify.NewMailer(cfg.SMTP, log)

	job := watcher.New(store, client, states, mailer, log, watcher.Config{
		RecipientDomain: cfg.SMTP.RecipientDomain,
	})

	runner := scheduler.NewRunner(job, scheduler.RunnerConfig{
		Interval: cfg.Watch.Interval,
		Logger:   log,
	})

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("grade watch daemon stopped")
	return nil
}

// resolveStatePath returns the state database location, defaulting to
// the per-user config directory next to the stored credentials.
func resolveStatePath(cfg *config.Config) (string, error) {
	if cfg.Watch.StatePath != "" {
		return cfg.Watch.StatePath, nil
	}
	dir, err := credentials.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.db"), nil
}
