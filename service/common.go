package service

import (
	"context"
	"log/slog"
	"os"

	"quill/app/config"
	"quill/app/logging"
	"quill/app/repositories"
)

// Version is reported by the version command.
const Version = "1.0.0"

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(os.Stderr, logging.Options{
		Level:       slog.LevelInfo,
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.Environment,
	})
}

// openRepository opens the blog database for the maintenance commands.
func openRepository(ctx context.Context, args []string) (*repositories.Repository, *config.Config, error) {
	cfg, err := config.Load(args)
	if err != nil {
		return nil, nil, err
	}
	repo, err := repositories.NewRepository(ctx, cfg.DatabasePath, newLogger(cfg))
	if err != nil {
		return nil, nil, err
	}
	return repo, cfg, nil
}
