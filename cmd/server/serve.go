package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iudanet/octosync/internal/config"
	"github.com/iudanet/octosync/internal/logging"
	"github.com/iudanet/octosync/internal/server"
	"github.com/iudanet/octosync/internal/server/handlers"
	"github.com/iudanet/octosync/internal/server/middleware"
	"github.com/iudanet/octosync/internal/server/storage/sqldb"
)

func newServeCommand(envDir *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServer(*envDir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides OCTOSYNC_ADDR)")

	return cmd
}

func serve(ctx context.Context, cfg *config.Server, logger *slog.Logger) error {
	dialect, err := sqldb.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return err
	}

	store, err := sqldb.New(ctx, dialect, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()
	logger.Info("Database ready", "driver", dialect)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Requests > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)
		defer limiter.Stop()
	}

	version := cfg.Version
	if version == "" {
		version = Version
	}

	router := server.NewRouter(server.RouterConfig{
		Storage:     store,
		Logger:      logger,
		RateLimiter: limiter,
		JWT:         handlers.JWTConfig{Secret: []byte(cfg.JWT.Secret), TokenTTL: cfg.JWT.TTL},
		Version:     version,
	})

	return server.New(cfg.Addr, router, logger).Run(ctx)
}
