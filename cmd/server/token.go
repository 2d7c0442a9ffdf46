package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/octosync/internal/config"
	"github.com/iudanet/octosync/internal/server/handlers"
	"github.com/iudanet/octosync/internal/validation"
)

func newTokenCommand(envDir *string) *cobra.Command {
	var (
		subject     string
		collections []string
		ttl         time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a client",
		Example: `  octosync-server token --subject web-app
  octosync-server token --subject crm --collections leads,projects --ttl 720h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServer(*envDir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("ttl") {
				cfg.JWT.TTL = ttl
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			for _, name := range collections {
				if err := validation.ValidateCollection(name); err != nil {
					return fmt.Errorf("invalid collection %q: %w", name, err)
				}
			}

			token, expiresAt, err := handlers.GenerateToken(
				handlers.JWTConfig{Secret: []byte(cfg.JWT.Secret), TokenTTL: cfg.JWT.TTL}, subject, collections)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Token subject (client name)")
	cmd.Flags().StringSliceVar(&collections, "collections", nil, "Collections the token may access (all when empty)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (overrides OCTOSYNC_JWT_TTL)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
