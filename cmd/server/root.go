package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/milosz-sonski/training-plans-api/internal/app"
	"github.com/milosz-sonski/training-plans-api/internal/auth"
	"github.com/milosz-sonski/training-plans-api/internal/config"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Running the binary without a
// subcommand serves HTTP.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "trainingplans",
		Short:        "Share and browse training plans",
		Long:         "trainingplans serves the training plans JSON API and HTML pages.\nConfiguration is read from environment variables (see CONFIG_FILE).",
		Version:      app.Version,
		SilenceUsage: true,
		RunE:         runServe,
	}
	rootCmd.SetVersionTemplate(`{{printf "trainingplans version %s\n" .Version}}`)

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newTokenCmd())

	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	service, err := app.NewService(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer service.Cleanup()

	if err := service.Start(); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}

	service.WaitForShutdown()
	return nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and load SEED_FILE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			logger, err := app.NewLogger(cfg.Environment)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return app.Migrate(ctx, cfg, logger.Sugar())
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		secret  string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an HS256 token for the write endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load configuration: %w", err)
				}
				secret = cfg.Auth.Secret
			}

			token, err := auth.GenerateToken(secret, subject, ttl)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "user id stored in the sub claim")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
