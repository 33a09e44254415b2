package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/lucid-sh/console/internal/api"
	"github.com/lucid-sh/console/internal/ui"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the console web server",
		Example: `  # Serve on the default port against a local API
  lucid-console serve

  # Point at a remote API
  lucid-console serve --api-url https://fleet.example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			if cfg.SessionSecret == "" {
				cfg.SessionSecret = generateSessionSecret()
				logger.Debug("generated ephemeral session secret")
			}

			client, err := api.New(cfg.APIURL, logger)
			if err != nil {
				return err
			}

			server, err := ui.NewServer(cfg, client, logger)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := server.Serve(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}

func generateSessionSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("failed to read random bytes: %v", err))
	}
	return hex.EncodeToString(buf)
}
