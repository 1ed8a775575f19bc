// Package cli implements the healthners command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/healthners/healthners/internal/adapters/http"
	"github.com/healthners/healthners/internal/config"
	"github.com/healthners/healthners/internal/observability"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   "healthners",
		Short: "Healthners - wellness coach for distance learning students",
		Long: `Healthners is a chat assistant that gives health and well-being advice
to students, backed by a hosted Gemini model.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = loaded

			logOut := io.Writer(os.Stdout)
			if cmd.Name() == "chat" {
				// keep JSON logs out of the conversation
				logOut = os.Stderr
			}
			observability.Configure(logOut, cfg.LogLevel)
			return nil
		},
	}

	rootCmd.AddCommand(newServeCmd(&cfg))
	rootCmd.AddCommand(newChatCmd(&cfg))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newServeCmd(cfg **config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				c.Port = port
			}
			return runServe(cmd.Context(), c)
		},
	}
	cmd.Flags().String("port", "", "Port to listen on (overrides HEALTHNERS_PORT)")
	return cmd
}

func newChatCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with Healthners in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApplication(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			defer app.close()

			session := newChatSession(app.conversation, app.settings, cmd.InOrStdin(), cmd.OutOrStdout())
			return session.Run(cmd.Context())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "healthners v1.0.0")
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := buildApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpadapter.NewServer(app.conversation, app.settings),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		observability.Logger().Info("Healthners API listening", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	observability.Logger().Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
