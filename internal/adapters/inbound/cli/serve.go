package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/invoiceirr/invoiceirr/internal/adapters/inbound/httpapi"
	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/config"
	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/csvsource"
	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/gitinfo"
	"github.com/invoiceirr/invoiceirr/internal/application"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the IRR engine over HTTP",
		Long:  "Start a JSON HTTP API exposing POST /v1/irr, /v1/xnpv and /v1/solve plus GET /healthz.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			svc := application.NewComputeService(csvsource.New(), config.New(), gitinfo.New(), logger)
			cfg, err := svc.LoadConfig(configPath)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           httpapi.NewServer(svc, cfg, logger).Routes(),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      60 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "invoiceirr listening on %s\n", addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("http server: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down: %w", err)
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&configPath, "config", ".", "Config file or directory holding "+config.FileName)

	return cmd
}
