package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var flags modelFlags
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Train on a corpus and serve generation over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.config.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			tm, err := a.trainModel(ctx, cmd, &flags)
			if err != nil {
				return err
			}

			mux := http.NewServeMux()
			NewModelAPI(tm.model, tm.source, a.logger).RegisterRoutes(mux)
			server := &http.Server{Addr: addr, Handler: mux}

			errChan := make(chan error, 1)
			go func() {
				a.logger.Info("Starting api server", "address", server.Addr, "source", tm.source)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errChan <- err
				}
				close(errChan)
			}()

			select {
			case err = <-errChan:
				if err != nil {
					a.logger.Error("Api server failed", "error", err)
					return err
				}
				return nil
			case <-ctx.Done():
				a.logger.Info("OS signal received, initiating shutdown.")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err = server.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("Api server shutdown failed", "error", err)
				return err
			}
			a.logger.Info("HTTP server stopped.")
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}
