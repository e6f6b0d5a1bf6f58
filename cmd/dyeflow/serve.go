package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/dyeflow"
	"github.com/aretw0/dyeflow/internal/cli"
	"github.com/aretw0/dyeflow/internal/presentation/tui"
	httpAdapter "github.com/aretw0/dyeflow/pkg/adapters/http"
	"github.com/aretw0/dyeflow/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP editing server",
	Long:  `Starts an editor session exposing the current document as a JSON API over HTTP, with change events on /events and metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		logger := cli.NewLogger(cfg.SlogLevel(), false)

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		metrics := observability.NewMetrics(reg)
		streams := httpAdapter.NewStreamManager()

		hooks := observability.Combine(metrics.Hooks(), observability.LogHooks(logger), streams.Hooks())
		editor, closeStore, err := cli.NewEditor(ctx, cfg, logger, hooks)
		if err != nil {
			return err
		}
		defer closeStore()
		metrics.Observe(editor.Document())

		srv := &http.Server{
			Addr: cfg.Addr,
			Handler: httpAdapter.NewHandler(editor,
				httpAdapter.WithStreams(streams),
				httpAdapter.WithGatherer(reg),
				httpAdapter.WithLogger(logger),
			),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			tui.PrintBanner(os.Stderr, dyeflow.Version)
			logger.Info("starting server", "addr", srv.Addr, "store", cfg.Store.Kind)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil

		case <-ctx.Done():
			logger.Info("shutting down", "signal", ctx.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			cli.PrintSystemMessage("server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (overrides config)")
}
