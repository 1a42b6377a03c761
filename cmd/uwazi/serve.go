package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/uwazi/transparency-engine/api"
	"github.com/uwazi/transparency-engine/config"
	"github.com/uwazi/transparency-engine/transparency"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API",
	Long: `Loads the configured dataset once and serves it read-only until SIGINT
or SIGTERM. In-flight requests get the configured shutdown timeout to finish.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := config.OpenDataset(ctx, cfg.Dataset)
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	logger.Info("Dataset loaded",
		zap.String("source", cfg.Dataset.Source),
		zap.Int("projects", len(store.Projects())),
		zap.Int("loans", len(store.Loans())),
	)

	server := newServer(cfg, store, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting uwazi HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func newServer(c *config.Config, store *transparency.Store, logger *zap.Logger) *http.Server {
	metrics := api.NewMetrics()
	metrics.ObserveStore(store)

	router := api.NewRouter(api.NewHandler(store, logger), api.RouterOptions{
		AllowedOrigins: c.Server.AllowedOrigins,
		Logger:         logger,
		Metrics:        metrics,
	})

	return &http.Server{
		Addr:         c.Addr(),
		Handler:      router,
		ReadTimeout:  c.GetReadTimeout(),
		WriteTimeout: c.GetWriteTimeout(),
		IdleTimeout:  c.GetIdleTimeout(),
	}
}
