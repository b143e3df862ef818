package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calebmartin/seedwatch/internal/api"
	"github.com/calebmartin/seedwatch/internal/watch"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the watch loop and the liveness endpoint",
		Long: `Starts the poll loop and keeps it running until the process receives
SIGINT or SIGTERM. The liveness endpoint stays responsive while poll
cycles are in flight.`,
		RunE: runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	checker, closeRenderer, err := buildChecker(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeRenderer(); cerr != nil {
			logger.Warn("close renderer", zap.Error(cerr))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewServer(logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("liveness server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("liveness server failed", zap.Error(err))
		}
	}()

	logger.Info("watch loop starting",
		zap.String("url", cfg.Watch.URL),
		zap.Strings("items", cfg.Watch.Items),
		zap.Duration("interval", cfg.Interval()),
		zap.String("notify_policy", cfg.Watch.NotifyPolicy),
	)
	watch.NewLoop(checker, cfg.Interval(), logger).Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("liveness server shutdown", zap.Error(err))
	}
	return nil
}
