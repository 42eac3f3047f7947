package main

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

	"popupkit/jokebox/internal/handler"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(a)
		},
	}
}

func serve(a *app) error {
	cfg, logger := a.cfg, a.logger

	// 1. Initialize handlers
	router := handler.SetupRouter(cfg, logger,
		handler.NewJokeHandler(a.jokeProvider),
		handler.NewNotesHandler(a.notes, a.autosaver),
		handler.NewTabHandler(a.tabs),
	)

	// 2. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 3. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 4. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}
	logger.Info("shutting down server...")

	return shutdown(srv, a, cfg.Server.GracefulShutdownTimeout)
}

const notesFlushTimeout = 5 * time.Second

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdown stops srv, then writes any pending notes draft even if the
// server failed to drain in time.
func shutdown(srv shutdowner, a *app, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	shutdownErr := srv.Shutdown(ctx)

	if text, ok := a.autosaver.Pending(); ok {
		a.logger.Info("flushing pending notes draft", zap.Int("bytes", len(text)))
		flushCtx, flushCancel := context.WithTimeout(context.Background(), notesFlushTimeout)
		defer flushCancel()
		if err := a.autosaver.Flush(flushCtx); err != nil {
			a.logger.Error("flush pending notes failed", zap.Error(err))
		}
	}

	if shutdownErr != nil {
		return fmt.Errorf("server forced to shutdown: %w", shutdownErr)
	}
	a.logger.Info("server exited gracefully")
	return nil
}
