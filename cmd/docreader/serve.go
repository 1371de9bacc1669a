// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docreader/internal/convert"
	"github.com/pdiddy/docreader/internal/staging"
	"github.com/pdiddy/docreader/internal/web"
	"github.com/pdiddy/docreader/pkg/types"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the document upload form",
	Long: `Serve starts the web interface. Users upload one or more documents, and
each is converted to Markdown with a preview, downloads, and a size report.
The same conversion is available as JSON at POST /api/convert.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, loadConfig(), slog.Default())
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8501", "listen address")
	serveCmd.Flags().Int64("max-upload-mb", 200, "maximum request body size in megabytes")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.max_upload_mb", serveCmd.Flags().Lookup("max-upload-mb"))

	rootCmd.AddCommand(serveCmd)
}

// newOrchestrator builds the converter pipeline shared by serve and convert.
func newOrchestrator(ctx context.Context, cfg types.ConversionConfig, logger *slog.Logger) (*convert.Orchestrator, convert.Backend, error) {
	backend, err := convert.NewBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("conversion backend ready", "backend", backend.Name())

	orch := convert.NewOrchestrator(backend,
		convert.WithStager(staging.New(cfg.TempDir)),
		convert.WithTimeout(cfg.Timeout),
		convert.WithLogger(logger),
	)
	return orch, backend, nil
}

func runServe(ctx context.Context, cfg types.Config, logger *slog.Logger) error {
	orch, backend, err := newOrchestrator(ctx, cfg.Conversion, logger)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	h := web.NewHandler(orch, backend.Name(), cfg.Server, logger)
	router, err := web.NewRouter(h, cfg.Server)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "max_upload_mb", cfg.Server.MaxUploadMB)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
