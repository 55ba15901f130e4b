package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	qrhttp "github.com/goliatone/go-qrexport/adapters/http"
	qrtemplate "github.com/goliatone/go-qrexport/adapters/template"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the QR code generator web UI",
	Long: `Serves the generator page with live preview and downloads.

The page is available immediately. Preview and export answer 503 until the
renderers finish warming up.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()
	rt.service.Init(ctx)

	page := qrtemplate.NewPageRenderer()
	if cfg.Server.Title != "" {
		page.Title = cfg.Server.Title
	}
	handler := qrhttp.NewHandler(qrhttp.Config{
		Service: rt.service,
		Page:    page,
		Logger:  logger,
	})
	srv := qrhttp.NewServer(qrhttp.AppConfig{
		BodyLimit:    cfg.Server.BodyLimit,
		AllowOrigins: cfg.Server.AllowOrigins,
		AccessLog:    cfg.Server.AccessLog,
	}, handler)

	addr := cfg.Server.Address()
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("qrexport listening addr=%s", addr)
		errCh <- srv.Serve(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx := context.Background()
	if cfg.Server.ShutdownWait > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, cfg.Server.ShutdownWait)
		defer cancel()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
