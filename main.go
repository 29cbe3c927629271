// Command alttext-audit starts the alt text compliance audit API server.
// Usage: alttext-audit [-config path] [-addr :8080] [-db audit.db]
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

	"github.com/glowstarlabs/alttext-audit/internal/app"
	"github.com/glowstarlabs/alttext-audit/internal/cli"
	"github.com/glowstarlabs/alttext-audit/internal/interfaces"
	"github.com/glowstarlabs/alttext-audit/internal/logging"
	"github.com/glowstarlabs/alttext-audit/internal/metrics"
	"github.com/glowstarlabs/alttext-audit/internal/server"
)

const shutdownGrace = 10 * time.Second

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "argument error: %v\n", err)
		os.Exit(2)
	}

	logger := logging.NewStdoutLogger("alttext-audit")

	cfg, err := app.LoadConfig(args.ConfigPath)
	if err != nil {
		logger.Error("failed to load config",
			interfaces.Field{Key: "path", Value: args.ConfigPath},
			interfaces.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
	if args.ListenAddr != "" {
		cfg.ListenAddr = args.ListenAddr
	}
	if args.DBPath != "" {
		cfg.DBPath = args.DBPath
	}

	metrics.Init()

	srv, err := server.NewServer(server.Config{
		ListenAddr: cfg.ListenAddr,
		AppConfig:  cfg,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to start server",
			interfaces.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
	defer srv.Close()

	httpSrv := srv.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", interfaces.Field{Key: "addr", Value: cfg.ListenAddr})
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", interfaces.Field{Key: "signal", Value: sig.String()})
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", interfaces.Field{Key: "error", Value: err.Error()})
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown incomplete",
			interfaces.Field{Key: "error", Value: err.Error()})
	}
}
