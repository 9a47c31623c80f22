// Package main starts the savings board relay server: configuration,
// logging, tracing, the webhook relay, the board service and the HTTP router.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/savingsboard/internal/config"
	"github.com/atinyakov/savingsboard/internal/logger"
	"github.com/atinyakov/savingsboard/internal/observability/tracing"
	"github.com/atinyakov/savingsboard/internal/relay"
	"github.com/atinyakov/savingsboard/internal/server/handler/http"
	"github.com/atinyakov/savingsboard/internal/service"
)

const (
	serviceName     = "savingsboard"
	shutdownTimeout = 10 * time.Second
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, config file and environment configuration.
	options, err := config.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if err := run(options, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func run(options *config.Options, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, zapLogger, serviceName, version)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			zapLogger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	if options.WebhookURL == "" {
		zapLogger.Warn("webhook URL not configured; board actions will fail",
			zap.String("env", config.EnvWebhookURL))
	}

	// Wire the relay, service and handlers.
	upstream := relay.New(options.WebhookURL, options.WebhookSecret, options.RelayTimeout, nil, zapLogger)
	boardService := service.NewBoardService(upstream, options, zapLogger)
	boardHandler := &http.BoardHandler{BoardService: boardService}
	router := http.NewRouter(boardHandler, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           otelhttp.NewHandler(router, serviceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLogger.Info("starting HTTP server",
			zap.String("addr", options.Address),
			zap.Duration("relay_timeout", options.RelayTimeout),
			zap.Bool("webhook_secret", options.WebhookSecret != ""))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("shutting down HTTP server")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sctx)
	})
	return g.Wait()
}
