package main

import (
	"blog-bus/infrastructure/http/client"
	"blog-bus/infrastructure/http/server"
	"blog-bus/infrastructure/storage"
	"blog-bus/internal"
	"blog-bus/observability"
	"blog-bus/repositories"
	"blog-bus/runtime/workers"
	"blog-bus/services"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const service = "comments"

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Comments terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.ProducerConfig
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage
	store, err := storage.Open(ctx, config.StoreOptions(), logger)
	if err != nil {
		return exitConfig, fmt.Errorf("store opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing store...")
		_ = store.Close()
	}()

	metrics := observability.NewMetrics(service)
	health, err := observability.NewHealth(logger, service)
	if err != nil {
		return exitRuntime, fmt.Errorf("health probe: %w", err)
	}

	// 3. Service & Workers, moderation decisions arrive through the mailbox
	bus := client.NewBusClient(config.BusURL, client.NewHTTPClient(config.PublishTimeout))
	commentService := services.NewCommentService(logger, repositories.NewCommentRepository(store), bus)

	mailbox := workers.NewMailbox(service, config.BufferSize)
	sup := workers.NewSupervisor(logger).
		WithRestartDelay(config.RestartInterval).
		OnRestart(func(worker string) { metrics.WorkerRestarts.WithLabelValues(worker).Inc() })
	sup.Add(
		workers.NewHandlerWorker(logger, mailbox, commentService, metrics),
		workers.NewChannelCapacityWorker(logger, []*workers.Mailbox{mailbox}, metrics, config.MetricInterval),
	)
	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 4. HTTP server
	probes := server.Probes{Health: health, Metrics: metrics.Handler()}
	if logger.Enabled(ctx, slog.LevelDebug) {
		probes.Inspect = internal.NewInspectHandler(logger, store, nil, func() map[string]any {
			return map[string]any{"mailbox": mailbox.Len()}
		})
	}
	router := server.NewCommentsRouter(logger, commentService, mailbox, probes)
	serveErr := server.Serve(ctx, logger, internal.Address(config.Port), router, config.ShutdownTimeout)

	// 5. Final Cleanup
	logger.Info("Shutting down gracefully...")
	sup.Stop()
	<-supDone
	if serveErr != nil {
		return exitRuntime, fmt.Errorf("http server error: %w", serveErr)
	}
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}
