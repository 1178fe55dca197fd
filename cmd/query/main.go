package main

import (
	"blog-bus/infrastructure/http/server"
	"blog-bus/infrastructure/storage"
	"blog-bus/internal"
	"blog-bus/observability"
	"blog-bus/projection"
	"blog-bus/repositories"
	"blog-bus/runtime/workers"
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

const service = "query"

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.QueryConfig
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage, the view is rebuilt from what was persisted
	store, err := storage.Open(ctx, config.StoreOptions(), logger)
	if err != nil {
		return exitConfig, fmt.Errorf("store opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing store...")
		_ = store.Close()
	}()

	posts := projection.NewPosts(logger, repositories.NewPostRepository(store))
	if err := posts.Load(ctx); err != nil {
		return exitRuntime, fmt.Errorf("projection rebuild failed: %w", err)
	}
	logger.Info("Projection rebuilt", "posts", posts.Len())

	builder := projection.NewViewBuilder(logger, posts,
		projection.NewParking(config.ParkingCapacity, config.ParkingTTL))

	// 3. Workers
	metrics := observability.NewMetrics(service)
	health, err := observability.NewHealth(logger, service)
	if err != nil {
		return exitRuntime, fmt.Errorf("health probe: %w", err)
	}

	mailbox := workers.NewMailbox(service, config.BufferSize)
	sup := workers.NewSupervisor(logger).
		WithRestartDelay(config.RestartInterval).
		OnRestart(func(worker string) { metrics.WorkerRestarts.WithLabelValues(worker).Inc() })
	sup.Add(
		workers.NewProjectorWorker(logger, mailbox, builder, metrics, config.SweepInterval),
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
			return map[string]any{"posts": posts.Len(), "mailbox": mailbox.Len()}
		})
		logger.Info("Store inspector available", "url", fmt.Sprintf("http://localhost:%d/debug/inspect", config.Port))
	}
	router := server.NewQueryRouter(logger, mailbox, posts, probes)
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
