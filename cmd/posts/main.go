package main

import (
	"blog-bus/infrastructure/http/client"
	"blog-bus/infrastructure/http/server"
	"blog-bus/infrastructure/storage"
	"blog-bus/internal"
	"blog-bus/observability"
	"blog-bus/repositories"
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

const service = "posts"

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Posts terminated with error: %v\n", err)
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

	// 3. Service
	bus := client.NewBusClient(config.BusURL, client.NewHTTPClient(config.PublishTimeout))
	postService := services.NewPostService(logger, repositories.NewPostRepository(store), bus)

	// 4. HTTP server
	probes := server.Probes{Health: health, Metrics: metrics.Handler()}
	if logger.Enabled(ctx, slog.LevelDebug) {
		probes.Inspect = internal.NewInspectHandler(logger, store, nil, nil)
	}
	router := server.NewPostsRouter(logger, postService, probes)
	if err := server.Serve(ctx, logger, internal.Address(config.Port), router, config.ShutdownTimeout); err != nil {
		return exitRuntime, fmt.Errorf("http server error: %w", err)
	}
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}
