package main

import (
	"blog-bus/infrastructure/http/client"
	"blog-bus/infrastructure/http/server"
	"blog-bus/internal"
	"blog-bus/moderation"
	"blog-bus/observability"
	"blog-bus/runtime"
	"blog-bus/runtime/workers"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const service = "moderation"

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Moderation terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.ModerationConfig
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	// 2. Censored dictionaries
	data, err := runtime.DefaultCensoredLoader().LoadAll("censored", internal.SplitList(config.ExtraWords)...)
	if err != nil {
		return exitConfig, fmt.Errorf("loading censored words: %w", err)
	}
	logger.Info(fmt.Sprintf("Loaded %d censored words", len(data.Words)), "languages", data.Languages)

	moderator, err := moderation.NewModerator(data.Words, charReplacement, config.MaxContentLength, logger)
	if err != nil {
		return exitConfig, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics(service)
	health, err := observability.NewHealth(logger, service)
	if err != nil {
		return exitRuntime, fmt.Errorf("health probe: %w", err)
	}

	// 3. Workers, decisions go back through the bus
	bus := client.NewBusClient(config.BusURL, client.NewHTTPClient(config.PublishTimeout))
	mailbox := workers.NewMailbox(service, config.BufferSize)
	sup := workers.NewSupervisor(logger).
		WithRestartDelay(config.RestartInterval).
		OnRestart(func(worker string) { metrics.WorkerRestarts.WithLabelValues(worker).Inc() })
	sup.Add(
		workers.NewModerationWorker(logger, moderator, mailbox, bus, metrics, config.PublishTimeout),
		workers.NewChannelCapacityWorker(logger, []*workers.Mailbox{mailbox}, metrics, config.MetricInterval),
	)
	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 4. HTTP server
	router := server.NewSubscriberRouter(logger, mailbox, server.Probes{Health: health, Metrics: metrics.Handler()})
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
