package main

import (
	"blog-bus/infrastructure/http/client"
	"blog-bus/infrastructure/http/server"
	"blog-bus/internal"
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

const service = "bus"

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bus terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.BusConfig
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	endpoints, err := runtime.ParseEndpoints(config.Subscribers)
	if err != nil {
		return exitConfig, err
	}

	// 2. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics(service)
	health, err := observability.NewHealth(logger, service)
	if err != nil {
		return exitRuntime, fmt.Errorf("health probe: %w", err)
	}

	// 3. Registry & Dispatcher
	httpClient := client.NewHTTPClient(2 * config.DeliveryTimeout)
	registry := runtime.NewRegistry()
	for _, endpoint := range endpoints {
		registry.Subscribe(client.NewSubscriber(endpoint.Name, endpoint.URL, httpClient))
		logger.Info("Subscriber registered", "name", endpoint.Name, "url", endpoint.URL)
	}
	if len(endpoints) == 0 {
		logger.Warn("No subscriber configured, events will only be logged")
	}

	reports := make(chan runtime.DeliveryReport, config.ReportBuffer)
	// Deliveries outlive the signal, Stop drains them once the server is closed
	dispatcher := runtime.NewDispatcher(context.WithoutCancel(ctx), logger, registry, config.DeliveryTimeout, reports).
		WithDrainTimeout(config.ShutdownTimeout)

	// 4. Workers
	sup := workers.NewSupervisor(logger).
		WithRestartDelay(config.RestartInterval).
		OnRestart(func(worker string) { metrics.WorkerRestarts.WithLabelValues(worker).Inc() })
	sup.Add(workers.NewDeliveryReportWorker(logger, reports, metrics))
	supDone := make(chan struct{})
	go func() {
		// Reports of drained deliveries are still consumed, sup.Stop ends it
		sup.Run(context.WithoutCancel(ctx))
		close(supDone)
	}()

	// 5. HTTP server, blocks until the signal
	router := server.NewBusRouter(logger,
		server.NewBusEventsHandler(logger, dispatcher, metrics),
		server.Probes{Health: health, Metrics: metrics.Handler()})
	serveErr := server.Serve(ctx, logger, internal.Address(config.Port), router, config.ShutdownTimeout)

	// 6. Final Cleanup
	logger.Info("Shutting down gracefully...")
	dispatcher.Stop()
	sup.Stop()
	<-supDone
	if serveErr != nil {
		return exitRuntime, fmt.Errorf("http server error: %w", serveErr)
	}
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}
