package workers

import (
	"blog-bus/observability"
	"blog-bus/runtime"
	"context"
	"log/slog"
)

// DeliveryReportWorker turns the dispatcher reports into logs and metrics.
type DeliveryReportWorker struct {
	log     *slog.Logger
	reports chan runtime.DeliveryReport
	metrics *observability.Metrics
}

func NewDeliveryReportWorker(log *slog.Logger, reports chan runtime.DeliveryReport,
	metrics *observability.Metrics) *DeliveryReportWorker {
	return &DeliveryReportWorker{log: log, reports: reports, metrics: metrics}
}

func (w *DeliveryReportWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping delivery reports")
			return nil
		case report, ok := <-w.reports:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.record(report)
		}
	}
}

func (w *DeliveryReportWorker) record(report runtime.DeliveryReport) {
	for _, d := range report.Deliveries {
		outcome := "delivered"
		if d.Failed() {
			outcome = "failed"
		}
		w.metrics.Deliveries.WithLabelValues(d.Subscriber, outcome).Inc()
		w.metrics.DeliveryDuration.WithLabelValues(d.Subscriber).Observe(d.Duration.Seconds())
	}

	failures := report.Failures()
	if len(failures) == 0 {
		w.log.Debug("Event delivered", "id", report.EventID, "type", report.EventType,
			"subscribers", len(report.Deliveries))
		return
	}
	w.log.Warn("Event partially delivered",
		"id", report.EventID,
		"type", report.EventType,
		"delivered", len(report.Deliveries)-len(failures),
		"failed", len(failures))
}
