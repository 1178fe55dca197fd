package workers

import (
	"blog-bus/domain/event"
	"blog-bus/observability"
	"context"
	"log/slog"
)

// EventHandler processes one event at a time.
type EventHandler interface {
	Handle(ctx context.Context, e event.Event) error
}

// HandlerWorker drains a mailbox into an EventHandler. Failures are logged
// and counted, the event is not redelivered.
type HandlerWorker struct {
	log     *slog.Logger
	mailbox *Mailbox
	handler EventHandler
	metrics *observability.Metrics
}

func NewHandlerWorker(log *slog.Logger, mailbox *Mailbox, handler EventHandler, metrics *observability.Metrics) *HandlerWorker {
	return &HandlerWorker{log: log, mailbox: mailbox, handler: handler, metrics: metrics}
}

func (w *HandlerWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return nil
		case e := <-w.mailbox.Events():
			outcome := "applied"
			if !e.Known() {
				outcome = "ignored"
			} else if err := w.handler.Handle(ctx, e); err != nil {
				outcome = "failed"
				w.log.Warn("Unable to handle event", "type", e.Type, "error", err)
			}
			w.metrics.EventsConsumed.WithLabelValues(string(e.Type), outcome).Inc()
		}
	}
}
