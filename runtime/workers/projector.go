package workers

import (
	"blog-bus/observability"
	"blog-bus/projection"
	"context"
	"log/slog"
	"time"
)

const DefaultSweepInterval = time.Second

// ProjectorWorker is the only writer of the projection.
// It applies the events of its mailbox one at a time and
// periodically expires the events parked for too long.
type ProjectorWorker struct {
	log           *slog.Logger
	mailbox       *Mailbox
	builder       *projection.ViewBuilder
	metrics       *observability.Metrics
	sweepInterval time.Duration
}

func NewProjectorWorker(log *slog.Logger, mailbox *Mailbox, builder *projection.ViewBuilder,
	metrics *observability.Metrics, sweepInterval time.Duration) *ProjectorWorker {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	return &ProjectorWorker{
		log:           log,
		mailbox:       mailbox,
		builder:       builder,
		metrics:       metrics,
		sweepInterval: sweepInterval,
	}
}

func (w *ProjectorWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping projector")
			return nil
		case e := <-w.mailbox.Events():
			res := w.builder.Handle(ctx, e)
			w.metrics.EventsConsumed.WithLabelValues(string(e.Type), string(res.Outcome)).Inc()
			if res.Evicted > 0 {
				w.metrics.EventsConsumed.WithLabelValues("", "evicted").Add(float64(res.Evicted))
			}
			w.metrics.ParkedEvents.Set(float64(w.builder.Parked()))
		case <-ticker.C:
			if expired := w.builder.Expire(); expired > 0 {
				w.metrics.EventsConsumed.WithLabelValues("", "expired").Add(float64(expired))
				w.metrics.ParkedEvents.Set(float64(w.builder.Parked()))
			}
		}
	}
}
