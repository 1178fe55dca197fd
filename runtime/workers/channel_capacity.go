package workers

import (
	"blog-bus/observability"
	"context"
	"log/slog"
	"time"
)

const DefaultMetricInterval = 5 * time.Second

// ChannelCapacityWorker periodically samples the depth of the mailboxes.
// Reading len(channel) is non-blocking, so this won't interfere with the
// workers draining them.
type ChannelCapacityWorker struct {
	log            *slog.Logger
	mailboxes      []*Mailbox
	metrics        *observability.Metrics
	metricInterval time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger, mailboxes []*Mailbox,
	metrics *observability.Metrics, metricInterval time.Duration) *ChannelCapacityWorker {
	if metricInterval <= 0 {
		metricInterval = DefaultMetricInterval
	}
	return &ChannelCapacityWorker{
		log:            log,
		mailboxes:      mailboxes,
		metrics:        metrics,
		metricInterval: metricInterval,
	}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping mailbox sampling")
			return nil
		case <-ticker.C:
			w.sample()
		}
	}
}

func (w *ChannelCapacityWorker) sample() {
	for _, m := range w.mailboxes {
		length, capacity := m.Len(), m.Cap()
		w.metrics.MailboxDepth.WithLabelValues(m.Name()).Set(float64(length))
		if capacity > 0 && length*10 >= capacity*9 {
			w.log.Warn("Mailbox almost full", "name", m.Name(), "length", length, "capacity", capacity)
		}
	}
}
