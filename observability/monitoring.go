package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blog_bus"

// Metrics holds the Prometheus metrics of one service.
// Each service owns its registry so that tests can build as many as they need.
type Metrics struct {
	Registry *prometheus.Registry

	EventsPublished  *prometheus.CounterVec
	EventsRejected   prometheus.Counter
	Deliveries       *prometheus.CounterVec
	DeliveryDuration *prometheus.HistogramVec

	EventsConsumed *prometheus.CounterVec
	ParkedEvents   prometheus.Gauge
	MailboxDepth   *prometheus.GaugeVec

	ModerationDecisions *prometheus.CounterVec
	WorkerRestarts      *prometheus.CounterVec
}

func NewMetrics(service string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": service}

	return &Metrics{
		Registry: reg,
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "dispatcher",
			Name:        "events_published_total",
			Help:        "Total number of events accepted for dispatch, by type.",
			ConstLabels: labels,
		}, []string{"type"}),
		EventsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "dispatcher",
			Name:        "events_rejected_total",
			Help:        "Total number of malformed events rejected at the boundary.",
			ConstLabels: labels,
		}),
		Deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "dispatcher",
			Name:        "deliveries_total",
			Help:        "Total number of delivery attempts by subscriber and outcome.",
			ConstLabels: labels,
		}, []string{"subscriber", "outcome"}), // outcome: delivered, failed
		DeliveryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "dispatcher",
			Name:        "delivery_duration_seconds",
			Help:        "Duration of delivery attempts by subscriber.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"subscriber"}),
		EventsConsumed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "subscriber",
			Name:        "events_consumed_total",
			Help:        "Total number of events handled by a subscriber, by type and outcome.",
			ConstLabels: labels,
		}, []string{"type", "outcome"}), // outcome: applied, ignored, parked, expired, evicted, failed
		ParkedEvents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "projection",
			Name:        "parked_events",
			Help:        "Number of events waiting for the aggregate they depend on.",
			ConstLabels: labels,
		}),
		MailboxDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "subscriber",
			Name:        "mailbox_depth",
			Help:        "Number of events queued in a mailbox.",
			ConstLabels: labels,
		}, []string{"mailbox"}),
		ModerationDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "moderation",
			Name:        "decisions_total",
			Help:        "Total number of moderation decisions by status.",
			ConstLabels: labels,
		}, []string{"status"}),
		WorkerRestarts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "supervisor",
			Name:        "worker_restarts_total",
			Help:        "Total number of worker restarts after a crash.",
			ConstLabels: labels,
		}, []string{"worker"}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
