package runtime

import (
	"blog-bus/contract"
	"blog-bus/domain/event"
	"blog-bus/errors"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	DefaultDeliveryTimeout = 3 * time.Second
	DefaultDrainTimeout    = 5 * time.Second
)

// Ack is returned to the producer once an event has been accepted for dispatch.
// It says nothing about the outcome of the deliveries.
type Ack struct {
	ID          uuid.UUID
	Subscribers int
}

// Delivery is the outcome of one attempt to hand an event to one subscriber.
type Delivery struct {
	Subscriber string
	Err        error
	Duration   time.Duration
}

func (d Delivery) Failed() bool { return d.Err != nil }

// DeliveryReport aggregates every attempt made for one published event.
type DeliveryReport struct {
	EventID    uuid.UUID
	EventType  event.Type
	At         time.Time
	Deliveries []Delivery
}

func (r DeliveryReport) Failures() []Delivery {
	return lo.Filter(r.Deliveries, func(d Delivery, _ int) bool { return d.Failed() })
}

// Dispatcher relays every published event to all registered subscribers.
// Each delivery runs in its own goroutine with its own timeout, the producer
// is acknowledged before any of them completes. Nothing is retried.
type Dispatcher struct {
	log      *slog.Logger
	registry contract.IRegistry
	timeout  time.Duration
	drain    time.Duration
	reports  chan DeliveryReport

	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher keeps the values of ctx but not its cancellation: deliveries
// only end with their own timeout or with Stop, never with the producer's
// request or the process signal. reports may be nil.
func NewDispatcher(ctx context.Context, log *slog.Logger, registry contract.IRegistry,
	deliveryTimeout time.Duration, reports chan DeliveryReport) *Dispatcher {
	if deliveryTimeout <= 0 {
		deliveryTimeout = DefaultDeliveryTimeout
	}
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	return &Dispatcher{
		log:      log,
		registry: registry,
		timeout:  deliveryTimeout,
		drain:    DefaultDrainTimeout,
		reports:  reports,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// WithDrainTimeout bounds how long Stop lets in-flight deliveries finish
// before aborting them.
func (d *Dispatcher) WithDrainTimeout(timeout time.Duration) *Dispatcher {
	if timeout > 0 {
		d.drain = timeout
	}
	return d
}

// Publish accepts one event and starts its fan-out.
// It fails only on malformed input or when the dispatcher is stopped.
func (d *Dispatcher) Publish(ctx context.Context, evt event.Event) (Ack, error) {
	if evt.Type == "" {
		return Ack{}, errors.ErrMissingEventType
	}
	if err := ctx.Err(); err != nil {
		return Ack{}, err
	}
	d.mu.Lock()
	if d.stopped || d.ctx.Err() != nil {
		d.mu.Unlock()
		return Ack{}, errors.ErrDispatcherStopped
	}
	d.wg.Add(1)
	d.mu.Unlock()

	subscribers := d.registry.Subscribers()
	ack := Ack{ID: uuid.New(), Subscribers: len(subscribers)}

	d.log.Info("Event received", "id", ack.ID, "type", evt.Type, "bytes", len(evt.Data), "subscribers", len(subscribers))
	d.log.Debug("Event data", "id", ack.ID, "data", string(evt.Data))
	if !evt.Known() {
		d.log.Warn("Relaying event of unknown type", "id", ack.ID, "type", evt.Type)
	}

	go d.fanout(ack.ID, evt, subscribers)

	return ack, nil
}

// AsPublisher exposes the dispatcher to in-process producers.
func (d *Dispatcher) AsPublisher() contract.Publisher {
	return contract.PublisherFunc(func(ctx context.Context, e event.Event) error {
		_, err := d.Publish(ctx, e)
		return err
	})
}

// Stop refuses new events and lets in-flight deliveries finish. Deliveries
// still running after the drain timeout are canceled. Stop returns once
// every report has been emitted.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(drained)
	}()

	timer := time.NewTimer(d.drain)
	defer timer.Stop()
	select {
	case <-drained:
	case <-timer.C:
		d.log.Warn("Deliveries still running after drain timeout, aborting them", "timeout", d.drain)
		d.cancel()
		<-drained
	}
	d.cancel()
}

func (d *Dispatcher) fanout(id uuid.UUID, evt event.Event, subscribers []contract.Subscriber) {
	defer d.wg.Done()

	deliveries := make([]Delivery, len(subscribers))
	var wg sync.WaitGroup
	for i, s := range subscribers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deliveries[i] = d.deliver(id, s, evt)
		}()
	}
	wg.Wait()

	report := DeliveryReport{EventID: id, EventType: evt.Type, At: time.Now().UTC(), Deliveries: deliveries}
	if d.reports == nil {
		return
	}
	select {
	case d.reports <- report:
	default:
		d.log.Debug("Delivery report lost", "id", id)
	}
}

func (d *Dispatcher) deliver(id uuid.UUID, s contract.Subscriber, evt event.Event) Delivery {
	start := time.Now()
	res := Delivery{Subscriber: s.Name()}

	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	defer cancel()

	if err := call(ctx, s, evt); err != nil {
		res.Err = fmt.Errorf("%w: %s: %w", errors.ErrDeliveryFailed, res.Subscriber, err)
	}
	res.Duration = time.Since(start)

	if res.Err != nil {
		d.log.Warn("Delivery failed", "id", id, "type", evt.Type, "subscriber", res.Subscriber,
			"duration", res.Duration, "error", res.Err)
	}
	return res
}

// call reports the subscriber's own result. Subscribers must return once ctx
// is done, the HTTP subscriber does through its request context.
func call(ctx context.Context, s contract.Subscriber, evt event.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()
	return s.Deliver(ctx, evt)
}
