//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"blog-bus/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Subscriber is an endpoint the dispatcher delivers a copy of every event to.
type Subscriber interface {
	Name() string
	Deliver(ctx context.Context, e event.Event) error
}

type IRegistry interface {
	Subscribe(subscriber Subscriber)
	Unsubscribe(name string)
	Subscribers() []Subscriber
}

// Publisher sends an event to the bus.
type Publisher interface {
	Publish(ctx context.Context, e event.Event) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, e event.Event) error

func (f PublisherFunc) Publish(ctx context.Context, e event.Event) error { return f(ctx, e) }

// EventSink is the inbound entry point of a subscriber service.
// Consume must not block on the processing of the event.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// Store is a flat key-value store. Get returns errors.ErrNotFound for unknown keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error
	Close() error
}
