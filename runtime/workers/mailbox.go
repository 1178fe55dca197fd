package workers

import (
	"blog-bus/contract"
	"blog-bus/domain/event"
	"blog-bus/errors"
	"context"
)

var _ contract.EventSink = (*Mailbox)(nil)

// Mailbox is the inbound queue of a subscriber. Consume only enqueues,
// the owning worker drains it sequentially.
type Mailbox struct {
	name   string
	events chan event.Event
}

func NewMailbox(name string, size int) *Mailbox {
	return &Mailbox{name: name, events: make(chan event.Event, size)}
}

// Consume never waits for room: a full mailbox answers errors.ErrMailboxFull.
func (m *Mailbox) Consume(ctx context.Context, e event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case m.events <- e:
		return nil
	default:
		return errors.ErrMailboxFull
	}
}

func (m *Mailbox) Name() string { return m.name }

func (m *Mailbox) Events() <-chan event.Event { return m.events }

func (m *Mailbox) Len() int { return len(m.events) }

func (m *Mailbox) Cap() int { return cap(m.events) }
