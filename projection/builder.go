package projection

import (
	"blog-bus/domain/event"
	"blog-bus/errors"
	"context"
	"log/slog"
	"time"
)

// Result describes what handling one delivered event did to the projection.
type Result struct {
	Outcome  Outcome
	Err      error
	Replayed int // parked events applied thanks to this one
	Evicted  int // parked events dropped to make room
}

// ViewBuilder applies delivered events to the projection. Events whose
// dependency is missing are parked and replayed after every successful
// application, so that the final projection does not depend on arrival order.
// It must be driven by a single goroutine.
type ViewBuilder struct {
	log     *slog.Logger
	posts   *Posts
	parking *Parking
	now     func() time.Time
}

func NewViewBuilder(log *slog.Logger, posts *Posts, parking *Parking) *ViewBuilder {
	return &ViewBuilder{log: log, posts: posts, parking: parking, now: time.Now}
}

func (b *ViewBuilder) Posts() *Posts { return b.posts }

func (b *ViewBuilder) Handle(ctx context.Context, e event.Event) Result {
	outcome, err := b.posts.Apply(ctx, e)
	switch {
	case err == nil:
		res := Result{Outcome: outcome}
		if outcome == OutcomeApplied {
			res.Replayed = b.replay(ctx)
		}
		return res
	case errors.IsRetryable(err):
		res := Result{Outcome: OutcomeParked, Err: err}
		if evicted := b.parking.Park(e, err, b.now()); evicted != nil {
			b.log.Warn("Parked event dropped", "type", evicted.Event.Type,
				"reason", evicted.Reason, "error", errors.ErrParkingFull)
			res.Evicted = 1
		}
		b.log.Debug("Event parked", "type", e.Type, "reason", err, "parked", b.parking.Len())
		return res
	default:
		b.log.Error("Unable to apply event", "type", e.Type, "error", err)
		return Result{Outcome: OutcomeFailed, Err: err}
	}
}

// replay re-attempts parked events in arrival order until no more progress is made.
func (b *ViewBuilder) replay(ctx context.Context) int {
	replayed := 0
	for progress := true; progress && b.parking.Len() > 0; {
		progress = false
		var still []Parked
		for _, item := range b.parking.take() {
			_, err := b.posts.Apply(ctx, item.Event)
			switch {
			case err == nil:
				replayed++
				progress = true
			case errors.IsRetryable(err):
				item.Reason = err
				still = append(still, item)
			default:
				b.log.Error("Unable to apply parked event", "type", item.Event.Type, "error", err)
			}
		}
		b.parking.restore(still)
	}
	if replayed > 0 {
		b.log.Debug("Parked events replayed", "count", replayed, "parked", b.parking.Len())
	}
	return replayed
}

// Expire drops the parked events whose dependency never showed up in time.
func (b *ViewBuilder) Expire() int {
	expired := b.parking.Expire(b.now())
	for _, item := range expired {
		b.log.Warn("Parked event expired", "type", item.Event.Type, "reason", item.Reason,
			"data", string(item.Event.Data), "error", errors.ErrParkingExpired)
	}
	return len(expired)
}

func (b *ViewBuilder) Parked() int { return b.parking.Len() }
