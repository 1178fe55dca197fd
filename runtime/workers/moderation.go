package workers

import (
	"blog-bus/contract"
	"blog-bus/domain/event"
	"blog-bus/moderation"
	"blog-bus/observability"
	"context"
	"log/slog"
	"time"

	"github.com/abadojack/whatlanggo"
)

const DefaultPublishTimeout = 3 * time.Second

// ModerationWorker turns raw comment submissions into moderated comments.
// It keeps no state between two events.
type ModerationWorker struct {
	log            *slog.Logger
	moderator      moderation.Moderator
	mailbox        *Mailbox
	publisher      contract.Publisher
	metrics        *observability.Metrics
	publishTimeout time.Duration
}

func NewModerationWorker(log *slog.Logger, moderator moderation.Moderator, mailbox *Mailbox,
	publisher contract.Publisher, metrics *observability.Metrics, publishTimeout time.Duration) *ModerationWorker {
	if publishTimeout <= 0 {
		publishTimeout = DefaultPublishTimeout
	}
	return &ModerationWorker{
		log:            log,
		moderator:      moderator,
		mailbox:        mailbox,
		publisher:      publisher,
		metrics:        metrics,
		publishTimeout: publishTimeout,
	}
}

func (w *ModerationWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return nil
		case e := <-w.mailbox.Events():
			outcome := "ignored"
			if evt, ok := e.Payload.(event.CommentSubmitted); ok {
				outcome = w.moderate(ctx, evt)
			}
			w.metrics.EventsConsumed.WithLabelValues(string(e.Type), outcome).Inc()
		}
	}
}

// moderate classifies one submission and publishes the decision back to the bus.
// Nothing is retried: a failed publish is only logged.
func (w *ModerationWorker) moderate(ctx context.Context, evt event.CommentSubmitted) string {
	lang := whatlanggo.Detect(evt.Content).Lang.Iso6391()

	decision, err := w.moderator.Classify(evt.Content)
	if err != nil {
		w.log.Warn("Comment not moderated", "id", evt.ID, "postId", evt.PostID, "lang", lang, "error", err)
		return "failed"
	}
	w.metrics.ModerationDecisions.WithLabelValues(string(decision.Status)).Inc()
	w.log.Info("Comment moderated",
		"id", evt.ID,
		"postId", evt.PostID,
		"status", decision.Status,
		"lang", lang,
		"words", decision.Words)

	moderated, err := event.New(event.CommentModerated{
		ID:      evt.ID,
		PostID:  evt.PostID,
		Content: evt.Content,
		Status:  decision.Status,
	})
	if err != nil {
		w.log.Error("Unable to build moderated event", "id", evt.ID, "error", err)
		return "failed"
	}

	publishCtx, cancel := context.WithTimeout(ctx, w.publishTimeout)
	defer cancel()
	if err := w.publisher.Publish(publishCtx, moderated); err != nil {
		w.log.Warn("Unable to publish moderated comment", "id", evt.ID, "error", err)
		return "failed"
	}
	return "applied"
}
