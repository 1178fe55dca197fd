package workers

import (
	"blog-bus/domain"
	"blog-bus/domain/event"
	"blog-bus/errors"
	"blog-bus/mocks"
	"blog-bus/moderation"
	"blog-bus/observability"
	"blog-bus/projection"
	"blog-bus/runtime"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func mustEvent(t *testing.T, p event.Payload) event.Event {
	t.Helper()
	evt, err := event.New(p)
	require.NoError(t, err)
	return evt
}

func runWorker(t *testing.T, run func(ctx context.Context) error) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func TestMailbox_Consume(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	mailbox := NewMailbox("query", 1)
	evt := mustEvent(t, event.PostCreated{ID: "1", Title: "A"})

	// When the mailbox has room, the event is accepted
	req.NoError(mailbox.Consume(ctx, evt))
	req.Equal(1, mailbox.Len())

	// When it is full, the caller is told without waiting
	req.ErrorIs(mailbox.Consume(ctx, evt), errors.ErrMailboxFull)

	// When the caller gave up, nothing is enqueued
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	<-mailbox.Events()
	req.ErrorIs(mailbox.Consume(canceled, evt), context.Canceled)
	req.Zero(mailbox.Len())
}

func TestProjectorWorker_Applies_Mailbox_In_Order(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctx := context.Background()
	metrics := observability.NewMetrics("query")

	posts := projection.NewPosts(log, nil)
	builder := projection.NewViewBuilder(log, posts, projection.NewParking(10, time.Minute))
	mailbox := NewMailbox("query", 10)
	worker := NewProjectorWorker(log, mailbox, builder, metrics, 10*time.Millisecond)

	// Given a comment delivered before its post
	req.NoError(mailbox.Consume(ctx, mustEvent(t, event.CommentCreated{ID: "10", PostID: "1", Content: "hi", Status: domain.StatusApproved})))
	req.NoError(mailbox.Consume(ctx, mustEvent(t, event.PostCreated{ID: "1", Title: "A"})))
	req.NoError(mailbox.Consume(ctx, mustEvent(t, event.CommentUpdated{ID: "10", PostID: "1", Content: "hi", Status: domain.StatusRejected})))

	// When the worker drains the mailbox
	runWorker(t, worker.Run)

	// Then the projection converges
	req.Eventually(func() bool {
		post, ok := posts.ByID("1")
		return ok && len(post.Comments) == 1 && post.Comments[0].Status == domain.StatusRejected
	}, time.Second, 10*time.Millisecond)
	req.Eventually(func() bool {
		return testutil.ToFloat64(metrics.EventsConsumed.WithLabelValues("CommentUpdated", "applied")) == 1
	}, time.Second, 10*time.Millisecond)
	req.Equal(1.0, testutil.ToFloat64(metrics.EventsConsumed.WithLabelValues("CommentCreated", "parked")))
	req.Zero(testutil.ToFloat64(metrics.ParkedEvents))
}

func TestProjectorWorker_Expires_Parked_Events(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctx := context.Background()
	metrics := observability.NewMetrics("query")

	builder := projection.NewViewBuilder(log, projection.NewPosts(log, nil), projection.NewParking(10, 20*time.Millisecond))
	mailbox := NewMailbox("query", 10)
	worker := NewProjectorWorker(log, mailbox, builder, metrics, 10*time.Millisecond)

	// Given a comment whose post never arrives
	req.NoError(mailbox.Consume(ctx, mustEvent(t, event.CommentCreated{ID: "10", PostID: "1", Content: "hi", Status: domain.StatusApproved})))
	runWorker(t, worker.Run)

	// Then the sweep drops it
	req.Eventually(func() bool {
		return testutil.ToFloat64(metrics.EventsConsumed.WithLabelValues("", "expired")) == 1 &&
			testutil.ToFloat64(metrics.ParkedEvents) == 0
	}, time.Second, 10*time.Millisecond)
}

func newModerationWorker(t *testing.T, words []string) (*ModerationWorker, *Mailbox, *mocks.MockPublisher, *observability.Metrics) {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	moderator, err := moderation.NewModerator(words, '*', 300, log)
	require.NoError(t, err)
	publisher := mocks.NewMockPublisher(ctrl)
	mailbox := NewMailbox("moderation", 10)
	metrics := observability.NewMetrics("moderation")
	return NewModerationWorker(log, moderator, mailbox, publisher, metrics, time.Second), mailbox, publisher, metrics
}

func TestModerationWorker_Publishes_Decision(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	worker, mailbox, publisher, metrics := newModerationWorker(t, []string{"badword"})

	published := make(chan event.Event, 2)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e event.Event) error {
			published <- e
			return nil
		}).Times(2)

	// Given two submissions, one of them containing a disallowed word
	req.NoError(mailbox.Consume(ctx, mustEvent(t, event.CommentSubmitted{ID: "1", PostID: "7", Content: "this is a badword test"})))
	req.NoError(mailbox.Consume(ctx, mustEvent(t, event.CommentSubmitted{ID: "2", PostID: "7", Content: "great post"})))

	// When the worker runs
	runWorker(t, worker.Run)

	// Then each decision is published back, content untouched
	expected := []event.CommentModerated{
		{ID: "1", PostID: "7", Content: "this is a badword test", Status: domain.StatusRejected},
		{ID: "2", PostID: "7", Content: "great post", Status: domain.StatusApproved},
	}
	for _, want := range expected {
		select {
		case e := <-published:
			req.Equal(event.CommentModeratedType, e.Type)
			req.Equal(want, e.Payload)
		case <-time.After(time.Second):
			req.FailNow("no moderated event published")
		}
	}
	req.Equal(1.0, testutil.ToFloat64(metrics.ModerationDecisions.WithLabelValues("rejected")))
	req.Equal(1.0, testutil.ToFloat64(metrics.ModerationDecisions.WithLabelValues("approved")))
}

func TestModerationWorker_Ignores_Other_Events_And_Invalid_Content(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	worker, mailbox, _, metrics := newModerationWorker(t, []string{"badword"})

	// Given events the worker must not publish anything for (no Publish expectation)
	tooLong := make([]byte, 301)
	for i := range tooLong {
		tooLong[i] = 'a'
	}
	req.NoError(mailbox.Consume(ctx, mustEvent(t, event.PostCreated{ID: "7", Title: "Hello"})))
	req.NoError(mailbox.Consume(ctx, mustEvent(t, event.CommentModerated{ID: "1", PostID: "7", Content: "hi", Status: domain.StatusApproved})))
	req.NoError(mailbox.Consume(ctx, mustEvent(t, event.CommentSubmitted{ID: "2", PostID: "7", Content: string(tooLong)})))

	runWorker(t, worker.Run)

	req.Eventually(func() bool {
		return testutil.ToFloat64(metrics.EventsConsumed.WithLabelValues("CommentSubmitted", "failed")) == 1
	}, time.Second, 10*time.Millisecond)
	req.Equal(1.0, testutil.ToFloat64(metrics.EventsConsumed.WithLabelValues("PostCreated", "ignored")))
	req.Equal(1.0, testutil.ToFloat64(metrics.EventsConsumed.WithLabelValues("CommentModerated", "ignored")))
}

func TestModerationWorker_Publish_Failure_Is_Not_Retried(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	worker, mailbox, publisher, metrics := newModerationWorker(t, []string{"badword"})

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(fmt.Errorf("connection refused")).Times(1)
	req.NoError(mailbox.Consume(ctx, mustEvent(t, event.CommentSubmitted{ID: "1", PostID: "7", Content: "great post"})))

	runWorker(t, worker.Run)

	req.Eventually(func() bool {
		return testutil.ToFloat64(metrics.EventsConsumed.WithLabelValues("CommentSubmitted", "failed")) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestDeliveryReportWorker_Records_Metrics(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	metrics := observability.NewMetrics("bus")
	reports := make(chan runtime.DeliveryReport, 1)
	worker := NewDeliveryReportWorker(log, reports, metrics)
	runWorker(t, worker.Run)

	reports <- runtime.DeliveryReport{
		EventID:   uuid.New(),
		EventType: event.PostCreatedType,
		At:        time.Now(),
		Deliveries: []runtime.Delivery{
			{Subscriber: "query", Duration: time.Millisecond},
			{Subscriber: "moderation", Err: errors.ErrDeliveryFailed, Duration: time.Second},
		},
	}

	req.Eventually(func() bool {
		return testutil.ToFloat64(metrics.Deliveries.WithLabelValues("moderation", "failed")) == 1
	}, time.Second, 10*time.Millisecond)
	req.Equal(1.0, testutil.ToFloat64(metrics.Deliveries.WithLabelValues("query", "delivered")))
	req.Zero(testutil.ToFloat64(metrics.Deliveries.WithLabelValues("query", "failed")))
}

func TestChannelCapacityWorker_Samples_Mailboxes(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctx := context.Background()
	metrics := observability.NewMetrics("query")

	mailbox := NewMailbox("query", 4)
	req.NoError(mailbox.Consume(ctx, mustEvent(t, event.PostCreated{ID: "1", Title: "A"})))
	req.NoError(mailbox.Consume(ctx, mustEvent(t, event.PostCreated{ID: "2", Title: "B"})))

	worker := NewChannelCapacityWorker(log, []*Mailbox{mailbox}, metrics, 10*time.Millisecond)
	runWorker(t, worker.Run)

	req.Eventually(func() bool {
		return testutil.ToFloat64(metrics.MailboxDepth.WithLabelValues("query")) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestChannelCapacityWorker_Defaults_Interval(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given a disabled interval, as with METRIC_INTERVAL=0
	for _, interval := range []time.Duration{0, -time.Second} {
		worker := NewChannelCapacityWorker(log, nil, observability.NewMetrics("query"), interval)

		// Then the default is used and Run does not panic
		req.Equal(DefaultMetricInterval, worker.metricInterval)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req.NotPanics(func() { req.NoError(worker.Run(ctx)) })
	}
}

type handlerFunc func(ctx context.Context, e event.Event) error

func (f handlerFunc) Handle(ctx context.Context, e event.Event) error { return f(ctx, e) }

func TestHandlerWorker_Counts_Outcomes(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctx := context.Background()
	metrics := observability.NewMetrics("comments")
	mailbox := NewMailbox("comments", 10)

	handled := make(chan event.Type, 10)
	worker := NewHandlerWorker(log, mailbox, handlerFunc(func(_ context.Context, e event.Event) error {
		handled <- e.Type
		if e.Type == event.PostCreatedType {
			return fmt.Errorf("boom")
		}
		return nil
	}), metrics)

	// Given a failing event, a handled event and an unknown one
	req.NoError(mailbox.Consume(ctx, mustEvent(t, event.PostCreated{ID: "1", Title: "A"})))
	req.NoError(mailbox.Consume(ctx, mustEvent(t, event.CommentModerated{ID: "3", PostID: "1", Content: "ok", Status: domain.StatusApproved})))
	req.NoError(mailbox.Consume(ctx, event.Event{Type: "PostDeleted", Data: []byte(`{"id":1}`)}))

	// When
	runWorker(t, worker.Run)

	// Then unknown events never reach the handler
	req.Eventually(func() bool {
		return testutil.ToFloat64(metrics.EventsConsumed.WithLabelValues("PostDeleted", "ignored")) == 1
	}, time.Second, 10*time.Millisecond)
	req.Equal(1.0, testutil.ToFloat64(metrics.EventsConsumed.WithLabelValues("PostCreated", "failed")))
	req.Equal(1.0, testutil.ToFloat64(metrics.EventsConsumed.WithLabelValues("CommentModerated", "applied")))
	req.Len(handled, 2)
}
