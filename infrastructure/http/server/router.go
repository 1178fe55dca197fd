package server

import (
	"blog-bus/contract"
	"blog-bus/services"
	"log/slog"
	"net/http"
)

// Probes are the routes every service exposes.
type Probes struct {
	Health  http.Handler
	Metrics http.Handler
	Inspect http.Handler
}

func newMux(probes Probes) *http.ServeMux {
	mux := http.NewServeMux()
	if probes.Health != nil {
		mux.Handle("GET /health", probes.Health)
	}
	if probes.Metrics != nil {
		mux.Handle("GET /metrics", probes.Metrics)
	}
	if probes.Inspect != nil {
		mux.Handle("GET /debug/inspect", probes.Inspect)
	}
	return mux
}

func wrap(log *slog.Logger, mux *http.ServeMux) http.Handler {
	return Chain(mux, Logging(log), Recover(log))
}

// NewBusRouter serves the dispatcher.
func NewBusRouter(log *slog.Logger, events *BusEventsHandler, probes Probes) http.Handler {
	mux := newMux(probes)
	mux.Handle("POST /events", events)
	return wrap(log, mux)
}

// NewSubscriberRouter serves a subscriber that only consumes events.
func NewSubscriberRouter(log *slog.Logger, sink contract.EventSink, probes Probes) http.Handler {
	mux := newMux(probes)
	mux.Handle("POST /events", NewSinkEventsHandler(log, sink))
	return wrap(log, mux)
}

// NewQueryRouter serves the materialized view.
func NewQueryRouter(log *slog.Logger, sink contract.EventSink, posts PostReader, probes Probes) http.Handler {
	mux := newMux(probes)
	query := NewQueryHandler(log, posts)
	mux.Handle("POST /events", NewSinkEventsHandler(log, sink))
	mux.HandleFunc("GET /posts", query.ListPosts)
	mux.HandleFunc("GET /posts/{id}", query.GetPost)
	return wrap(log, mux)
}

func NewPostsRouter(log *slog.Logger, service services.IPostService, probes Probes) http.Handler {
	mux := newMux(probes)
	posts := NewPostsHandler(log, service)
	mux.HandleFunc("POST /posts", posts.CreatePost)
	mux.HandleFunc("GET /posts", posts.ListPosts)
	return wrap(log, mux)
}

// NewCommentsRouter serves the comments producer, which also listens to the
// bus for moderation decisions.
func NewCommentsRouter(log *slog.Logger, service services.ICommentService, sink contract.EventSink, probes Probes) http.Handler {
	mux := newMux(probes)
	comments := NewCommentsHandler(log, service)
	mux.Handle("POST /events", NewSinkEventsHandler(log, sink))
	mux.HandleFunc("POST /posts/{id}/comments", comments.CreateComment)
	mux.HandleFunc("GET /posts/{id}/comments", comments.ListComments)
	return wrap(log, mux)
}
