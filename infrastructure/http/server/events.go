package server

import (
	"blog-bus/contract"
	"blog-bus/domain/event"
	"blog-bus/errors"
	"blog-bus/observability"
	"blog-bus/runtime"
	"context"
	"io"
	"log/slog"
	"net/http"

	stderrors "errors"
)

// Dispatcher is the part of runtime.Dispatcher the bus endpoint needs.
type Dispatcher interface {
	Publish(ctx context.Context, e event.Event) (runtime.Ack, error)
}

// readEvent decodes and validates the request body once.
func readEvent(w http.ResponseWriter, r *http.Request) (event.Event, int, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return event.Event{}, http.StatusRequestEntityTooLarge, err
		}
		return event.Event{}, http.StatusBadRequest, err
	}
	evt, err := event.Decode(body)
	if err != nil {
		return event.Event{}, http.StatusBadRequest, err
	}
	return evt, http.StatusOK, nil
}

// BusEventsHandler accepts events from producers and hands them to the dispatcher.
type BusEventsHandler struct {
	log        *slog.Logger
	dispatcher Dispatcher
	metrics    *observability.Metrics
}

func NewBusEventsHandler(log *slog.Logger, dispatcher Dispatcher, metrics *observability.Metrics) *BusEventsHandler {
	return &BusEventsHandler{log: log, dispatcher: dispatcher, metrics: metrics}
}

type busAck struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

func (h *BusEventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	evt, status, err := readEvent(w, r)
	if err != nil {
		h.metrics.EventsRejected.Inc()
		h.log.Info("Event rejected", "error", err)
		writeError(w, status, err.Error())
		return
	}

	ack, err := h.dispatcher.Publish(r.Context(), evt)
	switch {
	case err == nil:
	case errors.IsMalformed(err):
		h.metrics.EventsRejected.Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case stderrors.Is(err, errors.ErrDispatcherStopped):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	default:
		h.log.Error("Unable to dispatch event", "type", evt.Type, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.metrics.EventsPublished.WithLabelValues(string(evt.Type)).Inc()
	writeJSON(w, http.StatusOK, busAck{Status: "OK", ID: ack.ID.String()})
}

// SinkEventsHandler is the "POST /events" endpoint of a subscriber service.
// It answers as soon as the event is queued, never after processing it.
type SinkEventsHandler struct {
	log  *slog.Logger
	sink contract.EventSink
}

func NewSinkEventsHandler(log *slog.Logger, sink contract.EventSink) *SinkEventsHandler {
	return &SinkEventsHandler{log: log, sink: sink}
}

func (h *SinkEventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	evt, status, err := readEvent(w, r)
	if err != nil {
		h.log.Info("Event rejected", "error", err)
		writeError(w, status, err.Error())
		return
	}

	if err := h.sink.Consume(r.Context(), evt); err != nil {
		if stderrors.Is(err, errors.ErrMailboxFull) {
			h.log.Warn("Event refused, mailbox is full", "type", evt.Type)
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
