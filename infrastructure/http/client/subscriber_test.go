package client

import (
	"blog-bus/domain/event"
	"blog-bus/errors"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSubscriber_Deliver_Forwards_Identical_Bytes(t *testing.T) {
	req := require.New(t)
	raw := `{"type":"PostCreated","data":{"id":1,  "title":"A"}}`
	evt, err := event.Decode([]byte(raw))
	req.NoError(err)

	received := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		received <- string(b)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	subscriber := NewSubscriber("query", server.URL+"/events", NewHTTPClient(time.Second))
	req.Equal("query", subscriber.Name())
	req.NoError(subscriber.Deliver(context.Background(), evt))
	req.Equal(raw, <-received)
}

func TestSubscriber_Deliver_Non_Success_Is_An_Error(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "mailbox is full", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	evt, err := event.New(event.PostCreated{ID: "1", Title: "A"})
	req.NoError(err)

	err = NewSubscriber("query", server.URL, NewHTTPClient(time.Second)).Deliver(context.Background(), evt)
	req.ErrorContains(err, "503")
	req.ErrorContains(err, "mailbox is full")
}

func TestSubscriber_Deliver_Honours_Context(t *testing.T) {
	req := require.New(t)
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	evt, err := event.New(event.PostCreated{ID: "1", Title: "A"})
	req.NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = NewSubscriber("query", server.URL, NewHTTPClient(time.Minute)).Deliver(ctx, evt)
	req.ErrorIs(err, context.DeadlineExceeded)
}

func TestBusClient_Publish(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		if _, err := event.Decode(b); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	bus := NewBusClient(server.URL+"/events", NewHTTPClient(time.Second))

	evt, err := event.New(event.PostCreated{ID: "1", Title: "A"})
	req.NoError(err)
	req.NoError(bus.Publish(context.Background(), evt))

	err = bus.Publish(context.Background(), event.Event{Type: event.PostCreatedType, Data: []byte(`{"id":1}`)})
	req.ErrorIs(err, errors.ErrMalformedEvent)
}
