// Package client sends events over HTTP: to a subscriber endpoint on behalf
// of the dispatcher, or to the dispatcher on behalf of a producer.
package client

import (
	"blog-bus/contract"
	"blog-bus/domain/event"
	"blog-bus/errors"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxErrorBody = 512

var (
	_ contract.Subscriber = (*Subscriber)(nil)
	_ contract.Publisher  = (*BusClient)(nil)
)

// NewHTTPClient returns the client shared by subscribers and producers.
// Deadlines come from the caller's context, the client timeout only bounds stuck connections.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Subscriber delivers events to a remote "POST /events" endpoint.
type Subscriber struct {
	name   string
	url    string
	client *http.Client
}

func NewSubscriber(name, url string, client *http.Client) *Subscriber {
	return &Subscriber{name: name, url: url, client: client}
}

func (s *Subscriber) Name() string { return s.name }

// Deliver posts the event as it was received. Any non-2xx answer is a failure.
func (s *Subscriber) Deliver(ctx context.Context, e event.Event) error {
	return postEvent(ctx, s.client, s.url, e)
}

// BusClient publishes events to the dispatcher.
type BusClient struct {
	url    string
	client *http.Client
}

func NewBusClient(url string, client *http.Client) *BusClient {
	return &BusClient{url: url, client: client}
}

// Publish returns errors.ErrMalformedEvent when the dispatcher refused the event.
func (c *BusClient) Publish(ctx context.Context, e event.Event) error {
	return postEvent(ctx, c.client, c.url, e)
}

func postEvent(ctx context.Context, client *http.Client, url string, e event.Event) error {
	body, err := e.Encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Type, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("%w: %s: %s", errors.ErrMalformedEvent, url, bytes.TrimSpace(detail))
	}
	return fmt.Errorf("%s answered %s: %s", url, resp.Status, bytes.TrimSpace(detail))
}
