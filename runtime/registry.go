package runtime

import (
	"blog-bus/contract"
	"blog-bus/errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

var _ contract.IRegistry = (*Registry)(nil)

// Registry holds the subscribers the dispatcher fans events out to.
type Registry struct {
	mu          sync.RWMutex
	subscribers map[string]contract.Subscriber // map name -> Subscriber
	order       []string                       // registration order
}

func NewRegistry(subscribers ...contract.Subscriber) *Registry {
	r := &Registry{subscribers: make(map[string]contract.Subscriber)}
	for _, s := range subscribers {
		r.Subscribe(s)
	}
	return r
}

// Subscribe registers a subscriber under its name.
// Registering a name twice replaces the previous subscriber and keeps its position.
func (r *Registry) Subscribe(subscriber contract.Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := subscriber.Name()
	if _, ok := r.subscribers[name]; !ok {
		r.order = append(r.order, name)
	}
	r.subscribers[name] = subscriber
}

// Unsubscribe removes a subscriber. Unknown names are ignored.
func (r *Registry) Unsubscribe(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subscribers[name]; !ok {
		return
	}
	delete(r.subscribers, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Subscribers returns a snapshot, safe to range over while the registry changes.
func (r *Registry) Subscribers() []contract.Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]contract.Subscriber, 0, len(r.order))
	for _, name := range r.order {
		res = append(res, r.subscribers[name])
	}
	return res
}

// Endpoint is a named subscriber address taken from configuration.
type Endpoint struct {
	Name string
	URL  string
}

// ParseEndpoints reads a "name=url,name=url" list.
// Entries without a name are named after their host.
func ParseEndpoints(raw string) ([]Endpoint, error) {
	var endpoints []Endpoint
	seen := make(map[string]struct{})
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, address, found := strings.Cut(entry, "=")
		if !found {
			name, address = "", entry
		}
		name, address = strings.TrimSpace(name), strings.TrimSpace(address)

		u, err := url.Parse(address)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: %q is not an absolute url", errors.ErrInvalidSubscriberList, address)
		}
		if name == "" {
			name = u.Host
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: duplicate subscriber %q", errors.ErrInvalidSubscriberList, name)
		}
		seen[name] = struct{}{}
		endpoints = append(endpoints, Endpoint{Name: name, URL: address})
	}
	return endpoints, nil
}
