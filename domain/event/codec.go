package event

import (
	"blog-bus/errors"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Decode parses a wire envelope and validates its payload once.
// Unknown types are kept with a nil Payload so that a relay can still forward them.
func Decode(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %v", errors.ErrMalformedEvent, err)
	}
	if env.Type == "" {
		return Event{}, errors.ErrMissingEventType
	}

	payload, err := decodePayload(env.Type, env.Data)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: env.Type, Data: env.Data, Payload: payload}, nil
}

// New builds an event from a payload produced locally.
func New(p Payload) (Event, error) {
	if err := validate.Struct(p); err != nil {
		return Event{}, fmt.Errorf("%w: %s: %v", errors.ErrMalformedEvent, p.EventType(), err)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: p.EventType(), Data: data, Payload: p}, nil
}

func decodePayload(t Type, data json.RawMessage) (Payload, error) {
	var p Payload
	switch t {
	case PostCreatedType:
		p = &PostCreated{}
	case CommentSubmittedType:
		p = &CommentSubmitted{}
	case CommentModeratedType:
		p = &CommentModerated{}
	case CommentCreatedType:
		p = &CommentCreated{}
	case CommentUpdatedType:
		p = &CommentUpdated{}
	default:
		return nil, nil
	}

	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, fmt.Errorf("%w: %s without data", errors.ErrMalformedEvent, t)
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrMalformedEvent, t, err)
	}
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrMalformedEvent, t, err)
	}
	return deref(p), nil
}

// deref keeps payloads as values so that type switches match on the struct types.
func deref(p Payload) Payload {
	switch v := p.(type) {
	case *PostCreated:
		return *v
	case *CommentSubmitted:
		return *v
	case *CommentModerated:
		return *v
	case *CommentCreated:
		return *v
	case *CommentUpdated:
		return *v
	default:
		return p
	}
}
